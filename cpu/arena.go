package cpu

// Memory map of the chip16 system.
const (
	ARENA_LOAD       = 0x0000 // Program images load here, and pc starts here.
	ARENA_STACK_TOP  = 0xFFF0 // Initial stack pointer with a full memory.
	ARENA_STACK_SIZE = 0x0200 // Bytes reserved for the stack.
	ARENA_IO         = 0xFFF0 // Reserved for host I/O ports.

	PALETTE_SIZE = 16 * 3 // Bytes read by PAL: 16 RGB triples.
)

// stackBounds returns the stack top and limit for a memory size. Small
// memories put the stack at the very top of memory.
func stackBounds(size int) (top, limit uint16) {
	end := min(size&^1, ARENA_STACK_TOP)
	top = uint16(end)
	limit = top - min(top, ARENA_STACK_SIZE)
	return
}
