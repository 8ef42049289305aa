// Package cpu implements the processor and assembler for the chip16 system.
//
// The CPU has sixteen 16-bit general-purpose registers (r0-r15), a program
// counter, a descending stack in memory, and a carry/zero/overflow/negative
// flag set. Every instruction is one 32-bit big-endian word whose top byte
// is the opcode. Graphics, sound and random numbers are requested from a
// host Peripheral.
//
// The assembler accepts the chip16 mnemonics, with labels, equates, macros
// and compile-time expression evaluation.
package cpu
