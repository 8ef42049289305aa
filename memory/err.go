package memory

import (
	"github.com/ezrec/chip16/translate"
)

var f = translate.From

// ErrOutOfBounds is returned when an access of Width bytes at Address
// does not fit inside a memory of Size bytes.
type ErrOutOfBounds struct {
	Address uint32
	Width   int
	Size    int
}

func (err ErrOutOfBounds) Error() string {
	return f("memory access 0x%04x+%v out of bounds (size 0x%x)", err.Address, err.Width, err.Size)
}

// Is matches any ErrOutOfBounds, regardless of the access details.
func (err ErrOutOfBounds) Is(target error) (ok bool) {
	_, ok = target.(ErrOutOfBounds)
	return
}
