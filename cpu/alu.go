package cpu

// ALU operations are pure methods on the prior flags. Each returns the
// 16-bit result and the flags after the operation. Flags an operation
// does not affect are carried over from the receiver.

// Add returns a + b. Carry is the unsigned carry out of bit 15, Overflow
// the signed overflow.
func (flags Flags) Add(a, b uint16) (result uint16, out Flags) {
	sum := uint32(a) + uint32(b)
	result = uint16(sum)
	overflow := (^(a ^ b) & (a ^ result) & 0x8000) != 0

	out = flags.withResult(result).
		With(FLAG_CARRY, sum > 0xffff).
		With(FLAG_OVERFLOW, overflow)
	return
}

// Sub returns a - b. Carry is the unsigned borrow, Overflow the signed
// overflow.
func (flags Flags) Sub(a, b uint16) (result uint16, out Flags) {
	result = a - b
	overflow := ((a ^ b) & (a ^ result) & 0x8000) != 0

	out = flags.withResult(result).
		With(FLAG_CARRY, b > a).
		With(FLAG_OVERFLOW, overflow)
	return
}

// Cmp returns the flags of a - b.
func (flags Flags) Cmp(a, b uint16) (out Flags) {
	_, out = flags.Sub(a, b)
	return
}

// logic sets Zero and Negative from result, clears Overflow and keeps
// Carry.
func (flags Flags) logic(result uint16) Flags {
	return flags.withResult(result).With(FLAG_OVERFLOW, false)
}

// And returns a & b.
func (flags Flags) And(a, b uint16) (result uint16, out Flags) {
	result = a & b
	out = flags.logic(result)
	return
}

// Tst returns the flags of a & b.
func (flags Flags) Tst(a, b uint16) (out Flags) {
	_, out = flags.And(a, b)
	return
}

// Or returns a | b.
func (flags Flags) Or(a, b uint16) (result uint16, out Flags) {
	result = a | b
	out = flags.logic(result)
	return
}

// Xor returns a ^ b.
func (flags Flags) Xor(a, b uint16) (result uint16, out Flags) {
	result = a ^ b
	out = flags.logic(result)
	return
}

// Not returns the bitwise complement of a.
func (flags Flags) Not(a uint16) (result uint16, out Flags) {
	result = ^a
	out = flags.logic(result)
	return
}

// Neg returns the two's complement negation of a.
func (flags Flags) Neg(a uint16) (result uint16, out Flags) {
	result = -a
	out = flags.logic(result)
	return
}

// Load returns a unchanged, with Zero and Negative describing it.
func (flags Flags) Load(a uint16) (result uint16, out Flags) {
	result = a
	out = flags.logic(result)
	return
}

// Mul returns the low 16 bits of a * b. Carry is set when the full
// product does not fit in 16 bits.
func (flags Flags) Mul(a, b uint16) (result uint16, out Flags) {
	product := uint32(a) * uint32(b)
	result = uint16(product)
	out = flags.logic(result).With(FLAG_CARRY, product > 0xffff)
	return
}

// Div returns the signed quotient a / b, truncated toward zero.
// Carry is set when the remainder is non-zero, Overflow when the
// quotient does not fit (-32768 / -1).
func (flags Flags) Div(a, b uint16) (result uint16, out Flags, err error) {
	if b == 0 {
		out = flags
		err = ErrDivisionByZero
		return
	}

	sa, sb := int16(a), int16(b)
	overflow := sa == -0x8000 && sb == -1
	// Go defines the overflowing quotient as the dividend.
	result = uint16(sa / sb)
	remainder := sa % sb

	out = flags.withResult(result).
		With(FLAG_CARRY, remainder != 0).
		With(FLAG_OVERFLOW, overflow)
	return
}

// Mod returns the signed modulo of a by b. A non-zero result has the
// sign of the divisor.
func (flags Flags) Mod(a, b uint16) (result uint16, out Flags, err error) {
	if b == 0 {
		out = flags
		err = ErrDivisionByZero
		return
	}

	sa, sb := int16(a), int16(b)
	mod := sa % sb
	if mod != 0 && (mod < 0) != (sb < 0) {
		mod += sb
	}
	result = uint16(mod)

	out = flags.logic(result)
	return
}

// Rem returns the signed remainder of a by b. A non-zero result has
// the sign of the dividend.
func (flags Flags) Rem(a, b uint16) (result uint16, out Flags, err error) {
	if b == 0 {
		out = flags
		err = ErrDivisionByZero
		return
	}

	sa, sb := int16(a), int16(b)
	result = uint16(sa % sb)

	out = flags.logic(result)
	return
}

// Shl shifts a left by n. Carry is the last bit shifted out.
func (flags Flags) Shl(a uint16, n uint16) (result uint16, out Flags) {
	var carry bool
	switch {
	case n == 0:
		result = a
	case n <= 16:
		carry = (a>>(16-n))&1 != 0
		result = uint16(uint32(a) << n)
	default:
		result = 0
	}

	out = flags.logic(result).With(FLAG_CARRY, carry)
	return
}

// Shr shifts a right by n, filling with zeros. Carry is the last bit
// shifted out.
func (flags Flags) Shr(a uint16, n uint16) (result uint16, out Flags) {
	var carry bool
	switch {
	case n == 0:
		result = a
	case n <= 16:
		carry = (a>>(n-1))&1 != 0
		result = uint16(uint32(a) >> n)
	default:
		result = 0
	}

	out = flags.logic(result).With(FLAG_CARRY, carry)
	return
}

// Sar shifts a right by n, filling with the sign bit. Carry is the last
// bit shifted out.
func (flags Flags) Sar(a uint16, n uint16) (result uint16, out Flags) {
	var carry bool
	if n > 16 {
		n = 16
	}

	sa := int32(int16(a))
	if n == 0 {
		result = a
	} else {
		carry = (sa>>(n-1))&1 != 0
		result = uint16(sa >> n)
	}

	out = flags.logic(result).With(FLAG_CARRY, carry)
	return
}
