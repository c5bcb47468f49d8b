// Package integer implements a base-tagged, width-parameterized integer:
// a numeric value that remembers the base (binary/octal/decimal/hex) and
// display width it was parsed or constructed with, so formatting it back to
// text reproduces the original spelling.
package integer

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strings"
)

// Base is a preferred radix for formatting an [Integer].
type Base int

// The four bases an Integer can be tagged with.
const (
	Bin Base = 2
	Oct Base = 8
	Dec Base = 10
	Hex Base = 16
)

// Prefix returns the textual prefix ("0b", "0o", "0x") for non-decimal
// bases, or "" for Dec.
func (b Base) Prefix() string {
	switch b {
	case Bin:
		return "0b"
	case Oct:
		return "0o"
	case Hex:
		return "0x"
	default:
		return ""
	}
}

func (b Base) String() string {
	switch b {
	case Bin:
		return "bin"
	case Oct:
		return "oct"
	case Dec:
		return "dec"
	case Hex:
		return "hex"
	default:
		return fmt.Sprintf("Base(%d)", int(b))
	}
}

// WidthNatural requests that [Integer.Format] pad to the natural width of
// the value's declared bit width in the chosen base, rather than to a fixed
// column count.
const WidthNatural = math.MaxInt

const hexDigits = "0123456789ABCDEF"

// ErrParseInt is the sentinel wrapped by every [ParseInt] failure.
var ErrParseInt = errors.New("integer: parse error")

// Integer is a signed or unsigned integer of a declared bit width (8, 16,
// 32, 64, or 128 bits), tagged with the base and minimum display width it
// should render with.
//
// The zero value is not useful; construct with [FromInt], [FromUint],
// [FromBigInt], or [ParseInt].
type Integer struct {
	// raw holds the canonical two's-complement bit pattern in
	// [0, 2^bitWidth), regardless of sign.
	raw      *big.Int
	signed   bool
	bitWidth int
	base     Base
	width    int
}

func maskFor(bitWidth int) *big.Int {
	return new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), uint(bitWidth)), big.NewInt(1))
}

func rawFromSigned(v *big.Int, bitWidth int) *big.Int {
	raw := new(big.Int).Set(v)
	if raw.Sign() < 0 {
		full := new(big.Int).Lsh(big.NewInt(1), uint(bitWidth))
		raw.Add(raw, full)
	}
	return new(big.Int).And(raw, maskFor(bitWidth))
}

// FromInt constructs an [Integer] from a signed value occupying bitWidth
// bits (8, 16, 32, 64, or 128), with no padding requested.
func FromInt(v int64, bitWidth int, base Base) Integer {
	return FromIntWidth(v, bitWidth, base, 0)
}

// FromIntWidth is [FromInt] with an explicit display width (0 = no padding,
// [WidthNatural] = pad to bitWidth in the chosen base).
func FromIntWidth(v int64, bitWidth int, base Base, width int) Integer {
	return Integer{
		raw:      rawFromSigned(big.NewInt(v), bitWidth),
		signed:   true,
		bitWidth: bitWidth,
		base:     base,
		width:    width,
	}
}

// FromUint constructs an [Integer] from an unsigned value occupying
// bitWidth bits, with no padding requested.
func FromUint(v uint64, bitWidth int, base Base) Integer {
	return FromUintWidth(v, bitWidth, base, 0)
}

// FromUintWidth is [FromUint] with an explicit display width.
func FromUintWidth(v uint64, bitWidth int, base Base, width int) Integer {
	raw := new(big.Int).SetUint64(v)
	return Integer{
		raw:      new(big.Int).And(raw, maskFor(bitWidth)),
		signed:   false,
		bitWidth: bitWidth,
		base:     base,
		width:    width,
	}
}

// FromBigInt constructs an [Integer] directly from an arbitrary-width
// signed or unsigned value, used for the 128-bit case that has no native
// Go primitive. v is interpreted as a signed value when signed is true.
func FromBigInt(v *big.Int, bitWidth int, signed bool, base Base, width int) Integer {
	var raw *big.Int
	if signed {
		raw = rawFromSigned(v, bitWidth)
	} else {
		raw = new(big.Int).And(v, maskFor(bitWidth))
	}

	return Integer{raw: raw, signed: signed, bitWidth: bitWidth, base: base, width: width}
}

// Padded returns a copy of i with its display width set to [WidthNatural].
func (i Integer) Padded() Integer {
	i.width = WidthNatural
	return i
}

// Base returns the integer's preferred base.
func (i Integer) Base() Base { return i.base }

// BitWidth returns the declared bit width (8, 16, 32, 64, or 128).
func (i Integer) BitWidth() int { return i.bitWidth }

// Signed reports whether the integer is interpreted as signed.
func (i Integer) Signed() bool { return i.signed }

// IsLegalJSON reports whether the integer's signed value fits within the
// JSON safe-integer range, ±(2^53 - 1).
func (i Integer) IsLegalJSON() bool {
	v := i.signedValue()
	bound := new(big.Int).Lsh(big.NewInt(1), 53)

	return v.CmpAbs(bound) < 0
}

// signedValue returns the value of i interpreted under its own signedness,
// regardless of requested format base.
func (i Integer) signedValue() *big.Int {
	if !i.signed {
		return new(big.Int).Set(i.raw)
	}

	half := new(big.Int).Lsh(big.NewInt(1), uint(i.bitWidth-1))
	if i.raw.Cmp(half) < 0 {
		return new(big.Int).Set(i.raw)
	}

	full := new(big.Int).Lsh(big.NewInt(1), uint(i.bitWidth))

	return new(big.Int).Sub(i.raw, full)
}

// Format renders the integer as text. If base is nil, the integer's own
// preferred base is used. Non-decimal bases render the raw two's-complement
// bit pattern at the declared width with a 0b/0o/0x prefix; decimal renders
// the signed or unsigned value with Go's usual sign convention.
func (i Integer) Format(base *Base) string {
	b := i.base
	if base != nil {
		b = *base
	}

	if b == Dec {
		return i.signedValue().String()
	}

	shift := uint(1)
	switch b {
	case Oct:
		shift = 3
	case Hex:
		shift = 4
	}

	width := i.width
	if width > 128 {
		switch b {
		case Bin:
			width = i.bitWidth
		case Oct:
			width = (i.bitWidth + 2) / 3
		case Hex:
			width = (i.bitWidth + 3) / 4
		}
	}

	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), shift), big.NewInt(1))
	v := new(big.Int).Set(i.raw)

	var digits []byte

	for {
		d := new(big.Int).And(v, mask)
		digits = append(digits, hexDigits[d.Int64()])

		if width > 0 {
			width--
		}

		v.Rsh(v, shift)

		if v.Sign() == 0 && width == 0 {
			break
		}
	}

	for l, r := 0, len(digits)-1; l < r; l, r = l+1, r-1 {
		digits[l], digits[r] = digits[r], digits[l]
	}

	return b.Prefix() + string(digits)
}

// String renders the integer in its own preferred base.
func (i Integer) String() string {
	return i.Format(nil)
}

func stripNumericPrefix(s string, ch byte) string {
	if len(s) < 2 || s[0] != '0' {
		return s
	}

	if s[1] == ch || s[1] == ch-0x20 {
		return s[2:]
	}

	return s
}

func detectNumericPrefix(s string) (Base, string) {
	if len(s) >= 2 && s[0] == '0' {
		switch s[1] {
		case 'b', 'B':
			return Bin, s[2:]
		case 'o', 'O':
			return Oct, s[2:]
		case 'x', 'X':
			return Hex, s[2:]
		}
	}

	return Dec, s
}

// ParseInt parses src as an [Integer].
//
// If radix is 2, 8, or 16, src is parsed in that base, optionally prefixed
// with the matching 0b/0o/0x marker. If radix is 10, src is parsed as plain
// decimal. If radix is 0, the base is inferred from a 0b/0o/0x prefix,
// defaulting to decimal when none is present.
//
// The parsed Integer always has a 128-bit declared width (mirroring the
// widest primitive storage) and remembers the observed digit count as its
// display width, so formatting it again reproduces leading zeros.
func ParseInt(src string, radix int) (Integer, error) {
	negative := false
	rest := src

	switch {
	case strings.HasPrefix(rest, "-"):
		negative = true
		rest = rest[1:]
	case strings.HasPrefix(rest, "+"):
		rest = rest[1:]
	}

	var base Base

	var text string

	switch radix {
	case 2:
		base, text = Bin, stripNumericPrefix(rest, 'b')
	case 8:
		base, text = Oct, stripNumericPrefix(rest, 'o')
	case 16:
		base, text = Hex, stripNumericPrefix(rest, 'x')
	case 10:
		base, text = Dec, rest
	default:
		base, text = detectNumericPrefix(rest)
	}

	if text == "" {
		return Integer{}, fmt.Errorf("%w: %q: no digits", ErrParseInt, src)
	}

	v, ok := new(big.Int).SetString(text, int(base))
	if !ok {
		return Integer{}, fmt.Errorf("%w: %q: invalid digits for base %s", ErrParseInt, src, base)
	}

	if v.BitLen() > 128 {
		return Integer{}, fmt.Errorf("%w: %q: does not fit in 128 bits", ErrParseInt, src)
	}

	if negative {
		v.Neg(v)
	}

	return FromBigInt(v, 128, negative, base, len(text)), nil
}

// ToInt64 truncates the integer's signed value to an int64.
func (i Integer) ToInt64() int64 {
	return i.signedValue().Int64()
}

// ToUint64 truncates the integer's raw bit pattern to a uint64.
func (i Integer) ToUint64() uint64 {
	return new(big.Int).And(i.raw, maskFor(64)).Uint64()
}

// ToBigInt returns the integer's signed value as a [big.Int].
func (i Integer) ToBigInt() *big.Int {
	return i.signedValue()
}
