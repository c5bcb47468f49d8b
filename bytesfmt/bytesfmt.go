// Package bytesfmt implements the byte-codec emitters and decoder behind
// Document's Bytes presentation: a continuous hex string, a `hexdump -vC`
// style block, and an `xxd -g<n>` style block, byte-for-byte compatible
// with those two Unix tools' column layouts.
package bytesfmt

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Format selects one of the byte-codec encodings.
type Format int

// The three reversible byte encodings. Format(0) has no codec (bytes are
// emitted as a raw numeric sequence by the caller instead).
const (
	Standard Format = iota
	// HexStr is a continuous two-char-per-byte lowercase hex string.
	HexStr
	// Hexdump is the `hexdump -vC` column layout.
	Hexdump
	// Xxd is the `xxd -g2` column layout.
	Xxd
)

const hexDigits = "0123456789abcdef"

// ErrHexdump is the sentinel wrapped by decode failures.
var ErrHexdump = errors.New("bytesfmt: decode error")

// Encode renders data under the given format. Standard has no textual
// codec and returns ok=false.
func Encode(data []byte, format Format) (s string, ok bool) {
	switch format {
	case HexStr:
		return hexstr(data), true
	case Hexdump:
		return hexdump(data), true
	case Xxd:
		return xxd(data, 2), true
	default:
		return "", false
	}
}

func hexstr(data []byte) string {
	var b strings.Builder

	b.Grow(2 * len(data))

	for _, by := range data {
		b.WriteByte(hexDigits[by>>4])
		b.WriteByte(hexDigits[by&0x0F])
	}

	return b.String()
}

// chunks16 yields successive up-to-16-byte slices of data, mirroring
// Rust's slice::chunks(16) (zero chunks for empty input).
func chunks16(data []byte) [][]byte {
	var out [][]byte

	for start := 0; start < len(data); start += 16 {
		end := start + 16
		if end > len(data) {
			end = len(data)
		}

		out = append(out, data[start:end])
	}

	return out
}

func hexdump(data []byte) string {
	var b strings.Builder

	for i, chunk := range chunks16(data) {
		if i > 0 {
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "%08x", i*16)

		buf := [16]byte{}
		for k := range buf {
			buf[k] = '.'
		}

		space := 51

		for j, by := range chunk {
			if j%8 == 0 {
				b.WriteByte(' ')
				space--
			}

			b.WriteByte(' ')
			b.WriteByte(hexDigits[by>>4])
			b.WriteByte(hexDigits[by&0x0F])
			space -= 3

			if by >= 0x20 && by <= 0x7f {
				buf[j] = by
			} else {
				buf[j] = '.'
			}
		}

		fmt.Fprintf(&b, "%*s |%s|", space, " ", string(buf[:len(chunk)]))
	}

	return b.String()
}

func xxd(data []byte, grouping int) string {
	var b strings.Builder

	for i, chunk := range chunks16(data) {
		if i > 0 {
			b.WriteByte('\n')
		}

		fmt.Fprintf(&b, "%08x:", i*16)

		buf := [16]byte{}
		for k := range buf {
			buf[k] = '.'
		}

		space := (16/grouping)*(grouping*2+1) + 1

		for j, by := range chunk {
			if j%grouping == 0 {
				b.WriteByte(' ')
				space--
			}

			b.WriteByte(hexDigits[by>>4])
			b.WriteByte(hexDigits[by&0x0F])
			space -= 2

			if by >= 0x20 && by <= 0x7f {
				buf[j] = by
			} else {
				buf[j] = '.'
			}
		}

		fmt.Fprintf(&b, "%*s %s", space, " ", string(buf[:len(chunk)]))
	}

	return b.String()
}

var (
	xxdRe     = regexp.MustCompile(`(?m)^[[:xdigit:]]{8}:\s+((?:[[:xdigit:]]{2,}\s)+)\s+.{1,16}$`)
	hexdumpRe = regexp.MustCompile(`(?m)^[[:xdigit:]]{8}\s+((?:[[:xdigit:]]{2}\s+?){1,16})\s+\|.*\|$`)
	hexstrRe  = regexp.MustCompile(`^\s*(?:0[xX])?((?:[[:xdigit:]]\s*)+)$`)
)

func unhex(b byte) (int, bool) {
	switch {
	case b >= '0' && b <= '9':
		return int(b - '0'), true
	case b >= 'A' && b <= 'F':
		return int(b-'A') + 10, true
	case b >= 'a' && b <= 'f':
		return int(b-'a') + 10, true
	default:
		return 0, false
	}
}

func fromHex(text string, out []byte) ([]byte, error) {
	var digits []int

	for i := range len(text) {
		if v, ok := unhex(text[i]); ok {
			digits = append(digits, v)
		}
	}

	if len(digits)%2 != 0 {
		return out, fmt.Errorf("%w: odd number of hex input characters", ErrHexdump)
	}

	for i := 0; i < len(digits); i += 2 {
		out = append(out, byte(digits[i]<<4|digits[i+1]))
	}

	return out, nil
}

// Decode parses text in any of Xxd, Hexdump, or a free-form hex string,
// auto-detected in that order by regex, and returns the decoded bytes.
func Decode(text string) ([]byte, error) {
	var matches [][]string

	switch {
	case xxdRe.MatchString(text):
		matches = xxdRe.FindAllStringSubmatch(text, -1)
	case hexdumpRe.MatchString(text):
		matches = hexdumpRe.FindAllStringSubmatch(text, -1)
	case hexstrRe.MatchString(text):
		matches = hexstrRe.FindAllStringSubmatch(text, -1)
	default:
		return nil, fmt.Errorf("%w: unrecognized format", ErrHexdump)
	}

	var out []byte

	var err error

	for _, m := range matches {
		out, err = fromHex(m[1], out)
		if err != nil {
			return nil, err
		}
	}

	return out, nil
}
