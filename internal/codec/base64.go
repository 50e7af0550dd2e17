// Package codec implements the byte-grouping text encoding used to embed
// trophy images inside their metadata documents: groups of 3 input bytes map
// to 4 symbols from a 64-symbol alphabet, with '=' padding when the final
// group is short. The encoding is reversible; Decode(Encode(p)) == p for any
// payload, which trophy metadata tests rely on.
package codec

import (
	"errors"
	"fmt"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	padding  = '='
)

var (
	ErrInvalidLength = errors.New("encoded length is not a multiple of four")
	ErrInvalidSymbol = errors.New("invalid symbol in encoded input")
)

// Encode maps every 3-byte group to 4 alphabet symbols, padding the tail.
func Encode(src []byte) string {
	if len(src) == 0 {
		return ""
	}

	out := make([]byte, 0, (len(src)+2)/3*4)

	for i := 0; i+3 <= len(src); i += 3 {
		n := uint32(src[i])<<16 | uint32(src[i+1])<<8 | uint32(src[i+2])
		out = append(out,
			alphabet[n>>18&0x3F],
			alphabet[n>>12&0x3F],
			alphabet[n>>6&0x3F],
			alphabet[n&0x3F],
		)
	}

	switch len(src) % 3 {
	case 1:
		n := uint32(src[len(src)-1]) << 16
		out = append(out, alphabet[n>>18&0x3F], alphabet[n>>12&0x3F], padding, padding)
	case 2:
		n := uint32(src[len(src)-2])<<16 | uint32(src[len(src)-1])<<8
		out = append(out, alphabet[n>>18&0x3F], alphabet[n>>12&0x3F], alphabet[n>>6&0x3F], padding)
	}

	return string(out)
}

// Decode reverses Encode, reproducing the original bytes exactly.
func Decode(src string) ([]byte, error) {
	if len(src) == 0 {
		return []byte{}, nil
	}

	if len(src)%4 != 0 {
		return nil, fmt.Errorf("%w: %d symbols", ErrInvalidLength, len(src))
	}

	pad := 0
	for pad < 2 && src[len(src)-1-pad] == padding {
		pad++
	}

	out := make([]byte, 0, len(src)/4*3)

	for i := 0; i < len(src); i += 4 {
		var n uint32
		symbols := 4
		if i+4 == len(src) {
			symbols -= pad
		}

		for j := 0; j < 4; j++ {
			if j >= symbols {
				n <<= 6
				continue
			}

			v := symbolValue(src[i+j])
			if v < 0 {
				return nil, fmt.Errorf("%w: %q at offset %d", ErrInvalidSymbol, src[i+j], i+j)
			}
			n = n<<6 | uint32(v)
		}

		out = append(out, byte(n>>16), byte(n>>8), byte(n))
	}

	return out[:len(out)-pad], nil
}

func symbolValue(c byte) int {
	switch {
	case c >= 'A' && c <= 'Z':
		return int(c - 'A')
	case c >= 'a' && c <= 'z':
		return int(c-'a') + 26
	case c >= '0' && c <= '9':
		return int(c-'0') + 52
	case c == '+':
		return 62
	case c == '/':
		return 63
	default:
		return -1
	}
}
