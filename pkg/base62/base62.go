// Package base62 converts numeric identifiers to short alphanumeric codes and back.
package base62

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	base     = uint64(len(alphabet))

	// maxLen is the length of math.MaxUint64 in base 62.
	maxLen = 11
)

var (
	// ErrEmpty is returned when decoding an empty code.
	ErrEmpty = errors.New("empty code")
	// ErrInvalidCharacter is returned when a code contains a character outside the alphabet.
	ErrInvalidCharacter = errors.New("invalid character")
	// ErrOverflow is returned when a code does not fit into uint64.
	ErrOverflow = errors.New("value overflows uint64")
)

// Encode returns the base 62 representation of n, most significant digit first.
// Encode(0) is "0".
func Encode(n uint64) string {
	if n == 0 {
		return alphabet[:1]
	}

	var buf [maxLen]byte
	i := len(buf)

	for n > 0 {
		i--
		buf[i] = alphabet[n%base]
		n /= base
	}

	return string(buf[i:])
}

// Decode is the inverse of Encode.
func Decode(code string) (uint64, error) {
	const op = "base62.Decode"

	if code == "" {
		return 0, fmt.Errorf("%s: %w", op, ErrEmpty)
	}

	var n uint64

	for i, r := range code {
		idx := strings.IndexRune(alphabet, r)
		if idx < 0 {
			return 0, fmt.Errorf("%s: %q at position %d: %w", op, r, i, ErrInvalidCharacter)
		}

		if n > (math.MaxUint64-uint64(idx))/base {
			return 0, fmt.Errorf("%s: %w", op, ErrOverflow)
		}

		n = n*base + uint64(idx)
	}

	return n, nil
}
