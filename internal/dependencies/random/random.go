package random

import (
	"crypto/rand"
	"math/big"
)

// Alphabets used for generated identifiers
const (
	// Unambiguous leaves out characters that are easy to misread (0/O, 1/I)
	Unambiguous = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	UpperAlnum  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	LowerAlnum  = "abcdefghijklmnopqrstuvwxyz0123456789"
)

// Random is the source of randomness for ids, lobby codes and random bots
type Random interface {
	// Intn returns an int in [0, n), or 0 when n <= 0
	Intn(n int) int

	// String returns length characters drawn from alphabet
	String(length int, alphabet string) string
}

// Pick returns a uniformly chosen element of items.
// ok is false when items is empty
func Pick[T any](r Random, items []T) (item T, ok bool) {
	if len(items) == 0 {
		return item, false
	}
	i := r.Intn(len(items))
	if i < 0 || i >= len(items) {
		i = 0
	}
	return items[i], true
}

// CryptoRandom draws from crypto/rand
type CryptoRandom struct{}

// New creates a new CryptoRandom
func New() *CryptoRandom {
	return &CryptoRandom{}
}

// Intn returns a uniform int in [0, n)
func (r *CryptoRandom) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		// crypto/rand.Reader does not fail on supported platforms
		return 0
	}
	return int(v.Int64())
}

// String returns length characters of alphabet.
// Bytes at or above the largest multiple of len(alphabet) are discarded so
// every character is equally likely
func (r *CryptoRandom) String(length int, alphabet string) string {
	if length <= 0 || alphabet == "" {
		return ""
	}
	if len(alphabet) > 256 {
		out := make([]byte, length)
		for i := range out {
			out[i] = alphabet[r.Intn(len(alphabet))]
		}
		return string(out)
	}

	limit := 256 - 256%len(alphabet)
	out := make([]byte, 0, length)
	buf := make([]byte, length*2)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return ""
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out)
}
