// Package codegen builds the human-facing codes printed on invoices and labels.
package codegen

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
	"unicode"
)

const (
	CustomerPrefix = "CST"
	ProductPrefix  = "PDK"

	suffixAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	suffixLen      = 4
	maxNameLen     = 5
)

// Generator produces codes from a random source. The zero value uses crypto/rand.
type Generator struct {
	// Intn returns a uniform value in [0, n). Tests swap it for a fixed sequence.
	Intn func(n int) int
}

func (g Generator) intn(n int) int {
	if g.Intn != nil {
		return g.Intn(n)
	}
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("codegen: random source failed: %v", err))
	}
	return int(v.Int64())
}

// Invoice returns INV/YYYYMMDD/NNNN with a random four digit suffix in [1000, 9999].
func (g Generator) Invoice(now time.Time) string {
	return fmt.Sprintf("INV/%s/%d", now.Format("20060102"), 1000+g.intn(9000))
}

// Code returns <prefix>-<NAME>-<XXXX>, where NAME is the first word of name with
// non-alphanumerics stripped, upper-cased and cut to five characters.
func (g Generator) Code(prefix, name string) string {
	var b strings.Builder
	for i := 0; i < suffixLen; i++ {
		b.WriteByte(suffixAlphabet[g.intn(len(suffixAlphabet))])
	}
	return fmt.Sprintf("%s-%s-%s", prefix, nameStem(name), b.String())
}

func nameStem(name string) string {
	first := strings.TrimSpace(name)
	if i := strings.IndexAny(first, " \t"); i >= 0 {
		first = first[:i]
	}
	var b strings.Builder
	for _, r := range first {
		if r > unicode.MaxASCII || !(unicode.IsLetter(r) || unicode.IsDigit(r)) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
		if b.Len() == maxNameLen {
			break
		}
	}
	return b.String()
}
