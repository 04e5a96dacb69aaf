package products

import (
	"errors"
	"math/rand/v2"
	"strings"
)

const (
	// CodePrefix starts every generated product code.
	CodePrefix   = "PRD-"
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 4
	// maxCodeAttempts bounds the search for a code not yet in use.
	maxCodeAttempts = 32
)

// ErrCodeSpaceExhausted is returned when no free code was found.
var ErrCodeSpaceExhausted = errors.New("products: could not generate an unused code")

// CodeGenerator produces short display codes such as PRD-7QX2.
// It is not safe for concurrent use.
type CodeGenerator struct {
	rng *rand.Rand
}

// NewCodeGenerator builds a generator. A nil source uses the global generator.
func NewCodeGenerator(src rand.Source) *CodeGenerator {
	if src == nil {
		return &CodeGenerator{}
	}
	return &CodeGenerator{rng: rand.New(src)}
}

// Next returns a code whose characters are drawn independently and uniformly.
func (g *CodeGenerator) Next() string {
	var b strings.Builder
	b.Grow(len(CodePrefix) + codeLength)
	b.WriteString(CodePrefix)
	for i := 0; i < codeLength; i++ {
		b.WriteByte(codeAlphabet[g.intN(len(codeAlphabet))])
	}
	return b.String()
}

// Unique returns a code for which taken reports false.
func (g *CodeGenerator) Unique(taken func(string) bool) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code := g.Next()
		if taken == nil || !taken(code) {
			return code, nil
		}
	}
	return "", ErrCodeSpaceExhausted
}

func (g *CodeGenerator) intN(n int) int {
	if g == nil || g.rng == nil {
		return rand.IntN(n)
	}
	return g.rng.IntN(n)
}

// IsGeneratedCode reports whether code has the generated shape.
func IsGeneratedCode(code string) bool {
	if len(code) != len(CodePrefix)+codeLength || !strings.HasPrefix(code, CodePrefix) {
		return false
	}
	for _, r := range code[len(CodePrefix):] {
		if !strings.ContainsRune(codeAlphabet, r) {
			return false
		}
	}
	return true
}
