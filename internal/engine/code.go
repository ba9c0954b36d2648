package engine

import (
	"crypto/rand"
	"fmt"
)

// codeAlphabet excludes visually ambiguous characters (0/O, 1/I) so codes
// survive being read off a phone screen and typed on a locker keypad.
const codeAlphabet = "23456789ABCDEFGHJKLMNPQRSTUVWXYZ"

type CodeGenerator struct {
	length int
}

func NewCodeGenerator(length int) *CodeGenerator {
	return &CodeGenerator{length: length}
}

// Generate returns one candidate code. Uniqueness against the active set is
// the caller's job; see Engine.issueUniqueCode.
func (g *CodeGenerator) Generate() (string, error) {
	buf := make([]byte, g.length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
