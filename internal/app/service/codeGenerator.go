// Package service implements link shortening, redirect resolution and
// authentication on top of the storage interfaces.
package service

import (
	"crypto/rand"
)

// codeAlphabet holds the 64 URL-safe characters short codes are drawn from.
// A 64-character alphabet maps each random byte without modulo bias.
const codeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ-_"

// DefaultCodeLength is the length of generated short codes.
const DefaultCodeLength = 6

// CodeGenerator mints fixed-length random short codes.
type CodeGenerator struct {
	length int
}

func NewCodeGenerator(length int) *CodeGenerator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	return &CodeGenerator{length: length}
}

// Generate returns a new random code. Collisions are left to the storage
// layer's uniqueness constraint.
func (g *CodeGenerator) Generate() (string, error) {
	buf := make([]byte, g.length)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}

	return string(buf), nil
}
