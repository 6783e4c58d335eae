package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuotePickerDeterministicWithSeed(t *testing.T) {
	a := NewQuotePicker(rand.NewSource(7))
	b := NewQuotePicker(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		assert.Equal(t, a.Pick(), b.Pick())
	}
}

func TestQuotePickerAlwaysFromPool(t *testing.T) {
	p := NewQuotePicker(rand.NewSource(3))
	for i := 0; i < 50; i++ {
		assert.Contains(t, quotes, p.Pick())
	}
}
