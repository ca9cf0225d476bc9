package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeOrderID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already clean", "order-123_ABC", "order-123_ABC"},
		{"spaces stripped", "order 123", "order123"},
		{"punctuation stripped", "order#1!@$%^&*()", "order1"},
		{"dots and slashes stripped", "2023/06/01.42", "2023060142"},
		{"unicode stripped", "ördér-1", "rdr-1"},
		{"empty stays empty", "", ""},
		{"only invalid characters", "!@# $%", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeOrderID(tt.input))
		})
	}
}

func TestSanitizeOrderID_Idempotent(t *testing.T) {
	once := SanitizeOrderID("order#2 0/x!")
	assert.Equal(t, once, SanitizeOrderID(once))
}

func TestNewOrderID_IsGatewaySafe(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewOrderID()
		assert.Equal(t, id, SanitizeOrderID(id))
		assert.False(t, seen[id], "order ids must not repeat")
		seen[id] = true
	}
}
