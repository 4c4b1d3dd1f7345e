package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseType(t *testing.T) {
	for _, want := range Types {
		got, ok := ParseType(string(want))
		assert.True(t, ok)
		assert.Equal(t, want, got)
	}

	got, ok := ParseType(" ipad ")
	assert.True(t, ok, "case and whitespace are normalized")
	assert.Equal(t, TypeIPad, got)
}

func TestParseTypeFallback(t *testing.T) {
	for _, raw := range []string{"", "IPHONE", "garbage"} {
		got, ok := ParseType(raw)
		assert.False(t, ok, "raw %q should not parse", raw)
		assert.Equal(t, TypeMacBook, got, "unknown types fall back to MACBOOK")
	}
}

func TestNormalizeSerial(t *testing.T) {
	assert.Equal(t, "C02ABC", NormalizeSerial("  c02abc "))
	assert.Equal(t, "", NormalizeSerial("   "))
}

func TestNextDueAfter(t *testing.T) {
	maintained := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2026, time.April, 15, 0, 0, 0, 0, time.UTC), NextDueAfter(maintained))
}

func TestNewCountsIncludesZeroTypes(t *testing.T) {
	c := NewCounts([]Device{
		{Serial: "A", Type: TypeMacBook},
		{Serial: "B", Type: TypeMacBook},
		{Serial: "C", Type: TypeIPad},
	})

	assert.Equal(t, 2, c.ByType[TypeMacBook])
	assert.Equal(t, 1, c.ByType[TypeIPad])
	assert.Equal(t, 0, c.ByType[TypeDesktop], "empty types still appear")
	assert.Equal(t, 3, c.Total())
}
