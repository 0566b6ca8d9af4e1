package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecall_RoundTrip(t *testing.T) {
	r := NewRecall(0)
	r.Push("a")
	r.Push("b")
	r.Push("c")

	assert.Equal(t, "c", r.Up())
	assert.Equal(t, "b", r.Up())
	assert.Equal(t, "a", r.Up())
	assert.Equal(t, "b", r.Down())
}

func TestRecall_Saturates(t *testing.T) {
	r := NewRecall(0)
	r.Push("a")
	r.Push("b")

	assert.Equal(t, "b", r.Up())
	assert.Equal(t, "a", r.Up())
	assert.Equal(t, "a", r.Up(), "up saturates at the oldest entry")

	assert.Equal(t, "b", r.Down())
	assert.Equal(t, "", r.Down(), "down past the newest clears the selection")
	assert.Equal(t, "", r.Down())
	assert.Equal(t, "b", r.Up())
}

func TestRecall_IgnoresEmptyAndNormalizes(t *testing.T) {
	r := NewRecall(0)
	r.Push("")
	r.Push("   ")
	r.Push("  ABOUT ")

	assert.Equal(t, []string{"about"}, r.Entries())
}

func TestRecall_EmptyBuffer(t *testing.T) {
	r := NewRecall(0)
	assert.Equal(t, "", r.Up())
	assert.Equal(t, "", r.Down())
}

func TestRecall_Limit(t *testing.T) {
	r := NewRecall(2)
	r.Push("a")
	r.Push("b")
	r.Push("c")

	assert.Equal(t, []string{"b", "c"}, r.Entries())
}

func TestRecall_PushResetsCursor(t *testing.T) {
	r := NewRecall(0)
	r.Push("a")
	r.Push("b")
	assert.Equal(t, "b", r.Up())
	assert.Equal(t, "a", r.Up())

	r.Push("c")
	assert.Equal(t, "c", r.Up())
}
