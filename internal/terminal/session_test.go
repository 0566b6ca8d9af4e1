package terminal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShell_Welcome(t *testing.T) {
	s := NewShell(testResolver(t), nil, "Ada")
	tr := s.Transcript()
	require.Len(t, tr, 2)
	assert.Equal(t, "Welcome to Ada's Portfolio Terminal", tr[0].Text)
	assert.Equal(t, "Type 'help' for available commands", tr[1].Text)
}

func TestShell_SubmitEchoesAndRecords(t *testing.T) {
	s := NewShell(testResolver(t), nil, "Ada")

	exec := s.Submit(" About ")
	assert.False(t, exec.Cleared)
	assert.Equal(t, OutcomeMatched, exec.Result.Outcome)

	tr := s.Transcript()
	require.Len(t, tr, 4)
	assert.Equal(t, EntryInput, tr[2].Kind)
	assert.Equal(t, " About ", tr[2].Text)
	assert.Equal(t, EntryOutput, tr[3].Kind)
	assert.Equal(t, []string{"about"}, s.Recall().Entries())
}

func TestShell_EmptyInputEchoesOnly(t *testing.T) {
	s := NewShell(testResolver(t), nil, "Ada")

	s.Submit("   ")
	tr := s.Transcript()
	require.Len(t, tr, 3)
	assert.Equal(t, EntryInput, tr[2].Kind)
	assert.Zero(t, s.Recall().Len())
}

func TestShell_ClearResetsTranscriptNotRecall(t *testing.T) {
	s := NewShell(testResolver(t), nil, "Ada")
	s.Submit("help")
	s.Submit("skills")

	exec := s.Submit("CLEAR")
	assert.True(t, exec.Cleared)

	tr := s.Transcript()
	require.Len(t, tr, 1)
	assert.Equal(t, "Terminal cleared", tr[0].Text)
	assert.Equal(t, []string{"help", "skills", "clear"}, s.Recall().Entries())
}

func TestShell_SeededRecall(t *testing.T) {
	recall := NewRecall(10)
	recall.Push("contact")
	s := NewShell(testResolver(t), recall, "")

	assert.Equal(t, "Welcome to the Portfolio Terminal", s.Transcript()[0].Text)
	assert.Equal(t, "contact", s.Recall().Up())
}
