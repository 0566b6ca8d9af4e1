package terminal

import (
	"testing"

	"github.com/ashureev/folio/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() domain.Profile {
	return domain.Profile{
		Name:     "Ada Lovelace",
		Headline: "Full Stack",
		ShortBio: "Writes engines.",
		Location: "London",
		Email:    "ada@example.com",
		Phone:    "+44 000",
		Resume:   domain.ResumeLink{URL: "https://example.com/ada.pdf", Filename: "Ada_Resume.pdf"},
		Socials: domain.Socials{
			GitHub:   "https://github.com/ada",
			LinkedIn: "https://www.linkedin.com/in/ada",
		},
		Skills: domain.Skills{Frontend: []string{"React"}, Backend: []string{"Go"}, Tools: []string{"Git"}},
		Projects: []domain.Project{
			{Title: "Engine", Description: []string{"Analytical engine notes."}, Tech: []string{"Go", "SQLite", "Chi", "OTel", "YAML"}, Featured: true, Published: true, LiveLink: "https://engine.example.com"},
			{Title: "Loom", Description: []string{"Pattern cards."}, Tech: []string{"C"}},
		},
		Experience: []domain.Experience{{Role: "Analyst", Company: "Babbage & Co", Duration: "1842-1843", Tech: []string{"Notes"}}},
	}
}

func testResolver(t *testing.T) *Resolver {
	t.Helper()
	return NewPortfolioResolver(testProfile())
}

func TestResolve_ExactMatchIsCaseAndSpaceInsensitive(t *testing.T) {
	r := testResolver(t)
	want := r.Resolve("help")
	require.Equal(t, OutcomeMatched, want.Outcome)

	for _, input := range []string{"HELP", "  help  ", "\tHeLp\n"} {
		got := r.Resolve(input)
		assert.Equal(t, OutcomeMatched, got.Outcome, input)
		assert.Equal(t, "help", got.Command, input)
		assert.Equal(t, want.Output, got.Output, input)
	}
}

func TestResolve_EmptyInput(t *testing.T) {
	r := testResolver(t)
	for _, input := range []string{"", "   ", "\t\n"} {
		got := r.Resolve(input)
		assert.Equal(t, OutcomeEmpty, got.Outcome)
		assert.True(t, got.Output.IsEmpty())
		assert.Empty(t, got.Suggestions)
	}
}

func TestResolve_TypoSuggestsClosest(t *testing.T) {
	r := testResolver(t)

	got := r.Resolve("hlep")
	require.Equal(t, OutcomeNotFound, got.Outcome)
	require.NotEmpty(t, got.Suggestions)
	assert.Equal(t, "help", got.Suggestions[0])
	assert.LessOrEqual(t, len(got.Suggestions), 3)

	require.NotEmpty(t, got.Output.Blocks)
	assert.Equal(t, BlockError, got.Output.Blocks[0].Kind)
	assert.Equal(t, "Command not found: 'hlep'", got.Output.Blocks[0].Text)
	last := got.Output.Blocks[len(got.Output.Blocks)-1]
	assert.Equal(t, "Type 'help' to see all available commands", last.Text)
}

func TestResolve_NoSuggestionsWhenNothingClose(t *testing.T) {
	r := testResolver(t)

	got := r.Resolve("xyzzyplugh")
	assert.Equal(t, OutcomeNotFound, got.Outcome)
	assert.Empty(t, got.Suggestions)
	assert.Len(t, got.Output.Blocks, 2)
}

func TestSuggest_TiesKeepRegistryOrder(t *testing.T) {
	reg := MustRegistry(
		Command{Name: "abd"},
		Command{Name: "abc"},
		Command{Name: "abe"},
		Command{Name: "abf"},
		Command{Name: "zzzzzzz"},
	)
	r := NewResolver(reg, nil)

	// Every three-letter name is one substitution away from "abx".
	assert.Equal(t, []string{"abd", "abc", "abe"}, r.Suggest("abx"))
	assert.Equal(t, []string{"abc", "abd", "abe"}, r.Suggest("abc"))
}

func TestResolve_ClearIsNoOp(t *testing.T) {
	got := testResolver(t).Resolve("Clear")
	assert.Equal(t, OutcomeMatched, got.Outcome)
	assert.Equal(t, ClearCommand, got.Command)
	assert.True(t, got.Output.IsEmpty())
}

func TestResolve_AllProjectsBypassesRegistry(t *testing.T) {
	called := false
	r := NewResolver(MustRegistry(), func() Output {
		called = true
		return Text("all")
	})

	got := r.Resolve("  PROJECTS --ALL ")
	assert.True(t, called)
	assert.Equal(t, OutcomeMatched, got.Outcome)
	assert.Equal(t, AllProjectsCommand, got.Command)
	assert.Equal(t, Text("all"), got.Output)
}

func TestNewRegistry_RejectsInvalid(t *testing.T) {
	_, err := NewRegistry(Command{Name: ""})
	assert.Error(t, err)

	_, err = NewRegistry(Command{Name: "Help"})
	assert.Error(t, err)

	_, err = NewRegistry(Command{Name: "help"}, Command{Name: "help"})
	assert.Error(t, err)

	reg, err := NewRegistry(Command{Name: "b"}, Command{Name: "a"})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, reg.Names())
}
