// Package terminal implements the portfolio terminal: command resolution with
// fuzzy suggestions, recall history, shell sessions and their WebSocket transport.
package terminal

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ashureev/folio/internal/domain"
)

const (
	// ClearCommand resets the transcript. Shells intercept it.
	ClearCommand = "clear"
	// AllProjectsCommand lists every project regardless of the registry.
	AllProjectsCommand = "projects --all"

	maxSuggestionDistance = 3
	maxSuggestions        = 3
)

// Outcome classifies a resolution.
type Outcome string

const (
	OutcomeEmpty    Outcome = "empty"
	OutcomeMatched  Outcome = "matched"
	OutcomeNotFound Outcome = "not_found"
)

// Result is what the resolver returns for one line of input.
type Result struct {
	Input       string   `json:"input"`
	Command     string   `json:"command,omitempty"`
	Outcome     Outcome  `json:"outcome"`
	Suggestions []string `json:"suggestions,omitempty"`
	Output      Output   `json:"output"`
}

// Resolver maps terminal input to output. It holds no mutable state.
type Resolver struct {
	registry    *Registry
	allProjects Handler
}

// NewResolver creates a resolver over registry. allProjects renders the
// "projects --all" listing; nil yields an empty output for it.
func NewResolver(registry *Registry, allProjects Handler) *Resolver {
	if allProjects == nil {
		allProjects = func() Output { return Output{} }
	}
	return &Resolver{registry: registry, allProjects: allProjects}
}

// Registry exposes the command table the resolver matches against.
func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve normalizes input and produces its response.
func (r *Resolver) Resolve(input string) Result {
	normalized := normalize(input)
	res := Result{Input: input}

	switch {
	case normalized == "":
		res.Outcome = OutcomeEmpty
		return res
	case normalized == AllProjectsCommand:
		res.Outcome = OutcomeMatched
		res.Command = AllProjectsCommand
		res.Output = r.allProjects()
		return res
	}

	if cmd, ok := r.registry.Get(normalized); ok {
		res.Outcome = OutcomeMatched
		res.Command = cmd.Name
		if cmd.Name != ClearCommand {
			res.Output = cmd.Handler()
		}
		return res
	}

	res.Outcome = OutcomeNotFound
	res.Suggestions = r.Suggest(normalized)
	res.Output = notFoundOutput(strings.TrimSpace(input), res.Suggestions)
	return res
}

type candidate struct {
	name     string
	distance int
}

// Suggest returns up to three registered names within edit distance three of
// input, closest first, ties kept in registry order.
func (r *Resolver) Suggest(input string) []string {
	var candidates []candidate
	for _, name := range r.registry.Names() {
		d := Levenshtein(input, name)
		if d <= maxSuggestionDistance {
			candidates = append(candidates, candidate{name: name, distance: d})
		}
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		return a.distance - b.distance
	})
	if len(candidates) > maxSuggestions {
		candidates = candidates[:maxSuggestions]
	}

	suggestions := make([]string, 0, len(candidates))
	for _, c := range candidates {
		suggestions = append(suggestions, c.name)
	}
	return suggestions
}

func notFoundOutput(input string, suggestions []string) Output {
	out := Output{Blocks: []Block{
		{Kind: BlockError, Text: fmt.Sprintf("Command not found: '%s'", input)},
	}}
	if len(suggestions) > 0 {
		out.Blocks = append(out.Blocks, text("Did you mean: "+strings.Join(suggestions, ", ")+"?"))
	}
	out.Blocks = append(out.Blocks, hint("Type 'help' to see all available commands"))
	return out
}

func normalize(input string) string {
	return domain.NormalizeCommand(input)
}
