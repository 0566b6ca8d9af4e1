package terminal

import (
	"strings"
	"sync"
)

// EntryKind distinguishes transcript lines.
type EntryKind string

const (
	EntryWelcome EntryKind = "welcome"
	EntryInput   EntryKind = "input"
	EntryOutput  EntryKind = "output"
	EntrySystem  EntryKind = "system"
)

// Entry is one line of the visible transcript.
type Entry struct {
	Kind   EntryKind `json:"kind"`
	Text   string    `json:"text,omitempty"`
	Output *Output   `json:"output,omitempty"`
}

// Exec is the outcome of submitting a line to a Shell.
type Exec struct {
	Result  Result `json:"result"`
	Cleared bool   `json:"clear"`
}

// Shell is one interactive terminal: a transcript, a recall buffer and the
// resolver that answers input.
type Shell struct {
	mu         sync.Mutex
	resolver   *Resolver
	recall     *Recall
	owner      string
	transcript []Entry
}

// NewShell creates a shell that greets with owner's name. recall may be
// pre-seeded with earlier history.
func NewShell(resolver *Resolver, recall *Recall, owner string) *Shell {
	if recall == nil {
		recall = NewRecall(0)
	}
	s := &Shell{resolver: resolver, recall: recall, owner: owner}
	s.transcript = s.welcome()
	return s
}

func (s *Shell) welcome() []Entry {
	title := "Welcome to the Portfolio Terminal"
	if name := strings.TrimSpace(s.owner); name != "" {
		title = "Welcome to " + possessive(name) + " Portfolio Terminal"
	}
	return []Entry{
		{Kind: EntryWelcome, Text: title},
		{Kind: EntrySystem, Text: "Type 'help' for available commands"},
	}
}

// Submit echoes input, records it for recall and appends the response.
// "clear" replaces the transcript with a single notice instead.
func (s *Shell) Submit(input string) Exec {
	res := s.resolver.Resolve(input)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.recall.Push(input)

	if res.Command == ClearCommand {
		s.transcript = []Entry{{Kind: EntrySystem, Text: "Terminal cleared"}}
		return Exec{Result: res, Cleared: true}
	}

	s.transcript = append(s.transcript, Entry{Kind: EntryInput, Text: input})
	if !res.Output.IsEmpty() {
		out := res.Output
		s.transcript = append(s.transcript, Entry{Kind: EntryOutput, Output: &out})
	}
	return Exec{Result: res}
}

// Transcript returns a copy of the visible lines.
func (s *Shell) Transcript() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.transcript...)
}

// Recall returns the shell's history buffer.
func (s *Shell) Recall() *Recall {
	return s.recall
}

func possessive(name string) string {
	if strings.HasSuffix(name, "s") {
		return name + "'"
	}
	return name + "'s"
}
