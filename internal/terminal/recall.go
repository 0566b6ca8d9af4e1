package terminal

import "sync"

// Recall is the up/down history buffer of a shell. It holds normalized,
// non-empty commands oldest first and a cursor that is -1 when nothing is
// selected.
type Recall struct {
	mu      sync.Mutex
	entries []string
	cursor  int
	limit   int
}

// NewRecall creates a recall buffer keeping at most limit entries.
// A limit of zero or less keeps everything.
func NewRecall(limit int) *Recall {
	return &Recall{cursor: -1, limit: limit}
}

// Push records a submitted command and resets the cursor. Empty input is
// ignored.
func (r *Recall) Push(input string) {
	normalized := normalize(input)
	if normalized == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, normalized)
	if r.limit > 0 && len(r.entries) > r.limit {
		r.entries = append([]string(nil), r.entries[len(r.entries)-r.limit:]...)
	}
	r.cursor = -1
}

// Up moves one step toward the oldest entry, saturating there.
func (r *Recall) Up() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return ""
	}
	switch {
	case r.cursor == -1:
		r.cursor = len(r.entries) - 1
	case r.cursor > 0:
		r.cursor--
	}
	return r.entries[r.cursor]
}

// Down moves one step toward the newest entry. Stepping past the newest
// clears the selection and returns "".
func (r *Recall) Down() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cursor == -1 {
		return ""
	}
	r.cursor++
	if r.cursor >= len(r.entries) {
		r.cursor = -1
		return ""
	}
	return r.entries[r.cursor]
}

// Reset clears the selection without touching entries.
func (r *Recall) Reset() {
	r.mu.Lock()
	r.cursor = -1
	r.mu.Unlock()
}

// Entries returns a copy of the buffer, oldest first.
func (r *Recall) Entries() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.entries...)
}

// Len returns the number of stored entries.
func (r *Recall) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}
