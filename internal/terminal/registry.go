package terminal

import (
	"errors"
	"fmt"
)

// Handler produces the output for a command.
type Handler func() Output

// Command is one verb the terminal recognizes.
type Command struct {
	Name        string
	Description string
	Handler     Handler
}

// Registry is an immutable, ordered set of commands keyed by name.
// Safe for concurrent use.
type Registry struct {
	order  []Command
	byName map[string]int
}

// NewRegistry builds a registry from commands in definition order.
// Names must be unique, non-empty and already normalized.
func NewRegistry(commands ...Command) (*Registry, error) {
	r := &Registry{
		order:  make([]Command, 0, len(commands)),
		byName: make(map[string]int, len(commands)),
	}
	for _, cmd := range commands {
		if cmd.Name == "" {
			return nil, errors.New("command name cannot be empty")
		}
		if cmd.Name != normalize(cmd.Name) {
			return nil, fmt.Errorf("command name %q must be trimmed lower-case", cmd.Name)
		}
		if _, exists := r.byName[cmd.Name]; exists {
			return nil, fmt.Errorf("command %s already registered", cmd.Name)
		}
		if cmd.Handler == nil {
			cmd.Handler = func() Output { return Output{} }
		}
		r.byName[cmd.Name] = len(r.order)
		r.order = append(r.order, cmd)
	}
	return r, nil
}

// MustRegistry is NewRegistry that panics on invalid definitions.
func MustRegistry(commands ...Command) *Registry {
	r, err := NewRegistry(commands...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get retrieves a command by exact name.
func (r *Registry) Get(name string) (Command, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Command{}, false
	}
	return r.order[i], true
}

// Commands returns the commands in definition order. The slice is a copy.
func (r *Registry) Commands() []Command {
	return append([]Command(nil), r.order...)
}

// Names returns command names in definition order.
func (r *Registry) Names() []string {
	names := make([]string, len(r.order))
	for i, cmd := range r.order {
		names[i] = cmd.Name
	}
	return names
}

// Len returns the number of registered commands.
func (r *Registry) Len() int {
	return len(r.order)
}
