// Package profile loads the portfolio content rendered by terminal commands.
package profile

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ashureev/folio/internal/domain"
)

//go:embed default.yaml
var defaultYAML []byte

// Default returns the built-in profile.
func Default() (domain.Profile, error) {
	return Parse(defaultYAML)
}

// Load reads a profile from path, or the built-in one when path is empty.
func Load(path string) (domain.Profile, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return domain.Profile{}, fmt.Errorf("profile %s: %w", path, err)
	}
	return p, nil
}

// Parse decodes YAML profile content. Unknown keys are rejected.
func Parse(data []byte) (domain.Profile, error) {
	var p domain.Profile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return domain.Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	if err := Validate(p); err != nil {
		return domain.Profile{}, err
	}
	return p, nil
}

// Validate checks the fields commands depend on.
func Validate(p domain.Profile) error {
	var errs []error
	if p.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	for i, proj := range p.Projects {
		if proj.Title == "" {
			errs = append(errs, fmt.Errorf("projects[%d]: title is required", i))
		}
	}
	return errors.Join(errs...)
}
