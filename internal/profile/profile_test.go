package profile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p, err := Default()
	require.NoError(t, err)

	assert.NotEmpty(t, p.Name)
	assert.NotEmpty(t, p.GitHubUsername)
	assert.NotEmpty(t, p.Resume.Filename)

	featured := 0
	for _, proj := range p.Projects {
		if proj.Featured {
			featured++
		}
		assert.NotEmpty(t, proj.Summary(), proj.Title)
	}
	assert.Positive(t, featured)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: Ada\nprojects:\n  - title: Engine\n    tech: [Go]\n"), 0o600))

	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Ada", p.Name)
	require.Len(t, p.Projects, 1)
	assert.Equal(t, []string{"Go"}, p.Projects[0].Tech)
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	want, err := Default()
	require.NoError(t, err)
	got, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestParse_Rejects(t *testing.T) {
	_, err := Parse([]byte("headline: no name\n"))
	assert.ErrorContains(t, err, "name is required")

	_, err = Parse([]byte("name: Ada\nunknown_key: 1\n"))
	assert.Error(t, err)

	_, err = Parse([]byte("name: Ada\nprojects:\n  - tech: [Go]\n"))
	assert.ErrorContains(t, err, "projects[0]")

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
