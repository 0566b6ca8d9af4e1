// Package cli implements the folio command-line tool: it runs portfolio
// terminal commands and prints contribution statistics outside the browser.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ashureev/folio/internal/config"
	"github.com/ashureev/folio/internal/contrib"
	"github.com/ashureev/folio/internal/domain"
	"github.com/ashureev/folio/internal/profile"
	"github.com/ashureev/folio/internal/store"
	"github.com/ashureev/folio/internal/terminal"
)

// Deps lets callers replace the pieces the CLI would otherwise build from
// configuration. Zero values are filled in lazily.
type Deps struct {
	Profile *domain.Profile
	Stats   contrib.Source
	Config  *config.Config
}

type app struct {
	deps Deps

	profilePath string
	logLevel    string
	noCache     bool

	closers []io.Closer
}

// NewRootCommand builds the folio command tree.
func NewRootCommand(deps Deps) *cobra.Command {
	a := &app{deps: deps}

	root := &cobra.Command{
		Use:           "folio",
		Short:         "Portfolio terminal and contribution stats",
		Long:          "Run portfolio terminal commands and inspect GitHub contribution statistics from the command line.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.configureLogging(cmd.ErrOrStderr())
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			a.close()
		},
	}

	root.PersistentFlags().StringVar(&a.profilePath, "profile", "", "Profile YAML (default: built-in profile or $PROFILE_PATH)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.noCache, "no-cache", false, "Keep the stats cache in memory instead of the database")

	root.AddCommand(
		a.execCommand(),
		a.commandsCommand(),
		a.replCommand(),
		a.statsCommand(),
	)
	return root
}

// Execute runs the CLI against os.Args and exits non-zero on failure.
func Execute() {
	root := NewRootCommand(Deps{})
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, newTheme(os.Stderr).err.Render("Error: "+err.Error()))
		os.Exit(1)
	}
}

func (a *app) configureLogging(w io.Writer) error {
	level, err := log.ParseLevel(a.logLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q", a.logLevel)
	}
	logger := log.NewWithOptions(w, log.Options{Level: level, ReportTimestamp: false})
	slog.SetDefault(slog.New(logger))
	return nil
}

func (a *app) loadConfig() (*config.Config, error) {
	if a.deps.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		a.deps.Config = cfg
	}
	return a.deps.Config, nil
}

func (a *app) loadProfile() (domain.Profile, error) {
	if a.deps.Profile != nil {
		return *a.deps.Profile, nil
	}
	path := a.profilePath
	if path == "" {
		path = os.Getenv("PROFILE_PATH")
	}
	p, err := profile.Load(path)
	if err != nil {
		return domain.Profile{}, err
	}
	a.deps.Profile = &p
	return p, nil
}

func (a *app) resolver() (*terminal.Resolver, error) {
	p, err := a.loadProfile()
	if err != nil {
		return nil, err
	}
	return terminal.NewPortfolioResolver(p), nil
}

func (a *app) statsSource() (contrib.Source, error) {
	if a.deps.Stats != nil {
		return a.deps.Stats, nil
	}
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	var cache contrib.Cache = contrib.NewMemoryCache()
	if !a.noCache {
		repo, err := store.NewSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("open stats cache: %w", err)
		}
		a.closers = append(a.closers, repo)
		cache = contrib.NewKVCache(repo)
	}

	a.deps.Stats = contrib.NewEngine(
		contrib.NewHTTPClient(contrib.ClientOptions{
			BaseURL:     cfg.Contributions.APIBaseURL,
			Timeout:     cfg.Contributions.FetchTimeout,
			MaxAttempts: cfg.Contributions.MaxAttempts,
		}),
		cache,
		contrib.Options{TTL: cfg.Contributions.CacheTTL},
	)
	return a.deps.Stats, nil
}

// defaultUsername picks the configured subject, then the profile's.
func (a *app) defaultUsername() string {
	if a.deps.Config != nil && a.deps.Config.Contributions.Username != "" {
		return a.deps.Config.Contributions.Username
	}
	if u := os.Getenv("CONTRIB_USERNAME"); u != "" {
		return u
	}
	if p, err := a.loadProfile(); err == nil {
		return p.GitHubUsername
	}
	return ""
}

func (a *app) close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			slog.Warn("Failed to close resource", "error", err)
		}
	}
	a.closers = nil
}

func (a *app) execCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "exec <command...>",
		Short: "Run one terminal command and print its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := a.resolver()
			if err != nil {
				return err
			}
			res := r.Resolve(strings.Join(args, " "))
			_, err = io.WriteString(cmd.OutOrStdout(), newTheme(cmd.OutOrStdout()).renderOutput(res.Output))
			return err
		},
	}
}

func (a *app) commandsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List available terminal commands",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.resolver()
			if err != nil {
				return err
			}
			t := newTheme(cmd.OutOrStdout())
			for _, c := range r.Registry().Commands() {
				fmt.Fprintf(cmd.OutOrStdout(), "%-12s %s\n", t.label.Render(c.Name), c.Description)
			}
			return nil
		},
	}
}

func (a *app) statsCommand() *cobra.Command {
	var (
		refresh bool
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "stats [username]",
		Short: "Show contribution totals, streaks and a heatmap",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := a.statsSource()
			if err != nil {
				return err
			}
			username := a.defaultUsername()
			if len(args) == 1 {
				username = args[0]
			}

			loader := contrib.NewLoader(src)
			defer loader.Close()

			var state contrib.State
			if refresh {
				state = loader.Refresh(cmd.Context(), username)
			} else {
				state = loader.Load(cmd.Context(), username)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(statsJSON(username, state)); err != nil {
					return err
				}
			} else if _, err := io.WriteString(cmd.OutOrStdout(), newTheme(cmd.OutOrStdout()).renderStats(username, state)); err != nil {
				return err
			}

			if state.Status == contrib.StatusFailed {
				return errors.New(state.Message)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the cache")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the state as JSON")
	return cmd
}
