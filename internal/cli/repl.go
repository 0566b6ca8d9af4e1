package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ashureev/folio/internal/terminal"
)

const replRecallSize = 50

// Line-mode stand-ins for the arrow keys.
const (
	recallUp   = "!up"
	recallDown = "!down"
)

func (a *app) replCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive portfolio terminal",
		Long:  "Start an interactive portfolio terminal. Type " + recallUp + " or " + recallDown + " to walk the command history; EOF exits.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r, err := a.resolver()
			if err != nil {
				return err
			}
			p, _ := a.loadProfile()
			shell := terminal.NewShell(r, terminal.NewRecall(replRecallSize), p.Name)
			return runREPL(cmd.InOrStdin(), cmd.OutOrStdout(), shell)
		},
	}
}

func runREPL(in io.Reader, out io.Writer, shell *terminal.Shell) error {
	t := newTheme(out)
	for _, e := range shell.Transcript() {
		fmt.Fprintln(out, t.hint.Render(e.Text))
	}

	prompt := t.prompt.Render("visitor@portfolio:~$") + " "
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := scanner.Text()
		switch strings.TrimSpace(line) {
		case recallUp:
			fmt.Fprintln(out, t.hint.Render(orNone(shell.Recall().Up())))
			continue
		case recallDown:
			fmt.Fprintln(out, t.hint.Render(orNone(shell.Recall().Down())))
			continue
		}

		exec := shell.Submit(line)
		if exec.Cleared {
			fmt.Fprint(out, "\033[H\033[2J")
			fmt.Fprintln(out, t.hint.Render("Terminal cleared"))
			continue
		}
		fmt.Fprint(out, t.renderOutput(exec.Result.Output))
	}
}

func orNone(s string) string {
	if s == "" {
		return "(no history)"
	}
	return s
}
