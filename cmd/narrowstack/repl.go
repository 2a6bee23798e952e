package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/narrowstack/internal/app"
	"github.com/dshills/narrowstack/internal/config"
	"github.com/dshills/narrowstack/internal/view"
)

const prompt = "narrow> "

func newReplCmd(g *globalOptions) *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "repl FILE",
		Short: "Run narrowing commands interactively",
		Long: `Repl opens FILE and reads commands from standard input one line at a
time. When a configuration file is given it is watched and reloaded on
change, and "reload" rereads it at once. Type "help" for the command list
and "quit" to leave.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			var w *config.Watcher
			if g.configPath != "" {
				w, err = config.NewWatcher(g.configPath)
				if err != nil {
					return err
				}
				defer w.Close()
				go a.WatchConfig(ctx, w, nil)
			}

			p := prompt
			if quiet {
				p = ""
			}
			return repl(ctx, a, w, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr(), p)
		},
	}
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "do not print a prompt")
	return cmd
}

// repl executes lines from in until EOF, "quit", or ctx is done. Command
// errors are reported and do not end the session. w may be nil when no
// configuration file is in use.
func repl(ctx context.Context, a *app.Application, w *config.Watcher, in io.Reader, out, errOut io.Writer, prompt string) error {
	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, prompt)
		if !scanner.Scan() {
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "quit", "exit":
			return nil
		case "help":
			for _, usage := range app.Commands() {
				fmt.Fprintln(out, usage)
			}
			continue
		case "reload":
			if w == nil {
				fmt.Fprintln(errOut, "error: no configuration file to reload")
			} else if err := w.Reload(); err != nil {
				fmt.Fprintf(errOut, "error: %v\n", err)
			}
			continue
		}

		result, err := a.Exec(line)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}
		if result != "" {
			fmt.Fprintln(out, result)
		}
	}
}

func newViewCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "view FILE",
		Short: "Narrow a file interactively in the terminal",
		Long: `View opens FILE in a full-screen viewer.

Keys: n narrow or widen, w widen, l/p/s/d/h narrow to line, paragraph,
sentence, defun or section, m set mark, u clear mark, arrows move point,
i toggle interception, q quit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, g, args[0])
			if err != nil {
				return err
			}
			defer a.Close()

			// Log lines would corrupt the screen.
			a.Logger().SetOutput(io.Discard)

			screen, err := tcell.NewScreen()
			if err != nil {
				return fmt.Errorf("create screen: %w", err)
			}
			if err := screen.Init(); err != nil {
				return fmt.Errorf("init screen: %w", err)
			}
			defer screen.Fini()
			return view.New(a, screen).Run()
		},
	}
}
