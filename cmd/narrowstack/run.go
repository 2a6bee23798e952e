package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dshills/narrowstack/internal/host"
)

// scriptFlags selects where a command script comes from.
type scriptFlags struct {
	expr string
	file string
}

func (s *scriptFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&s.expr, "exec", "e", "", "commands to run, separated by ';'")
	cmd.Flags().StringVarP(&s.file, "file", "f", "", "read commands from a file ('-' for stdin)")
	cmd.MarkFlagsMutuallyExclusive("exec", "file")
}

// script returns the commands to run. When neither flag is set it reads
// stdin if fallback is true.
func (s *scriptFlags) script(cmd *cobra.Command, fallback bool) (string, error) {
	switch {
	case s.expr != "":
		return s.expr, nil
	case s.file == "-", s.file == "" && fallback:
		data, err := io.ReadAll(cmd.InOrStdin())
		return string(data), err
	case s.file != "":
		data, err := os.ReadFile(s.file)
		return string(data), err
	}
	return "", nil
}

func newRunCmd(g *globalOptions) *cobra.Command {
	var sf scriptFlags
	cmd := &cobra.Command{
		Use:   "run FILE",
		Short: "Run narrowing commands against a file",
		Long: `Run opens FILE and executes a script of commands against it, printing
their output. The script comes from -e, from -f, or from standard input.`,
		Example: `  narrowstack run main.go -e "point 120; dwim; status; print"
  narrowstack run notes.md -f steps.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			script, err := sf.script(cmd, true)
			if err != nil {
				return err
			}
			a, err := openApp(cmd, g, args[0])
			if err != nil {
				return err
			}
			defer a.Close()
			return a.Run(script, cmd.OutOrStdout())
		},
	}
	sf.register(cmd)
	return cmd
}

var (
	hiddenColor  = color.New(color.Faint)
	visibleColor = color.New(color.Bold)
	statusColor  = color.New(color.FgCyan)
)

func newShowCmd(g *globalOptions) *cobra.Command {
	var (
		sf        scriptFlags
		colorMode string
		onlyShown bool
	)
	cmd := &cobra.Command{
		Use:   "show FILE",
		Short: "Print a file with its hidden text dimmed",
		Long: `Show opens FILE, optionally runs commands against it, and prints the
whole document with the text outside the visible region dimmed, followed by
the narrowing status.`,
		Example: `  narrowstack show main.go -e "point 120; narrow defun"
  narrowstack show --visible-only README.md -e "narrow section"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch colorMode {
			case "on":
				color.NoColor = false
			case "off":
				color.NoColor = true
			case "auto":
			default:
				return fmt.Errorf("invalid color mode %q (must be auto, on, or off)", colorMode)
			}

			script, err := sf.script(cmd, false)
			if err != nil {
				return err
			}
			a, err := openApp(cmd, g, args[0])
			if err != nil {
				return err
			}
			defer a.Close()
			if err := a.Run(script, io.Discard); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			writeDocument(out, a.Current(), onlyShown)
			status, err := a.Exec("status")
			if err != nil {
				return err
			}
			statusColor.Fprintln(out, status)
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&colorMode, "color", "auto", "colorize output (auto|on|off)")
	cmd.Flags().BoolVar(&onlyShown, "visible-only", false, "omit the hidden text")
	return cmd
}

// writeDocument prints doc with the hidden parts dimmed, or left out when
// onlyShown is set.
func writeDocument(w io.Writer, doc *host.Document, onlyShown bool) {
	text := doc.Text()
	vis := doc.VisibleRegion()
	if !onlyShown {
		hiddenColor.Fprint(w, text[:vis.Start])
	}
	visibleColor.Fprint(w, text[vis.Start:vis.End])
	if !onlyShown {
		hiddenColor.Fprint(w, text[vis.End:])
	}
	shown := text
	if onlyShown {
		shown = text[vis.Start:vis.End]
	}
	if len(shown) > 0 && shown[len(shown)-1] != '\n' {
		fmt.Fprintln(w)
	}
}
