// Package main is the entry point for the narrowstack command.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dshills/narrowstack/internal/app"
	"github.com/dshills/narrowstack/internal/logging"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// globalOptions holds the persistent flags.
type globalOptions struct {
	configPath string
	logLevel   string
	mode       string
}

func newRootCmd() *cobra.Command {
	var g globalOptions

	root := &cobra.Command{
		Use:   "narrowstack",
		Short: "Recursive narrowing for text documents",
		Long: `narrowstack narrows a document to a region, remembers every enclosing
region, and widens back out one level at a time.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if g.logLevel == "" {
				return nil
			}
			if _, ok := logging.LookupLevel(g.logLevel); !ok {
				return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", g.logLevel)
			}
			return nil
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&g.configPath, "config", "c", "", "path to configuration file")
	flags.StringVar(&g.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides the configuration")
	flags.StringVar(&g.mode, "mode", "", "document mode, overriding the file extension")

	root.AddCommand(
		newRunCmd(&g),
		newShowCmd(&g),
		newReplCmd(&g),
		newViewCmd(&g),
		newCommandsCmd(),
	)

	return root
}

// openApp creates an application from the global flags and opens path as
// the current document.
func openApp(cmd *cobra.Command, g *globalOptions, path string) (*app.Application, error) {
	a, err := app.New(app.Options{
		ConfigPath: g.configPath,
		LogLevel:   g.logLevel,
		LogOutput:  cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	doc, err := a.OpenFile(path)
	if err != nil {
		a.Close()
		return nil, err
	}
	if g.mode != "" {
		doc.SetMode(g.mode)
	}
	return a, nil
}

func newCommandsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "commands",
		Short: "List the script commands",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, usage := range app.Commands() {
				fmt.Fprintln(cmd.OutOrStdout(), usage)
			}
		},
	}
}
