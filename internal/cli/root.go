// Package cli implements the tradestate command-line interface.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	backend   string
	jsonMode  bool
	verbose   bool
}

// app is the state shared by one command tree.
type app struct {
	flags  rootFlags
	logger *slog.Logger
}

// exitError carries the exit code a command failed with.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(format string, args ...any) error {
	return &exitError{code: exitUserError, err: fmt.Errorf(format, args...)}
}

func sysError(format string, args ...any) error {
	return &exitError{code: exitSysError, err: fmt.Errorf(format, args...)}
}

// NewRootCmd creates the top-level "tradestate" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "tradestate",
		Short: "Inspect and drive the trade contracts page-state cache",
		Long: "tradestate drives the hierarchical page-state cache of the trade contracts\n" +
			"application: navigate the page tree, read and update cached page state,\n" +
			"and manage in-progress form drafts stored in the durable medium.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.logger = newLogger(cmd.ErrOrStderr(), a.flags.verbose)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (env TRADESTATE_CONFIG_DIR)")
	pf.StringVar(&a.flags.dataDir, "data-dir", "", "data directory (env TRADESTATE_DATA_DIR)")
	pf.StringVar(&a.flags.backend, "backend", "", "storage backend: sqlite, badger, file, memory")
	pf.BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	pf.BoolVarP(&a.flags.verbose, "verbose", "v", false, "log at debug level")

	root.AddCommand(
		newInitCmd(a),
		newPagesCmd(a),
		newNavigateCmd(a),
		newStateCmd(a),
		newDraftCmd(a),
		newVersionCmd(),
	)
	return root
}

// newLogger returns a text logger on w, at debug level when verbose.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "tradestate:", err)

	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	// Flag and argument validation errors come from cobra itself.
	return exitUserError
}
