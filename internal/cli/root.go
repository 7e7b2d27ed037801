// Package cli implements hatebuctl, a command line front-end to the
// bookmark repository.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/hatebu/internal/app"
	"github.com/MrSnakeDoc/hatebu/internal/config"
	"github.com/MrSnakeDoc/hatebu/internal/logger"
	"github.com/MrSnakeDoc/hatebu/internal/version"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitRejected = 3
	ExitNotFound = 4
)

// Opener opens the bookmark backend a command runs against.
type Opener func(ctx context.Context, store string, verbose bool) (*app.Backend, error)

// exitError carries a non-zero exit code for an outcome that was already
// reported on stdout.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

type state struct {
	open    Opener
	store   string
	verbose bool
}

func (s *state) backend(cmd *cobra.Command) (*app.Backend, error) {
	return s.open(cmd.Context(), s.store, s.verbose)
}

// NewRootCmd builds the hatebuctl command tree. A nil open uses OpenFromEnv.
func NewRootCmd(open Opener) *cobra.Command {
	if open == nil {
		open = OpenFromEnv
	}
	s := &state{open: open}

	root := &cobra.Command{
		Use:   "hatebuctl",
		Short: "Manage hatebu bookmarks",
		Long: `hatebuctl reads and writes bookmarks in the hatebu store.

The store is configured through the same HATEBU_* environment variables as
the server (a .env file in the working directory is loaded too).`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&s.store, "store", "", "store backend override (redis|memory)")
	root.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "debug logging on stderr")

	root.AddCommand(
		newListCmd(s),
		newGetCmd(s),
		newCreateCmd(s),
		newUpdateCmd(s),
		newTouchCmd(s),
		newDeleteCmd(s),
		newNormalizeCmd(),
	)

	return root
}

// Execute runs hatebuctl with args and returns the process exit code.
func Execute(args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(nil)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	return exitCode(root.ExecuteContext(context.Background()), stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	fmt.Fprintf(stderr, "❌ %v\n", err)
	return ExitFailure
}

// OpenFromEnv loads the configuration from the environment and connects the
// configured store. store, when set, overrides HATEBU_STORE.
func OpenFromEnv(ctx context.Context, store string, verbose bool) (*app.Backend, error) {
	if store != "" {
		if err := os.Setenv("HATEBU_STORE", store); err != nil {
			return nil, err
		}
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	return app.OpenBackend(ctx, cfg, logger.New(level, true))
}

// loadConfig turns the fatal panics of config.Load into an error.
func loadConfig() (cfg *config.Config, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return config.Load(), nil
}
