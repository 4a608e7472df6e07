package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/taskreminder/internal/config"
	"github.com/idilsaglam/taskreminder/internal/events"
	"github.com/idilsaglam/taskreminder/internal/logging"
	"github.com/idilsaglam/taskreminder/internal/store"
	"github.com/idilsaglam/taskreminder/internal/store/jsonstore"
	"github.com/idilsaglam/taskreminder/internal/store/postgres"
	"github.com/idilsaglam/taskreminder/internal/ui"
)

// usageError marks bad invocations (exit code 2).
type usageError struct{ msg string }

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// startupError marks a store that could not be opened.
type startupError struct{ err error }

func (e *startupError) Error() string { return e.err.Error() }
func (e *startupError) Unwrap() error { return e.err }

// app is the state shared by subcommands for one invocation.
type app struct {
	configPath string
	verbosity  int
	theme      string

	cfg   *config.Config
	store *store.Provider
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "taskreminder",
		Short:         "A tiny task reminder",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context(), cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default "+config.DefaultPath()+")")
	root.PersistentFlags().CountVarP(&a.verbosity, "verbose", "v", "increase log verbosity (-v, -vv, -vvv)")
	root.PersistentFlags().StringVar(&a.theme, "theme", "", "output theme: classic, neon, mono")

	root.AddCommand(newAddCmd(a))
	root.AddCommand(newListCmd(a))
	root.AddCommand(newRemoveCmd(a))
	root.AddCommand(newUICmd(a))
	return root
}

func (a *app) setup(ctx context.Context, cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	verbosity := cfg.Log.Verbosity
	if cmd.Flags().Changed("verbose") {
		verbosity = a.verbosity
	}
	logging.SetupLogger(verbosity)

	theme := cfg.UI.Theme
	if a.theme != "" {
		theme = a.theme
	}
	ui.SetTheme(theme)

	p, err := openStore(ctx, cfg)
	if err != nil {
		return &startupError{err: err}
	}
	a.store = p
	return nil
}

func (a *app) teardown() error {
	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	return err
}

// openStore picks the backend and event publisher from cfg.
func openStore(ctx context.Context, cfg *config.Config) (*store.Provider, error) {
	var backend store.Backend
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pg, err := postgres.New(cfg.Store.DSN)
		if err != nil {
			return nil, err
		}
		backend = pg
	default:
		js, err := jsonstore.Open(cfg.Store.Path)
		if err != nil {
			return nil, err
		}
		backend = js
	}

	var publisher events.Publisher = &events.NoopPublisher{}
	if cfg.Events.NATSURL != "" {
		np, err := events.NewNATSPublisher(cfg.Events.NATSURL)
		if err != nil {
			backend.Close()
			return nil, err
		}
		publisher = np
	}

	p, err := store.Open(ctx, backend,
		store.WithLogger(logging.GetLogger("store")),
		store.WithPublisher(publisher),
	)
	if err != nil {
		backend.Close()
		publisher.Close()
		return nil, err
	}
	return p, nil
}

// Run executes the command line and returns an exit code (0 ok, 1 error,
// 2 usage). A store that cannot be opened is fatal.
func Run(ctx context.Context, args []string) int {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(ui.Stdout)
	root.SetErr(ui.Stderr)
	if len(args) == 0 {
		root.Help() //nolint:errcheck
		return 2
	}
	defer logging.Close() //nolint:errcheck

	err := root.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var se *startupError
	if errors.As(err, &se) {
		logging.Must(se.err, "Error loading persistent stores")
	}
	a.teardown()
	ui.Fail(err.Error())

	var ue *usageError
	if errors.As(err, &ue) || isCobraUsage(err) {
		return 2
	}
	return 1
}
