package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	goRate "github.com/MrEthical07/goRate"
	"github.com/MrEthical07/goRate/internal/logging"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
	exitAuth    = 3
)

// app carries the state shared by every subcommand.
type app struct {
	apiURL     string
	profile    string
	jsonOutput bool
	logLevel   string

	stdout io.Writer
	stderr io.Writer

	// loadConfig and build are swapped in tests.
	loadConfig func() (goRate.Config, error)
	build      func(cfg goRate.Config, logger *slog.Logger, onRejected func(goRate.SessionRejection)) (*goRate.Client, error)
	// prompt runs an interactive form and choose a pick list. Nil disables
	// prompting.
	prompt func(title string, fields ...field) error
	choose func(title string, options []choice, value *string) error
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout:     stdout,
		stderr:     stderr,
		loadConfig: goRate.LoadConfig,
		build:      buildClient,
		prompt:     runForm,
		choose:     runChoice,
	}
}

func buildClient(cfg goRate.Config, logger *slog.Logger, onRejected func(goRate.SessionRejection)) (*goRate.Client, error) {
	return goRate.New().
		WithConfig(cfg).
		WithLogger(logger).
		WithOnSessionRejected(onRejected).
		Build()
}

// Execute runs the storerate command with the process arguments.
func Execute() int {
	a := newApp(os.Stdout, os.Stderr)
	cmd := a.rootCommand()
	if err := cmd.Execute(); err != nil {
		return exitUsage
	}
	return exitOK
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "storerate",
		Short: "Client for the store-rating platform",
		Long: `storerate signs in to the store-rating API and runs the views of the
platform from the terminal. The session is persisted between runs.

Environment Variables:
  STORERATE_API_URL          API base URL (default: http://localhost:3001)
  STORERATE_SESSION_BACKEND  file, memory or redis (default: file)
  STORERATE_SESSION_PROFILE  token profile name (default: default)
  LOG_LEVEL, LOG_FORMAT      logging of the client itself`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&a.apiURL, "api-url", "", "API base URL (overrides STORERATE_API_URL)")
	root.PersistentFlags().StringVar(&a.profile, "profile", "", "Session profile (overrides STORERATE_SESSION_PROFILE)")
	root.PersistentFlags().BoolVar(&a.jsonOutput, "json", false, "Output JSON instead of human-readable text")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	root.AddCommand(
		a.loginCommand(),
		a.logoutCommand(),
		a.whoamiCommand(),
		a.signupCommand(),
		a.passwordCommand(),
		a.openCommand(),
		a.storesCommand(),
		a.storeCommand(),
		a.rateCommand(),
		a.usersCommand(),
		a.dashboardCommand(),
	)
	return root
}

// run wraps a runX function as a cobra Run.
func (a *app) run(fn func(ctx context.Context, w io.Writer) int) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if code := fn(ctx, a.stdout); code != exitOK {
			os.Exit(code)
		}
	}
}

// open loads the configuration, builds a client and restores the session.
func (a *app) open(ctx context.Context) (*goRate.Client, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	if a.profile != "" {
		cfg.Session.Profile = a.profile
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	logger := logging.New(cfg.Log.Level, cfg.Log.Format, a.stderr)
	for _, w := range cfg.Lint().BySeverity(goRate.LintWarn) {
		logger.Warn("config", "code", w.Code, "detail", w.Message)
	}

	c, err := a.build(cfg, logger, func(r goRate.SessionRejection) {
		fmt.Fprintf(a.stderr, "Session is no longer valid; sign in again with 'storerate login'.\n")
	})
	if err != nil {
		return nil, err
	}
	c.Initialize(ctx)
	return c, nil
}

// fail prints err on stderr and maps it to an exit code. stdout only ever
// carries command output, so --json stays parseable.
func (a *app) fail(err error) int {
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	for _, msg := range goRate.Messages(err) {
		fmt.Fprintf(a.stderr, "  - %s\n", msg)
	}

	switch {
	case errors.Is(err, goRate.ErrNotAuthenticated),
		errors.Is(err, goRate.ErrSessionRejected),
		errors.Is(err, goRate.ErrPermissionDenied),
		errors.Is(err, goRate.ErrInvalidCredentials):
		return exitAuth
	case errors.Is(err, goRate.ErrInvalidInput),
		errors.Is(err, goRate.ErrInvalidRating),
		errors.Is(err, goRate.ErrPasswordPolicy):
		return exitUsage
	default:
		return exitFailure
	}
}
