// Package cli implements the jiractl command tree.
package cli

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/nhle/jiractl/internal/credential"
	"github.com/nhle/jiractl/internal/jira"
	"github.com/nhle/jiractl/internal/model"
	"github.com/nhle/jiractl/internal/ops"
	"github.com/nhle/jiractl/internal/store"
)

// Output formats.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// Keyring stores passwords by key.
type Keyring interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Delete(key string) error
}

type systemKeyring struct{}

func (systemKeyring) Get(key string) (string, error) { return credential.Get(key) }
func (systemKeyring) Set(key, value string) error    { return credential.Set(key, value) }
func (systemKeyring) Delete(key string) error        { return credential.Delete(key) }

// deps are the collaborators a command tree talks to. NewRootCmd starts
// from the real implementations; options replace them.
type deps struct {
	transport  jira.Transport
	store      store.Store
	keyring    Keyring
	prompt     func(title string) (string, error)
	isTerminal func() bool
	getenv     func(string) string
}

// Option overrides one collaborator of the command tree.
type Option func(*deps)

// WithTransport sends every request through t instead of an HTTP
// transport to the configured host.
func WithTransport(t jira.Transport) Option {
	return func(d *deps) { d.transport = t }
}

// WithStore records history in s instead of the configured database.
func WithStore(s store.Store) Option {
	return func(d *deps) { d.store = s }
}

// WithKeyring replaces the system keyring.
func WithKeyring(k Keyring) Option {
	return func(d *deps) { d.keyring = k }
}

// WithPrompt replaces the interactive password prompt. isTerminal reports
// whether prompting is possible at all.
func WithPrompt(prompt func(title string) (string, error), isTerminal func() bool) Option {
	return func(d *deps) {
		d.prompt = prompt
		d.isTerminal = isTerminal
	}
}

// WithGetenv replaces os.Getenv for credential lookup.
func WithGetenv(getenv func(string) string) Option {
	return func(d *deps) { d.getenv = getenv }
}

// app is the per-invocation state shared by every subcommand.
type app struct {
	deps deps

	configPath string
	server     string
	format     string
	verbose    bool
	noHistory  bool

	cfg    *model.AppConfig
	logger *slog.Logger
}

// NewRootCmd builds the full command tree.
func NewRootCmd(opts ...Option) *cobra.Command {
	a := &app{deps: deps{
		keyring:    systemKeyring{},
		prompt:     promptPassword,
		isTerminal: stdinIsTerminal,
		getenv:     os.Getenv,
	}}
	for _, opt := range opts {
		opt(&a.deps)
	}

	root := &cobra.Command{
		Use:   "jiractl",
		Short: "Run named Jira operations from the command line",
		Long: "jiractl runs a fixed set of Jira REST operations: searches, issue lookup, " +
			"watcher management and issue creation from JSON templates.",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", model.DefaultConfigPath(), "Path to the configuration file")
	pf.StringVar(&a.server, "server", "", "Jira server host (overrides server.host)")
	pf.StringVar(&a.format, "format", "", "Output format: text | json | yaml (default from config, else text)")
	pf.BoolVar(&a.verbose, "verbose", false, "Enable debug logging")
	pf.BoolVar(&a.noHistory, "no-history", false, "Do not record this invocation in the history")

	for _, c := range ops.Contracts() {
		root.AddCommand(a.newOperationCmd(c))
	}
	root.AddCommand(a.newLoginCmd())
	root.AddCommand(a.newLogoutCmd())
	root.AddCommand(a.newConfigCmd())
	root.AddCommand(a.newHistoryCmd())
	root.AddCommand(a.newOpsCmd())
	root.AddCommand(a.newBrowseCmd())

	return root
}

// setup loads the configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := model.LoadConfig(a.configPath)
	if err != nil {
		return exitError(exitUsage, "%v", err)
	}
	if a.server != "" {
		cfg.Server.Host = a.server
	}
	a.cfg = cfg

	if a.format == "" {
		a.format = cfg.Output
	}
	switch a.format {
	case formatText, formatJSON, formatYAML:
	case "":
		a.format = formatText
	default:
		return exitError(exitUsage, "unknown format %q: use text, json or yaml", a.format)
	}

	// Info carries per-issue progress of composite operations.
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	return nil
}

// transport returns the transport requests go through.
func (a *app) transport() (jira.Transport, error) {
	if a.deps.transport != nil {
		return a.deps.transport, nil
	}
	if a.cfg.Server.Host == "" {
		return nil, exitError(exitUsage, "no Jira server configured: pass --server or run 'jiractl config set server.host <host>'")
	}
	return jira.NewHTTPTransport(a.cfg.Server.Host,
		jira.WithHTTPClient(&http.Client{Timeout: a.cfg.Server.Timeout()}),
		jira.WithLogger(a.logger),
		jira.WithTracerProvider(otel.GetTracerProvider()),
	), nil
}

// client returns an operations client over the configured transport.
func (a *app) client() (*ops.Client, error) {
	t, err := a.transport()
	if err != nil {
		return nil, err
	}
	return ops.NewClient(t,
		ops.WithLogger(a.logger),
		ops.WithTemplateDir(a.cfg.TemplatesDir),
	), nil
}

// openStore returns the history store and a function that releases it.
func (a *app) openStore() (store.Store, func(), error) {
	if a.deps.store != nil {
		return a.deps.store, func() {}, nil
	}

	path := a.cfg.History.Path
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating history directory: %w", err)
	}
	s, err := store.NewSQLiteStore(path)
	if err != nil {
		return nil, nil, err
	}
	return s, func() { s.Close() }, nil
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
