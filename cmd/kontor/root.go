package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"kontor/internal/backend"
	"kontor/internal/cli"
	"kontor/internal/config"
	"kontor/internal/log"
	"kontor/internal/numparse"
)

// app carries what every command needs once the root command has run.
type app struct {
	cfg     *config.Config
	logger  *log.Logger
	backend *backend.Backend
	parser  *numparse.Parser

	closed bool

	output   string
	apiURL   string
	logLevel string
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "kontor",
		Short:         "Command-line client for a personal finance backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context())
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	root.PersistentFlags().StringVarP(&a.output, "output", "o", "yaml", "Output format: yaml or json")
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "Backend base URL (overrides API_BASE_URL)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newRegisterCmd(a),
		newTransactionsCmd(a),
		newRulesCmd(a),
		newAccountsCmd(a),
		newMasterDataCmd(a),
		newPresetsCmd(a),
		newBankcontactsCmd(a),
		newUsersCmd(a),
		newRolesCmd(a),
		newExportCmd(a),
		newWatchCmd(a),
	)
	return root
}

func (a *app) init(ctx context.Context) error {
	if a.backend != nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := checkFormat(a.output); err != nil {
		return err
	}

	cli.LoadEnvFile()
	cfg, err := cli.LoadAndValidateConfig(nil, func(c *config.Config) {
		if a.apiURL != "" {
			c.APIBaseURL = a.apiURL
		}
		if a.logLevel != "" {
			c.LogLevel = a.logLevel
		}
	})
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = cli.SetupLogger(cfg.LogLevel)

	parser, err := numparse.New(cfg.Locale)
	if err != nil {
		return err
	}
	a.parser = parser

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	b, err := backend.NewFactory(a.logger).CreateBackend(ctx, bcfg)
	if err != nil {
		return fmt.Errorf("initialize backend: %w", err)
	}
	a.backend = b
	return nil
}

// execute runs root and releases the backend whether or not the command
// succeeded.
func (a *app) execute(root *cobra.Command) error {
	err := root.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	return err
}

func (a *app) close() error {
	if a.backend == nil || a.closed {
		return nil
	}
	a.closed = true
	return a.backend.Close()
}

func (a *app) render(w io.Writer, v any) error {
	return render(w, a.output, v)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}
