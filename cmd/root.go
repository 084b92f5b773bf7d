// Package cmd defines the sitestamp command line.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/JakeFAU/sitestamp/internal/app"
	"github.com/JakeFAU/sitestamp/internal/config"
	"github.com/JakeFAU/sitestamp/internal/logging"
)

// newRootCmd creates and configures the root command. Every flag is optional:
// a bare invocation stamps public/sitemap.xml and public/index.html under the
// working directory.
func newRootCmd() *cobra.Command {
	v := config.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "sitestamp",
		Short: "Stamp a static site's sitemap and structured metadata with the current date.",
		Long: `sitestamp rewrites the lastmod fields of public/sitemap.xml with the current
UTC time and the datePublished/dateModified values of public/index.html with the
current time at a fixed offset (+09:00 by default). A missing file is reported
and skipped; any other failure exits non-zero.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(v, cfgFile)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, cmd.OutOrStdout())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (YAML, TOML or JSON)")
	flags.String("root", ".", "site root the artifact paths are resolved against")
	flags.Bool("dry-run", false, "compute and report changes without writing files")
	flags.String("at", "", "stamp with this RFC 3339 instant instead of the current time")

	// Lookup cannot fail for flags registered just above.
	_ = v.BindPFlag("site.root", flags.Lookup("root"))
	_ = v.BindPFlag("run.dry_run", flags.Lookup("dry-run"))
	_ = v.BindPFlag("run.at", flags.Lookup("at"))

	return cmd
}

func loadConfig(v *viper.Viper, path string) (config.Config, error) {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return config.Config{}, fmt.Errorf("read config: %w", err)
		}
	}
	cfg, err := config.FromViper(v)
	if err != nil {
		return config.Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config, out io.Writer) error {
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck // best-effort flush

	a, err := app.FromConfig(cfg, nil, out, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize application services: %w", err)
	}
	if _, err := a.Run(ctx); err != nil {
		return fmt.Errorf("run: %w", err)
	}
	return nil
}

// Execute is the main entry point.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
