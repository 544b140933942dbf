// Command keynexus runs the KeyNexus storefront API and offers catalog and
// assistant tools for the terminal.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/tbourn/go-keynexus/internal/config"
	"github.com/tbourn/go-keynexus/internal/sysutil"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// globalFlags override the matching environment settings when set.
type globalFlags struct {
	envFile  string
	dbPath   string
	catalog  string
	logLevel string
	pretty   bool
}

// cli carries what the subcommands share after PersistentPreRunE.
type cli struct {
	flags globalFlags
	cfg   config.Config
}

func newRootCmd() *cobra.Command {
	app := &cli{}

	root := &cobra.Command{
		Use:           "keynexus",
		Short:         "KeyNexus - game key storefront with a shopping assistant",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `KeyNexus serves a catalog of digital game keys, a per-session cart and
Nexus AI, an assistant that recommends one product per reply.

Settings come from the environment (optionally a .env file); the global
flags below take precedence.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&app.flags.envFile, "env-file", ".env", "dotenv file to load before reading the environment")
	pf.StringVar(&app.flags.dbPath, "db", "", "SQLite path or DSN (overrides DB_PATH)")
	pf.StringVar(&app.flags.catalog, "catalog", "", "JSON or YAML catalog file (overrides CATALOG_PATH)")
	pf.StringVar(&app.flags.logLevel, "log-level", "", "debug|info|warn|error (overrides LOG_LEVEL)")
	pf.BoolVar(&app.flags.pretty, "pretty", false, "human-readable console logs")

	root.AddCommand(newServeCmd(app), newCatalogCmd(app), newAskCmd(app))
	return root
}

func (a *cli) init(cmd *cobra.Command) error {
	if err := godotenv.Load(a.flags.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", a.flags.envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	cfg.DBPath = sysutil.FirstNonEmpty(a.flags.dbPath, cfg.DBPath)
	cfg.CatalogPath = sysutil.FirstNonEmpty(a.flags.catalog, cfg.CatalogPath)
	cfg.LogLevel = sysutil.FirstNonEmpty(a.flags.logLevel, cfg.LogLevel)
	cfg.LogPretty = cfg.LogPretty || a.flags.pretty
	a.cfg = cfg

	sysutil.ConfigureLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty)
	gin.SetMode(cfg.GinMode)
	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
