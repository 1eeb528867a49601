// Package cli implements the minjust-bot commands on top of cobra.
//
// Every command reads its configuration the same way: the dotenv file
// named by --env-file (missing is fine), then the environment through
// config.Load, then the global flags, which win.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/config"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/ingest"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/search"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/sysutil"
)

// globalFlags are shared by all subcommands.
type globalFlags struct {
	envFile  string
	source   string
	encoding string
}

// NewRootCmd builds the command tree. version is the bare version string
// handed to tracing; display is what --version prints.
func NewRootCmd(version, display string) *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:   "minjust-bot",
		Short: "Search bot over the federal list of extremist materials",
		Long: `minjust-bot loads the Ministry of Justice CSV export into memory and
answers searches by record number or by a word from the description.

Results are served over Telegram (paged, with inline navigation) and over a
JSON HTTP API that drives the same conversation.`,
		Version:       display,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "dotenv file read before the environment (ignored when missing)")
	root.PersistentFlags().StringVar(&g.source, "source", "", "path of the CSV export (overrides SOURCE_PATH)")
	root.PersistentFlags().StringVar(&g.encoding, "encoding", "", "encoding label of the export (overrides SOURCE_ENCODING)")

	root.AddCommand(newServeCmd(g, version))
	root.AddCommand(newCheckCmd(g))
	root.AddCommand(newSearchCmd(g))
	return root
}

// config resolves the configuration and installs the global logger, which
// writes to the command's stderr.
func (g *globalFlags) config(cmd *cobra.Command) (config.Config, error) {
	if g.envFile != "" {
		if err := godotenv.Load(g.envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return config.Config{}, fmt.Errorf("load %s: %w", g.envFile, err)
		}
	}
	cfg, err := config.Load()
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	cfg.Source.Path = sysutil.FirstNonEmpty(g.source, cfg.Source.Path)
	cfg.Source.Encoding = strings.ToLower(sysutil.FirstNonEmpty(g.encoding, cfg.Source.Encoding))

	sysutil.SetupLogger(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogPretty, cfg.OTEL.ServiceName)
	return cfg, nil
}

// loadCatalog reads the configured export into a database.
func loadCatalog(ctx context.Context, cfg config.Config) (*search.Database, ingest.Stats, []ingest.LineError, error) {
	db, st, fails, err := ingest.LoadFile(ctx, cfg.Source.Path, cfg.Source.Encoding,
		ingest.WithDelimiter(cfg.Source.Delimiter),
		ingest.WithMinDescriptionRunes(cfg.Source.MinDescriptionRunes),
	)
	if err != nil {
		return nil, st, fails, fmt.Errorf("load %s: %w", cfg.Source.Path, err)
	}
	// counts and timing are in the loader's own summary
	log.Debug().
		Str("source", cfg.Source.Path).
		Str("encoding", cfg.Source.Encoding).
		Msg("catalog source")
	return db, st, fails, nil
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
