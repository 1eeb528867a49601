package cli

import (
	"errors"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kote12ab-cloud/minjust-searh-base/internal/domain"
	"github.com/kote12ab-cloud/minjust-searh-base/internal/present"
)

func newSearchCmd(g *globalFlags) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Load the export and print one page of results",
		Long: `search runs a query the way the bot does: digits also match the record
number exactly, anything else is a case-insensitive substring of the
description. The page is printed as plain text.`,
		Example: "  minjust-bot search 3632\n  minjust-bot search --page 2 листовка",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if query == "" {
				return errors.New("query must not be blank")
			}
			cfg, err := g.config(cmd)
			if err != nil {
				return err
			}
			db, _, _, err := loadCatalog(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return printPage(cmd.OutOrStdout(), db.Search(query), query, page-1, cfg.Bot.PageSize, cfg.Bot.PreviewRunes)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page to print, starting at 1")
	return cmd
}

// printPage writes page (zero-based) of results with the bot's layout,
// without Markdown markup.
func printPage(w io.Writer, results []domain.Record, query string, page, size, preview int) error {
	if len(results) == 0 {
		printf(w, "%s\n", present.NothingFound(query))
		return nil
	}
	p, err := present.Renderer{PageSize: size, PreviewRunes: preview, Plain: true}.Render(results, query, page)
	if err != nil {
		return err
	}
	printf(w, "%s", p.Text)
	return nil
}
