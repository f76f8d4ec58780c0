package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ppiankov/matchup/internal/logging"
	"github.com/ppiankov/matchup/internal/model"
	"github.com/ppiankov/matchup/internal/table"
)

// datasetsCmd represents the datasets command
var datasetsCmd = &cobra.Command{
	Use:   "datasets",
	Short: "List registered datasets and whether they load",
	Long: `List every registered dataset with its file, key columns and load status
in the configured data directory.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		return listDatasets(cmd.Context(), cmd.OutOrStdout(), cfg)
	},
}

func init() {
	rootCmd.AddCommand(datasetsCmd)
}

func listDatasets(ctx context.Context, w io.Writer, cfg *model.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	reg := cfg.Registry()
	tables, warnings, err := table.LoadDir(ctx, cfg.DataDir, reg, logging.Named("loader"))
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Data dir: %s\n\n", cfg.DataDir)
	for _, key := range reg.Keys() {
		ds := reg[key]
		status := "missing"
		if t, ok := tables[key]; ok {
			status = fmt.Sprintf("%d rows", t.Len())
		}
		keyCol := ds.NameColumn
		if keyCol == "" {
			keyCol = strings.Join(ds.TeamColumns, "|")
		}
		if keyCol == "" {
			keyCol = "-"
		}
		fmt.Fprintf(w, "  %-24s %-36s %-22s %s\n", key, ds.File, keyCol, status)
	}

	if len(warnings) > 0 {
		fmt.Fprintln(w)
		for _, warn := range warnings {
			fmt.Fprintf(w, "⚠ %s\n", warn)
		}
	}
	return nil
}
