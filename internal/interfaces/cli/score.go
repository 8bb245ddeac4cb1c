package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spaarke/workspace-engine/internal/application/scoring"
	"github.com/spaarke/workspace-engine/internal/infrastructure/monitoring/logging"
)

// scoreFile is the on-disk shape accepted by `workspacectl score`, matching
// the request body of the calculate-scores endpoint.
type scoreFile struct {
	Items []scoring.ScoreItem `json:"items"`
}

func newScoreCmd() *cobra.Command {
	var (
		file   string
		output string
	)

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score work items locally",
		Long:  "Run the deterministic priority and effort scorers against a JSON batch file\nwithout a running server. The file shape matches the calculate-scores request body.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "json" && output != "table" {
				return fmt.Errorf("invalid output format: %s (must be json or table)", output)
			}

			items, err := readScoreFile(file)
			if err != nil {
				return err
			}

			orchestrator := scoring.NewOrchestrator(
				scoring.NewPriorityScorer(),
				scoring.NewEffortScorer(),
				logging.NewNopLogger(),
			)
			results, err := orchestrator.ScoreBatch(cmd.Context(), items)
			if err != nil {
				return err
			}

			return writeScoreResults(cmd.OutOrStdout(), results, output)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON batch file, \"-\" for stdin [REQUIRED]")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format (table/json)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func readScoreFile(path string) ([]scoring.ScoreItem, error) {
	var raw []byte
	var err error
	if path == "-" {
		raw, err = io.ReadAll(os.Stdin)
	} else {
		raw, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read batch file: %w", err)
	}

	var f scoreFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse batch file: %w", err)
	}
	return f.Items, nil
}

func writeScoreResults(w io.Writer, results []scoring.ScoreResult, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "EVENT\tPRIORITY\tLEVEL\tEFFORT\tLEVEL")
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%d\t%s\t%d\t%s\n",
			r.EventID,
			r.PriorityScore, r.PriorityLevel,
			r.EffortScore, r.EffortLevel)
	}
	return tw.Flush()
}
