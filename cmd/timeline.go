package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-bandy-metrics/internal/log"
	"github.com/pable/go-bandy-metrics/internal/model"
	"github.com/pable/go-bandy-metrics/internal/report"
)

var timelineCmd = &cobra.Command{
	Use:   "timeline <hash-prefix>",
	Short: "Show the possession timeline of a stored match",
	Args:  cobra.ExactArgs(1),
	RunE:  runTimeline,
}

func runTimeline(cmd *cobra.Command, args []string) error {
	prefix := args[0]

	db, err := openStore()
	if err != nil {
		return err
	}
	defer log.Closer(db)

	match, err := db.GetMatchByPrefix(prefix)
	if err != nil {
		return fmt.Errorf("query match: %w", err)
	}
	if match == nil {
		fmt.Fprintf(os.Stderr, "No match found with hash prefix %q\n", prefix)
		return nil
	}
	if match.Kind == model.KindMerged {
		fmt.Fprintf(os.Stderr, "%s is a merged report; timelines are kept per log\n", match.ShortHash())
		return nil
	}

	tl, err := db.GetTimeline(match.Hash)
	if err != nil {
		return fmt.Errorf("get timeline: %w", err)
	}
	report.PrintMatchSummary(os.Stdout, *match)
	report.PrintTimeline(os.Stdout, tl, match.Teams())
	return nil
}
