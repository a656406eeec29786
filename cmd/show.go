package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pable/go-bandy-metrics/internal/log"
)

var showCmd = &cobra.Command{
	Use:   "show <hash-prefix>",
	Short: "Show stored match statistics by hash prefix",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
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
	return showByHash(db, match.Hash)
}
