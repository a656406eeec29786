package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var dropForce bool

// dropCmd deletes the match database together with its WAL side files.
var dropCmd = &cobra.Command{
	Use:   "drop",
	Short: "Delete the match database",
	Long:  "Permanently delete the SQLite match database. All stored statistics will be lost. Re-parse your logs afterwards to rebuild.",
	Args:  cobra.NoArgs,
	RunE:  runDrop,
}

func init() {
	dropCmd.Flags().BoolVarP(&dropForce, "force", "f", false, "skip confirmation prompt")
}

func runDrop(cmd *cobra.Command, args []string) error {
	info, err := os.Stat(cfg.DB)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stdout, "Database does not exist, nothing to drop.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("stat database: %w", err)
	}

	if !dropForce {
		fmt.Fprintf(os.Stderr, "This will permanently delete: %s (%s)\n", cfg.DB, humanize.Bytes(uint64(info.Size())))
		fmt.Fprintf(os.Stderr, "Re-run with --force to confirm.\n")
		return nil
	}
	for _, path := range []string{cfg.DB, cfg.DB + "-wal", cfg.DB + "-shm"} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	fmt.Fprintf(os.Stdout, "Deleted: %s\n", cfg.DB)
	return nil
}
