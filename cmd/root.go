package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pable/go-bandy-metrics/internal/config"
	"github.com/pable/go-bandy-metrics/internal/log"
	"github.com/pable/go-bandy-metrics/internal/storage"
)

var (
	cfgFile  string
	cfg      config.Config
	v        = viper.New()
	closeLog = func() {}
)

var rootCmd = &cobra.Command{
	Use:   "bandymetrics",
	Short: "Bandy match log statistics",
	Long: `Parse tagged bandy match event logs, rebuild the possession timeline
and compute per-team statistics. Halves and whole seasons can be merged.`,
	SilenceUsage:      true,
	PersistentPreRunE: initApp,
	PersistentPostRun: func(*cobra.Command, []string) { closeLog() },
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		closeLog()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default bandymetrics.yml in $HOME or .)")
	pf.String("db", config.DefaultDBPath(), "path to SQLite database")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "also append logs to this file")
	bindFlag("db", pf.Lookup("db"))
	bindFlag("log.level", pf.Lookup("log-level"))
	bindFlag("log.file", pf.Lookup("log-file"))

	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(timelineCmd)
	rootCmd.AddCommand(mergeCmd)
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(summaryCmd)
	rootCmd.AddCommand(trendCmd)
	rootCmd.AddCommand(sqlCmd)
	rootCmd.AddCommand(dropCmd)
	rootCmd.AddCommand(shellCmd)
}

func bindFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", key, err))
	}
}

func initApp(cmd *cobra.Command, _ []string) error {
	c, err := config.Read(v, cfgFile)
	if err != nil {
		return err
	}
	cfg = c
	closeLog = log.MustCreateLogger(cfg.Log.File, log.ParseLevel(cfg.Log.Level))
	slog.Debug("config loaded",
		slog.String("command", cmd.Name()),
		slog.String("file", v.ConfigFileUsed()),
		slog.String("db", cfg.DB))
	return nil
}

// openStore opens the configured database, creating its directory first.
func openStore() (*storage.DB, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.DB), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := storage.Open(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return db, nil
}
