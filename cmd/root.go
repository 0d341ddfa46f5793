package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/studyplay/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "studyplay",
	Short: "Study Japanese while you watch",
	Long: "Studyplay plays a subtitle track and turns selected lines into\n" +
		"fill-in-the-blank tests, driven by a cadence or by what your Anki decks\n" +
		"say you still need to learn.",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to config file (default: $XDG_CONFIG_HOME/studyplay/studyplay.toml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides db.path and STUDYPLAY_DB)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (overrides log.level)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then db.path from config, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, configured string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if configured != "" {
		return configured, store.EnsureDir(configured)
	}
	return store.DefaultDBPath()
}
