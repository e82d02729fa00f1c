package main

import (
	"fmt"
	"os"

	internal "mediacat/internal"
	"mediacat/internal/catalog"
	"mediacat/internal/config"
	"mediacat/internal/sniff"
	"mediacat/internal/snapshot"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   internal.DefaultAppName + " <source-dir> <output-json>",
	Short: "Index a directory tree of media files into a JSON snapshot",
	Long: `mediacat walks a directory tree, classifies every entry (file,
directory, symlink, image, audio, video), computes content hashes and
format-derived metadata, and writes the whole tree as a single JSON
document.`,
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig("")
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		logger := internal.GetLogger()
		if level, err := zerolog.ParseLevel(cfg.Log.Level); err == nil {
			logger = logger.Level(level)
		}

		sniffer := sniff.New(sniff.WithMaxBytes(cfg.Sniff.MaxBytes))
		walker := catalog.NewWalker(
			catalog.WithLogger(logger),
			catalog.WithClassifier(catalog.NewClassifier(sniffer, logger)),
			catalog.WithIgnoreFile(cfg.Walk.IgnoreFile),
		)

		tree, err := walker.Walk(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return snapshot.Write(tree, args[1])
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
