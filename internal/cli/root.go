package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tmuir/minute/internal/config"
	"github.com/tmuir/minute/internal/engine"
	"github.com/tmuir/minute/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "minute",
	Short: "Meeting notes with automatic linking",
	Long:  "Minute keeps meeting notes as plain markdown files and finds the connections between them: shared tags, keywords, projects and people.",
}

var cfgFile string

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.minute/config.yaml)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(linkCmd)
	rootCmd.AddCommand(unlinkCmd)
	rootCmd.AddCommand(linksCmd)
	rootCmd.AddCommand(relatedCmd)
	rootCmd.AddCommand(autolinkCmd)
	rootCmd.AddCommand(backlinksCmd)
	rootCmd.AddCommand(graphCmd)
	rootCmd.AddCommand(actionsCmd)
	rootCmd.AddCommand(forwardCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(syncCmd)
}

// loadConfig resolves the config path (flag, env, then default) and loads it.
func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		path = os.Getenv("MINUTE_CONFIG")
	}
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path)
}

// openEngine is the shared setup for CLI commands that work on the vault.
func openEngine() (*engine.Engine, config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, cfg, err
	}

	base := cfg.Storage.BasePath
	if base == "" {
		base, err = store.DefaultBasePath()
		if err != nil {
			return nil, cfg, fmt.Errorf("resolve notes path: %w", err)
		}
	}
	st, err := store.Open(base)
	if err != nil {
		return nil, cfg, fmt.Errorf("open notes: %w", err)
	}
	return engine.New(st, cfg.Projects), cfg, nil
}

// splitRef parses a "project/note-id" reference.
func splitRef(ref string) (project, id string, err error) {
	parts := strings.SplitN(ref, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid note reference %q, want project/note-id", ref)
	}
	return parts[0], parts[1], nil
}
