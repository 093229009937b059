package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aegiscad/viewer/internal/config"
	"github.com/aegiscad/viewer/internal/logx"
	"github.com/aegiscad/viewer/internal/source"
	"github.com/aegiscad/viewer/version"
)

var (
	configPath string
	baseURL    string
	remote     bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "aegis-viewer",
	Short: "Inspect, render and measure CAD models from the command line",
	Long: `aegis-viewer drives the viewer engine without a window. It loads STL models
(and OpenSCAD sources when openscad is installed) from disk or from a model
server, prints their dimensions, renders screenshots, measures distances
between picked points and resolves export downloads.`,
	Version: version.GetFullVersion(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "model server URL (overrides the configuration)")
	rootCmd.PersistentFlags().BoolVar(&remote, "remote", false, "fetch models from the model server instead of disk")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log viewer activity to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig reads --config over the defaults and applies --base-url.
func loadConfig() config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		fail("loading configuration", err)
	}
	if baseURL != "" {
		cfg.Source.BaseURL = baseURL
	}
	return cfg
}

// backendFor picks where identifier is read from. URLs and --remote go to
// the model server; everything else is a local path.
func backendFor(cfg config.Config, identifier string) source.Backend {
	if remote || baseURL != "" || isURL(identifier) {
		return source.NewHTTP(cfg.Source)
	}
	wd, err := os.Getwd()
	if err != nil {
		fail("resolving working directory", err)
	}
	return source.NewFile(wd)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

func fail(what string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", what, err)
	os.Exit(1)
}
