package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aegiscad/viewer/internal/config"
	"github.com/aegiscad/viewer/internal/gui"
	"github.com/aegiscad/viewer/internal/logx"
	"github.com/aegiscad/viewer/internal/source"
	"github.com/aegiscad/viewer/version"
)

var (
	configPath string
	baseURL    string
	remote     bool
	watch      bool
	outputDir  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "aegis-viewer-gui [model]",
	Short: "Interactive 3D viewer for CAD models",
	Long: `aegis-viewer-gui opens a window with an orbitable view of an STL or OpenSCAD
model. The toolbar switches between solid, wireframe and combined display,
toggles the grid and axes, moves the camera to standard views, measures
distances between two clicked points and saves screenshots and exports.`,
	Args:    cobra.MaximumNArgs(1),
	Version: version.GetFullVersion(),
	RunE:    run,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "", "TOML configuration file")
	rootCmd.Flags().StringVar(&baseURL, "base-url", "", "model server URL (overrides the configuration)")
	rootCmd.Flags().BoolVar(&remote, "remote", false, "fetch models from the model server instead of disk")
	rootCmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the model when its file changes")
	rootCmd.Flags().StringVarP(&outputDir, "output", "o", ".", "directory for screenshots and exports")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log viewer activity to stderr")
}

func run(cmd *cobra.Command, args []string) error {
	if verbose {
		logx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if baseURL != "" {
		cfg.Source.BaseURL = baseURL
	}

	identifier := ""
	if len(args) == 1 {
		identifier = args[0]
	}

	var backend source.Backend
	if remote || baseURL != "" || strings.HasPrefix(identifier, "http://") || strings.HasPrefix(identifier, "https://") {
		backend = source.NewHTTP(cfg.Source)
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return err
		}
		backend = source.NewFile(wd)
	}

	return gui.Run(context.Background(), gui.Options{
		Config:     cfg,
		Backend:    backend,
		Identifier: identifier,
		Watch:      watch && !remote,
		OutputDir:  outputDir,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
