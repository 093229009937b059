package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aegiscad/viewer/internal/source"
)

var (
	exportFormat      string
	exportDir         string
	exportResolveOnly bool
)

var exportCmd = &cobra.Command{
	Use:   "export [model]",
	Short: "Download the current model as STEP or STL",
	Long: `Resolve the download location of a model in the requested format and save it
as model.<format>. For STEP the location is the model path with its .stl
extension replaced by .step; the file is downloaded as-is, no conversion
takes place.`,
	Args: cobra.ExactArgs(1),
	Run:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "stl", "export format: step or stl")
	exportCmd.Flags().StringVarP(&exportDir, "dir", "d", ".", "directory the download is saved to")
	exportCmd.Flags().BoolVar(&exportResolveOnly, "resolve-only", false, "print the download location without downloading")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) {
	identifier := args[0]
	cfg := loadConfig()
	backend := backendFor(cfg, identifier)

	type request struct{ location, filename string }
	var requests []request
	s, err := newSession(cfg, backend, func(location, filename string) {
		requests = append(requests, request{location, filename})
	})
	if err != nil {
		fail("starting viewer", err)
	}
	defer s.close()

	if err := s.load(identifier); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if _, _, err := s.host.ExportModel(exportFormat); err != nil {
		fail("exporting", err)
	}

	saver := &source.Saver{From: backend, Dir: exportDir}
	for _, r := range requests {
		fmt.Printf("Location: %s\n", r.location)
		if exportResolveOnly {
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Source.Timeout())
		path, err := saver.Save(ctx, r.location, r.filename)
		cancel()
		if err != nil {
			fail("downloading", err)
		}
		fmt.Printf("Saved: %s\n", path)
	}
}
