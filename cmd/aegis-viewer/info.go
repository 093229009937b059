package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aegiscad/viewer/internal/meshload"
	"github.com/aegiscad/viewer/pkg/analysis"
	"github.com/aegiscad/viewer/pkg/stl"
)

var infoEdges int

var infoCmd = &cobra.Command{
	Use:   "info [model]",
	Short: "Display the dimensions and mesh statistics of a model",
	Long: `Show the summary the viewer's side panel displays (bounding-box width, height,
depth and volume) followed by mesh statistics: triangle and edge counts,
surface area, enclosed volume and edge lengths.`,
	Args: cobra.ExactArgs(1),
	Run:  runInfo,
}

func init() {
	infoCmd.Flags().IntVarP(&infoEdges, "edges", "e", 0, "also list the N longest edges")
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) {
	identifier := args[0]
	cfg := loadConfig()
	backend := backendFor(cfg, identifier)

	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()

	data, err := backend.Fetch(ctx, identifier)
	if err != nil {
		fail("fetching model", err)
	}
	model, err := stl.ParseBytes(data)
	if err != nil {
		fail("parsing model", err)
	}

	res := meshload.New(cfg).FromModel(model)
	printInfo(identifier, res.Name, res.Info(cfg.Model.Unit), analysis.AnalyzeModel(model), infoEdges)
}

func printInfo(identifier, name string, info analysis.ModelInfo, stats *analysis.MeshStats, edges int) {
	unit := info.Unit

	fmt.Println("Model Information")
	fmt.Println("=================")
	if name != "" {
		fmt.Printf("Name: %s\n", name)
	}
	fmt.Printf("Model: %s\n\n", identifier)

	fmt.Println("Dimensions:")
	fmt.Printf("  Width:  %s %s\n", info.Dimensions.Width, unit)
	fmt.Printf("  Height: %s %s\n", info.Dimensions.Height, unit)
	fmt.Printf("  Depth:  %s %s\n", info.Dimensions.Depth, unit)
	fmt.Printf("  Volume: %s %s³\n", info.Volume, unit)
	fmt.Printf("  Source center: %s\n\n", analysis.FormatVector(info.SourceCenter))

	fmt.Println("Mesh Statistics:")
	fmt.Printf("  Triangles: %d\n", stats.TriangleCount)
	fmt.Printf("  Edges: %d\n", stats.EdgeCount)
	fmt.Printf("  Surface Area: %.6f %s²\n", stats.SurfaceArea, unit)
	fmt.Printf("  Enclosed Volume: %.6f %s³\n", stats.Volume, unit)
	fmt.Printf("  Diagonal: %.6f %s\n\n", stats.BoundingBox.Diagonal(), unit)

	fmt.Println("Edge Lengths:")
	fmt.Printf("  Minimum: %.6f %s\n", stats.MinEdgeLength, unit)
	fmt.Printf("  Maximum: %.6f %s\n", stats.MaxEdgeLength, unit)
	fmt.Printf("  Average: %.6f %s\n", stats.AvgEdgeLength, unit)

	if edges <= 0 {
		return
	}
	fmt.Printf("\nLongest Edges:\n")
	for i, e := range stats.LongestEdges(edges) {
		fmt.Printf("  %d. %.6f %s  %s -> %s\n", i+1, e.Length, unit,
			analysis.FormatVector(e.Start), analysis.FormatVector(e.End))
	}
}
