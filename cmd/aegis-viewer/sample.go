package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aegiscad/viewer/pkg/solid"
	"github.com/aegiscad/viewer/pkg/stl"
)

var sampleBracket = solid.DefaultBracket()

var sampleCmd = &cobra.Command{
	Use:   "sample [output.stl]",
	Short: "Generate a sample bracket model as binary STL",
	Long: `Build an L-shaped mounting bracket with two bolt holes from signed distance
fields and tessellate it with marching cubes. The result is useful for trying
out the viewer and its measurement tool without a model server.`,
	Args: cobra.ExactArgs(1),
	Run:  runSample,
}

func init() {
	f := sampleCmd.Flags()
	f.Float64Var(&sampleBracket.Width, "width", sampleBracket.Width, "bracket width in mm")
	f.Float64Var(&sampleBracket.Depth, "depth", sampleBracket.Depth, "base plate depth in mm")
	f.Float64Var(&sampleBracket.Height, "height", sampleBracket.Height, "flange height in mm")
	f.Float64Var(&sampleBracket.Thickness, "thickness", sampleBracket.Thickness, "material thickness in mm")
	f.Float64Var(&sampleBracket.HoleDiameter, "hole", sampleBracket.HoleDiameter, "bolt hole diameter in mm, 0 for none")
	f.IntVar(&sampleBracket.Cells, "cells", sampleBracket.Cells, "marching cubes resolution")
	rootCmd.AddCommand(sampleCmd)
}

func runSample(cmd *cobra.Command, args []string) {
	path := args[0]

	model, err := sampleBracket.Model()
	if err != nil {
		fail("building bracket", err)
	}

	file, err := os.Create(path)
	if err != nil {
		fail("creating output", err)
	}
	w := bufio.NewWriter(file)
	if err := stl.WriteBinary(w, model); err != nil {
		file.Close()
		fail("writing STL", err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		fail("writing STL", err)
	}
	if err := file.Close(); err != nil {
		fail("writing STL", err)
	}

	size := model.BoundingBox().Size()
	fmt.Printf("Wrote %s: %d triangles, %.2f × %.2f × %.2f mm\n", path, model.TriangleCount(), size.X, size.Y, size.Z)
}
