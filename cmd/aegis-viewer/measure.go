package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aegiscad/viewer/internal/camera"
	"github.com/aegiscad/viewer/pkg/analysis"
)

var (
	measurePreset string
	measureOutput string
)

var measureCmd = &cobra.Command{
	Use:   "measure [model] [x1,y1] [x2,y2]",
	Short: "Measure the distance between two picked points",
	Long: `Load a model, frame it, and pick two points on its surface at the given pixel
positions of the rendered image, exactly as two clicks in the viewer would.
Prints the picked points and their distance rounded to two decimals.

Pixel positions are measured from the top-left corner of the frame; use
"render" first to see where the model lies.`,
	Example: `  aegis-viewer measure part.stl 300,280 500,320
  aegis-viewer measure part.stl 400,200 400,420 --preset front -o picked.png`,
	Args: cobra.ExactArgs(3),
	Run:  runMeasure,
}

func init() {
	measureCmd.Flags().StringVarP(&measurePreset, "preset", "p", "", "camera preset applied before picking")
	measureCmd.Flags().StringVarP(&measureOutput, "output", "o", "", "also write a screenshot with the measurement to this file")
	rootCmd.AddCommand(measureCmd)
}

func runMeasure(cmd *cobra.Command, args []string) {
	identifier := args[0]
	picks := make([][2]float64, 0, 2)
	for _, arg := range args[1:] {
		p, err := parsePixel(arg)
		if err != nil {
			fail("parsing pick", err)
		}
		picks = append(picks, p)
	}

	cfg := loadConfig()
	s, err := newSession(cfg, backendFor(cfg, identifier), nil)
	if err != nil {
		fail("starting viewer", err)
	}
	defer s.close()

	if err := s.load(identifier); err != nil {
		fail("loading model", err)
	}
	if measurePreset != "" && !s.host.ApplyPreset(camera.Preset(measurePreset)) {
		fail("applying preset", fmt.Errorf("unknown preset %q", measurePreset))
	}
	s.frame()

	s.host.SetMeasureActive(true)
	for i, p := range picks {
		if !s.host.Click(p[0], p[1]) {
			fail("picking", fmt.Errorf("point %d at %g,%g misses the model", i+1, p[0], p[1]))
		}
	}

	fmt.Println("Measurement")
	fmt.Println("===========")
	for i, p := range s.host.MeasurementPoints() {
		fmt.Printf("  Point %d: %s\n", i+1, analysis.FormatVector(p))
	}
	result := s.host.MeasurementResult()
	if result == nil {
		fail("measuring", fmt.Errorf("no result"))
	}
	fmt.Printf("  %s\n", result)

	if measureOutput == "" {
		return
	}
	s.frame()
	data, err := s.host.Screenshot()
	if err != nil {
		fail("capturing frame", err)
	}
	if err := os.WriteFile(measureOutput, data, 0o644); err != nil {
		fail("writing screenshot", err)
	}
}

// parsePixel reads an "x,y" pixel position.
func parsePixel(s string) ([2]float64, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return [2]float64{}, fmt.Errorf("%q is not of the form x,y", s)
	}
	x, err := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("invalid x in %q: %w", s, err)
	}
	y, err := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	if err != nil {
		return [2]float64{}, fmt.Errorf("invalid y in %q: %w", s, err)
	}
	return [2]float64{x, y}, nil
}
