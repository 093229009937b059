package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aegiscad/viewer/internal/camera"
	"github.com/aegiscad/viewer/internal/view"
	"github.com/aegiscad/viewer/internal/viewer"
)

var (
	renderOutput  string
	renderMode    string
	renderPreset  string
	renderNoGrid  bool
	renderNoAxes  bool
	renderWidth   int
	renderHeight  int
	renderDataURL bool
)

var renderCmd = &cobra.Command{
	Use:   "render [model]",
	Short: "Render a model to a PNG screenshot",
	Long: `Load a model into an offscreen viewer, frame it the way the interactive viewer
does and write the resulting frame as PNG. Without a model the empty scene
with its "No model loaded" banner is rendered; "placeholder" renders the
placeholder cube.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRender,
}

func init() {
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", viewer.ScreenshotFilename, "output PNG file")
	renderCmd.Flags().StringVarP(&renderMode, "mode", "m", view.Solid.String(), "display mode: solid, wireframe or both")
	renderCmd.Flags().StringVarP(&renderPreset, "preset", "p", "", "camera preset: front, back, left, right, top, bottom or isometric")
	renderCmd.Flags().BoolVar(&renderNoGrid, "no-grid", false, "hide the ground grid")
	renderCmd.Flags().BoolVar(&renderNoAxes, "no-axes", false, "hide the axes helper")
	renderCmd.Flags().IntVar(&renderWidth, "width", 0, "image width in pixels (default from configuration)")
	renderCmd.Flags().IntVar(&renderHeight, "height", 0, "image height in pixels (default from configuration)")
	renderCmd.Flags().BoolVar(&renderDataURL, "data-url", false, "print the image as a data URL instead of writing a file")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) {
	identifier := ""
	if len(args) == 1 {
		identifier = args[0]
	}

	cfg := loadConfig()
	if renderWidth > 0 {
		cfg.Render.Width = renderWidth
	}
	if renderHeight > 0 {
		cfg.Render.Height = renderHeight
	}
	cfg.Render.PreserveDrawingBuffer = true

	mode, err := view.ParseMode(renderMode)
	if err != nil {
		fail("parsing mode", err)
	}

	s, err := newSession(cfg, backendFor(cfg, identifier), nil)
	if err != nil {
		fail("starting viewer", err)
	}
	defer s.close()

	if err := s.load(identifier); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v, rendering the fallback cube\n", err)
	}

	s.host.SetMode(mode)
	s.host.SetGridVisible(!renderNoGrid)
	s.host.SetAxesVisible(!renderNoAxes)
	if renderPreset != "" && !s.host.ApplyPreset(camera.Preset(renderPreset)) {
		fail("applying preset", fmt.Errorf("unknown preset %q", renderPreset))
	}
	s.frame()

	if renderDataURL {
		url, err := s.host.ScreenshotDataURL()
		if err != nil {
			fail("capturing frame", err)
		}
		fmt.Println(url)
		return
	}

	data, err := s.host.Screenshot()
	if err != nil {
		fail("capturing frame", err)
	}
	if err := os.WriteFile(renderOutput, data, 0o644); err != nil {
		fail("writing screenshot", err)
	}
	w, h := s.container.PixelSize()
	fmt.Printf("Wrote %s (%dx%d)\n", renderOutput, w, h)
}
