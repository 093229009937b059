package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/aegiscad/viewer/internal/source"
	"github.com/aegiscad/viewer/pkg/openscad"
	"github.com/aegiscad/viewer/pkg/watcher"
)

var (
	watchRender   string
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [model]",
	Short: "Reload a local model whenever it changes",
	Long: `Load a local STL or OpenSCAD model and reload it every time the file, or any
file it includes or uses, is saved. The model summary is printed after each
reload; with --render a screenshot is refreshed as well.`,
	Args: cobra.ExactArgs(1),
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchRender, "render", "r", "", "refresh a PNG screenshot after each reload")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "quiet period before reloading")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) {
	identifier := args[0]
	if isURL(identifier) || remote {
		fail("watching", fmt.Errorf("only local models can be watched"))
	}
	path, err := filepath.Abs(identifier)
	if err != nil {
		fail("resolving model", err)
	}

	files := []string{path}
	if openscad.IsSource(path) {
		if files, err = openscad.NewRenderer(filepath.Dir(path)).Dependencies(path); err != nil {
			fail("reading dependencies", err)
		}
	}

	cfg := loadConfig()
	s, err := newSession(cfg, source.NewFile(filepath.Dir(path)), nil)
	if err != nil {
		fail("starting viewer", err)
	}
	defer s.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fw, err := watcher.NewFileWatcher(watchDebounce)
	if err != nil {
		fail("starting watcher", err)
	}
	defer fw.Close()

	changes := make(chan string, 1)
	if err := fw.Watch(files, func(changed string) {
		select {
		case changes <- changed:
		default:
		}
	}); err != nil {
		fail("starting watcher", err)
	}
	go func() { _ = fw.Run(ctx) }()

	show := func(err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		if info := s.host.ModelInfo(); info != nil {
			fmt.Printf("[%s] %s: %s\n", time.Now().Format(time.TimeOnly), filepath.Base(path), info)
		}
		if watchRender != "" {
			s.frame()
			if data, err := s.host.Screenshot(); err == nil {
				err = os.WriteFile(watchRender, data, 0o644)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
				}
			}
		}
	}

	show(s.load(filepath.Base(path)))
	fmt.Printf("Watching %d file(s), press Ctrl+C to stop\n", len(files))

	for {
		select {
		case <-ctx.Done():
			return
		case changed := <-changes:
			fmt.Printf("Changed: %s\n", changed)
			show(s.reload())
		}
	}
}
