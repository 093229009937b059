// Package openscad turns .scad sources into STL bytes with the openscad binary.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aegiscad/viewer/internal/logx"
)

// ErrNotInstalled is returned when the openscad binary is not on PATH.
var ErrNotInstalled = errors.New("openscad: binary not found in PATH")

// Extension is the source file extension handled by Renderer.
const Extension = ".scad"

var (
	useStatement     = regexp.MustCompile(`^\s*use\s*<([^>]+)>`)
	includeStatement = regexp.MustCompile(`^\s*include\s*<([^>]+)>`)
)

// Renderer runs openscad relative to a working directory.
type Renderer struct {
	workDir string
	binary  string
}

// NewRenderer creates a renderer resolving relative paths against workDir.
func NewRenderer(workDir string) *Renderer {
	return &Renderer{workDir: workDir, binary: "openscad"}
}

// IsSource reports whether path names an OpenSCAD file.
func IsSource(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

func (r *Renderer) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.workDir, path)
}

// Render compiles scadFile and returns the resulting STL. The command is
// killed when ctx is canceled.
func (r *Renderer) Render(ctx context.Context, scadFile string) ([]byte, error) {
	if _, err := exec.LookPath(r.binary); err != nil {
		return nil, ErrNotInstalled
	}

	tmp, err := os.MkdirTemp("", "aegis-openscad-")
	if err != nil {
		return nil, fmt.Errorf("openscad: temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	out := filepath.Join(tmp, "model.stl")
	cmd := exec.CommandContext(ctx, r.binary, "-o", out, r.abs(scadFile))
	cmd.Dir = r.workDir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logx.Logger().Debug("openscad: rendering", "file", scadFile)
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("openscad: render %s: %w: %s", scadFile, err, msg)
		}
		return nil, fmt.Errorf("openscad: render %s: %w", scadFile, err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		return nil, fmt.Errorf("openscad: read output: %w", err)
	}
	return data, nil
}

// Dependencies returns scadFile followed by every file it pulls in through
// use or include statements, transitively. Cycles are followed once.
func (r *Renderer) Dependencies(scadFile string) ([]string, error) {
	seen := make(map[string]bool)
	var deps []string

	var walk func(file string) error
	walk = func(file string) error {
		if seen[file] {
			return nil
		}
		seen[file] = true
		deps = append(deps, file)

		direct, err := r.parseDependencies(file)
		if err != nil {
			return err
		}
		for _, d := range direct {
			if err := walk(d); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(r.abs(scadFile)); err != nil {
		return nil, err
	}
	return deps, nil
}

func (r *Renderer) parseDependencies(scadFile string) ([]string, error) {
	f, err := os.Open(scadFile)
	if err != nil {
		return nil, fmt.Errorf("openscad: %w", err)
	}
	defer f.Close()

	dir := filepath.Dir(scadFile)
	var deps []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		for _, re := range []*regexp.Regexp{useStatement, includeStatement} {
			if m := re.FindStringSubmatch(line); len(m) > 1 {
				deps = append(deps, r.resolve(m[1], dir))
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("openscad: read %s: %w", scadFile, err)
	}
	return deps, nil
}

// resolve finds a dependency next to the including file first, then in the
// working directory.
func (r *Renderer) resolve(dep, dir string) string {
	if strings.HasPrefix(dep, "./") || strings.HasPrefix(dep, "../") {
		return filepath.Clean(filepath.Join(dir, dep))
	}
	local := filepath.Join(dir, dep)
	if _, err := os.Stat(local); err == nil {
		return filepath.Clean(local)
	}
	return filepath.Clean(filepath.Join(r.workDir, dep))
}
