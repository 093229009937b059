package viewer

import (
	"bytes"
	"strings"

	"github.com/aegiscad/viewer/internal/logx"
	"github.com/aegiscad/viewer/internal/measure"
	"github.com/aegiscad/viewer/internal/render"
	"github.com/aegiscad/viewer/internal/source"
	"github.com/aegiscad/viewer/pkg/analysis"
	"github.com/aegiscad/viewer/pkg/geometry"
)

// ScreenshotFilename is the suggested name for saved screenshots.
const ScreenshotFilename = "cad-model-screenshot.png"

// ModelInfo returns a copy of the current model summary, nil while nothing
// is shown or a load is running.
func (h *Host) ModelInfo() *analysis.ModelInfo {
	if h.info == nil {
		return nil
	}
	info := *h.info
	return &info
}

// MeasurementResult returns the published measurement, nil when none.
func (h *Host) MeasurementResult() *measure.Result {
	if h.tornDown {
		return nil
	}
	return h.measure.Result()
}

// MeasurementPoints returns the points picked in the current session.
func (h *Host) MeasurementPoints() []geometry.Vector3 {
	if h.tornDown {
		return nil
	}
	return h.measure.Points()
}

// Status returns the load pipeline state.
func (h *Host) Status() Status { return h.status }

// Screenshot encodes the last rendered frame as PNG. The surface must
// retain its drawing buffer.
func (h *Host) Screenshot() ([]byte, error) {
	if h.tornDown {
		return nil, ErrTornDown
	}
	img, err := h.surface.Snapshot()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := render.EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ScreenshotDataURL is Screenshot as a data:image/png URL.
func (h *Host) ScreenshotDataURL() (string, error) {
	if h.tornDown {
		return "", ErrTornDown
	}
	img, err := h.surface.Snapshot()
	if err != nil {
		return "", err
	}
	return render.DataURL(img)
}

// ExportModel hands the download location of the current model to the
// Download callback and returns it. Only the file extension is changed for
// "step"; no conversion takes place.
func (h *Host) ExportModel(format string) (location, filename string, err error) {
	if h.tornDown {
		return "", "", ErrTornDown
	}
	format = strings.ToLower(format)
	if format != "step" && format != "stl" {
		return "", "", ErrFormat
	}
	if !h.requested || h.identifier == "" || h.identifier == Placeholder {
		return "", "", ErrNoModel
	}

	location = source.ExportPath(h.identifier, format)
	if h.resolver != nil {
		location = h.resolver.Resolve(location)
	}
	filename = source.ExportFilename(format)

	logx.Logger().Info("viewer: export", "format", format, "location", location)
	if h.download != nil {
		h.download(location, filename)
	}
	return location, filename, nil
}
