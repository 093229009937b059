package meshload

import (
	"bytes"
	"errors"
	"testing"

	"github.com/aegiscad/viewer/internal/config"
	"github.com/aegiscad/viewer/internal/scene"
	"github.com/aegiscad/viewer/pkg/geometry"
	"github.com/aegiscad/viewer/pkg/stl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodeBox(t *testing.T, size, center geometry.Vector3) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, stl.WriteBinary(&buf, stl.NewBox("part", size, center)))
	return buf.Bytes()
}

func TestLoadCentersMesh(t *testing.T) {
	l := New(config.Default())

	cases := []struct {
		size, center geometry.Vector3
	}{
		{geometry.NewVector3(2, 2, 2), geometry.Vector3{}},
		{geometry.NewVector3(4, 2, 6), geometry.NewVector3(1, 1, 1)},
		{geometry.NewVector3(10, 0.5, 3), geometry.NewVector3(-50, 20, 7.25)},
	}

	for _, c := range cases {
		res, err := l.Load(encodeBox(t, c.size, c.center))
		require.NoError(t, err)

		assert.Equal(t, ModelName, res.Mesh.Name)
		assert.True(t, res.Mesh.WorldBounds().Center().ApproxEqual(geometry.Vector3{}, 1e-5),
			"world center %v", res.Mesh.WorldBounds().Center())
		assert.True(t, res.Center.ApproxEqual(c.center, 1e-5))
		assert.InDelta(t, 2*c.size.MaxComponent(), res.SuggestedCameraDistance, 1e-5)
		assert.Equal(t, 12, res.TriangleCount)
	}
}

func TestLoadInfoForCube(t *testing.T) {
	res, err := New(config.Default()).Load(encodeBox(t, geometry.NewVector3(2, 2, 2), geometry.NewVector3(3, 0, 0)))
	require.NoError(t, err)

	info := res.Info("mm")
	assert.Equal(t, "2.00", info.Dimensions.Width)
	assert.Equal(t, "2.00", info.Dimensions.Height)
	assert.Equal(t, "2.00", info.Dimensions.Depth)
	assert.Equal(t, "8.00", info.Volume)
	assert.True(t, info.Center.ApproxEqual(geometry.Vector3{}, 1e-6))
	assert.True(t, info.SourceCenter.ApproxEqual(geometry.NewVector3(3, 0, 0), 1e-6))
}

func TestLoadRejectsMalformed(t *testing.T) {
	_, err := New(config.Default()).Load([]byte("definitely not a mesh"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, stl.ErrParse))
}

func TestCreateWireframeOverlay(t *testing.T) {
	l := New(config.Default())
	res, err := l.Load(encodeBox(t, geometry.NewVector3(2, 2, 2), geometry.NewVector3(5, 5, 5)))
	require.NoError(t, err)

	overlay := l.CreateWireframeOverlay(res.Mesh)
	require.NotNil(t, overlay)
	assert.Equal(t, OverlayName, overlay.Name)
	assert.Equal(t, scene.KindLines, overlay.Kind)
	assert.Len(t, overlay.Geometry.Segments, 18)
	assert.True(t, overlay.Material.Transparent)
	assert.InDelta(t, 0.25, overlay.Material.Opacity, 1e-12)
	assert.True(t, overlay.WorldBounds().Center().ApproxEqual(geometry.Vector3{}, 1e-5))
}

func TestCreateWireframeOverlayWithoutGeometry(t *testing.T) {
	l := New(config.Default())
	assert.Nil(t, l.CreateWireframeOverlay(nil))
	assert.Nil(t, l.CreateWireframeOverlay(scene.NewMesh("model", nil, &scene.Material{})))

	res := l.Placeholder()
	res.Mesh.Geometry.Dispose()
	assert.Nil(t, l.CreateWireframeOverlay(res.Mesh))
}

func TestFallbackCube(t *testing.T) {
	res := New(config.Default()).FallbackCube()
	info := res.Info("mm")

	assert.Equal(t, ModelName, res.Mesh.Name)
	assert.Equal(t, "8.00", info.Volume)
	assert.InDelta(t, 4, res.SuggestedCameraDistance, 1e-12)
}
