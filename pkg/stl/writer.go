package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/aegiscad/viewer/pkg/geometry"
)

// WriteBinary encodes the model as binary STL.
// Zero normals are replaced by the normal computed from the winding.
func WriteBinary(w io.Writer, m *Model) error {
	bw := bufio.NewWriter(w)

	var header [headerSize]byte
	copy(header[:], m.Name)
	if _, err := bw.Write(header[:]); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return fmt.Errorf("failed to write triangle count: %w", err)
	}

	for i, tri := range m.Triangles {
		facet := binaryFacet{
			Normal: fromVector(tri.FaceNormal()),
			Vertices: [3][3]float32{
				fromVector(tri.V1),
				fromVector(tri.V2),
				fromVector(tri.V3),
			},
		}
		if err := binary.Write(bw, binary.LittleEndian, &facet); err != nil {
			return fmt.Errorf("failed to write triangle %d: %w", i, err)
		}
	}

	return bw.Flush()
}

func fromVector(v geometry.Vector3) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}
