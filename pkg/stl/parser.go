package stl

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/aegiscad/viewer/pkg/geometry"
)

const (
	headerSize = 80
	countSize  = 4
	facetSize  = 50
)

// binaryFacet is the on-disk layout of one binary STL triangle.
type binaryFacet struct {
	Normal    [3]float32
	Vertices  [3][3]float32
	Attribute uint16
}

// Parse reads an STL file and returns a Model
func Parse(filename string) (*Model, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return ParseBytes(data)
}

// ParseBytes decodes an in-memory STL buffer.
// It automatically detects whether the data is ASCII or binary. A buffer
// starting with "solid" is still treated as binary when its length matches
// the binary layout exactly, or exceeds it and the first kilobyte holds
// non-text bytes, since some exporters write that word into the header.
func ParseBytes(data []byte) (*Model, error) {
	if isASCII(data) {
		return parseASCII(data)
	}
	return parseBinary(data)
}

func isASCII(data []byte) bool {
	if !bytes.HasPrefix(bytes.TrimLeft(data, " \t\r\n"), []byte("solid")) {
		return false
	}
	if len(data) >= headerSize+countSize {
		count := binary.LittleEndian.Uint32(data[headerSize:])
		expected := int64(headerSize+countSize) + int64(count)*facetSize
		if expected == int64(len(data)) {
			return false
		}
		// Padded binary files are longer than their facets need.
		if count > 0 && int64(len(data)) > expected && hasBinaryBytes(data[:min(len(data), sniffSize)]) {
			return false
		}
	}
	return true
}

// sniffSize is how much of a buffer is inspected for non-text bytes.
const sniffSize = 1024

func hasBinaryBytes(data []byte) bool {
	for _, b := range data {
		if (b < 0x20 && b != '\t' && b != '\n' && b != '\r') || b >= 0x7f {
			return true
		}
	}
	return false
}

// parseASCII parses an ASCII STL buffer
func parseASCII(data []byte) (*Model, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	model := NewModel("")

	var currentNormal geometry.Vector3
	var vertices []geometry.Vector3
	inFacet := false
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				model.Name = strings.Join(fields[1:], " ")
			}

		case "facet":
			if len(fields) < 5 || fields[1] != "normal" {
				return nil, asciiError(fmt.Sprintf("line %d: malformed facet", lineNo), nil)
			}
			normal, err := parseTriple(fields[2:5])
			if err != nil {
				return nil, asciiError(fmt.Sprintf("line %d: bad normal", lineNo), err)
			}
			currentNormal = normal
			vertices = vertices[:0]
			inFacet = true

		case "vertex":
			if !inFacet || len(fields) < 4 {
				return nil, asciiError(fmt.Sprintf("line %d: vertex outside facet", lineNo), nil)
			}
			v, err := parseTriple(fields[1:4])
			if err != nil {
				return nil, asciiError(fmt.Sprintf("line %d: bad vertex", lineNo), err)
			}
			vertices = append(vertices, v)

		case "endfacet":
			if len(vertices) != 3 {
				return nil, asciiError(fmt.Sprintf("line %d: facet has %d vertices", lineNo, len(vertices)), nil)
			}
			model.AddTriangle(geometry.NewTriangle(currentNormal, vertices[0], vertices[1], vertices[2]))
			inFacet = false
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, asciiError("read failed", err)
	}
	if inFacet {
		return nil, asciiError("unterminated facet", nil)
	}
	if model.TriangleCount() == 0 {
		return nil, asciiError("no facets", nil)
	}

	return model, nil
}

func parseTriple(fields []string) (geometry.Vector3, error) {
	var xyz [3]float64
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return geometry.Vector3{}, err
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return geometry.Vector3{}, fmt.Errorf("non-finite value %q", f)
		}
		xyz[i] = v
	}
	return geometry.NewVector3(xyz[0], xyz[1], xyz[2]), nil
}

// parseBinary parses a binary STL buffer
func parseBinary(data []byte) (*Model, error) {
	if len(data) < headerSize+countSize {
		return nil, binaryError(fmt.Sprintf("buffer too short (%d bytes)", len(data)), nil)
	}

	model := NewModel(strings.TrimSpace(string(bytes.TrimRight(data[:headerSize], "\x00"))))

	triangleCount := binary.LittleEndian.Uint32(data[headerSize:])
	if triangleCount == 0 {
		return nil, binaryError("no triangles", nil)
	}
	expected := int64(headerSize+countSize) + int64(triangleCount)*facetSize
	if int64(len(data)) < expected {
		return nil, binaryError(fmt.Sprintf("truncated: header declares %d triangles (%d bytes), got %d bytes",
			triangleCount, expected, len(data)), nil)
	}

	reader := bytes.NewReader(data[headerSize+countSize:])
	model.Triangles = make([]geometry.Triangle, 0, triangleCount)

	for i := uint32(0); i < triangleCount; i++ {
		var facet binaryFacet
		if err := binary.Read(reader, binary.LittleEndian, &facet); err != nil {
			return nil, binaryError(fmt.Sprintf("failed to read triangle %d", i), err)
		}

		tri := geometry.NewTriangle(
			toVector(facet.Normal),
			toVector(facet.Vertices[0]),
			toVector(facet.Vertices[1]),
			toVector(facet.Vertices[2]),
		)
		if !finite(tri) {
			return nil, binaryError(fmt.Sprintf("triangle %d has non-finite coordinates", i), nil)
		}
		model.AddTriangle(tri)
	}

	return model, nil
}

func toVector(v [3]float32) geometry.Vector3 {
	return geometry.NewVector3(float64(v[0]), float64(v[1]), float64(v[2]))
}

func finite(t geometry.Triangle) bool {
	for _, v := range t.Vertices() {
		for _, c := range [3]float64{v.X, v.Y, v.Z} {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return false
			}
		}
	}
	return true
}
