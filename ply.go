package gosieview

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

var defaultFaceColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

type plyVertex struct {
	pos mgl64.Vec3
	col color.RGBA
}

func LoadPLYFile(fileName string) (*Mesh, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("could not open PLY file %s: %w", fileName, err)
	}
	defer file.Close()

	mesh, err := ReadPLY(file)
	if err != nil {
		return nil, fmt.Errorf("error parsing PLY file %s: %w", fileName, err)
	}
	return mesh, nil
}

const plyPreallocLimit = 1 << 16

// ReadPLY parses an ASCII PLY file. Face colours come from face colour
// properties, else the average of the vertex colours, else grey.
func ReadPLY(reader io.Reader) (*Mesh, error) {
	scanner := bufio.NewScanner(reader)

	var vertexCount, faceCount int
	var hasVertexColor, hasFaceColor bool
	var currentElement string

	if !scanner.Scan() || strings.TrimSpace(scanner.Text()) != "ply" {
		return nil, fmt.Errorf("missing ply magic: %w", ErrUnsupportedFormat)
	}

header:
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		switch parts[0] {
		case "format":
			if len(parts) < 2 || parts[1] != "ascii" {
				return nil, fmt.Errorf("ply format %q: %w", strings.Join(parts[1:], " "), ErrUnsupportedFormat)
			}
		case "element":
			if len(parts) != 3 {
				return nil, fmt.Errorf("bad element line %q", scanner.Text())
			}
			n, err := strconv.Atoi(parts[2])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("bad %s count %q", parts[1], parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				vertexCount = n
			case "face":
				faceCount = n
			}
		case "property":
			if len(parts) > 2 && (parts[2] == "red" || parts[2] == "diffuse_red") {
				switch currentElement {
				case "vertex":
					hasVertexColor = true
				case "face":
					hasFaceColor = true
				}
			}
		case "end_header":
			break header
		}
	}

	// counts come from the file, so cap the up-front allocation
	vertices := make([]plyVertex, 0, min(vertexCount, plyPreallocLimit))
	for i := 0; i < vertexCount; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected end of file while reading vertices")
		}
		parts := strings.Fields(scanner.Text())
		want := 3
		if hasVertexColor {
			want = 6
		}
		if len(parts) < want {
			return nil, fmt.Errorf("invalid vertex data on vertex %d", i)
		}
		var v plyVertex
		for a := 0; a < 3; a++ {
			f, err := strconv.ParseFloat(parts[a], 64)
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			v.pos[a] = f
		}
		v.col = color.RGBA{R: 255, G: 255, B: 255, A: 255}
		if hasVertexColor {
			col, err := parseRGB(parts[3:6])
			if err != nil {
				return nil, fmt.Errorf("vertex %d: %w", i, err)
			}
			v.col = col
		}
		vertices = append(vertices, v)
	}

	mesh := NewMesh()
	pts := make([]mgl64.Vec3, 0, 8)
	for i := 0; i < faceCount; i++ {
		if !scanner.Scan() {
			return nil, fmt.Errorf("unexpected end of file while reading faces")
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			return nil, fmt.Errorf("empty face line %d", i)
		}
		numFaceVerts, err := strconv.Atoi(parts[0])
		if err != nil || numFaceVerts < 0 || len(parts) < numFaceVerts+1 {
			return nil, fmt.Errorf("invalid face data on face %d", i)
		}

		pts = pts[:0]
		var r, g, b int
		for j := 1; j <= numFaceVerts; j++ {
			idx, err := strconv.Atoi(parts[j])
			if err != nil || idx < 0 || idx >= len(vertices) {
				return nil, fmt.Errorf("face %d: vertex index %q out of range", i, parts[j])
			}
			pts = append(pts, vertices[idx].pos)
			r += int(vertices[idx].col.R)
			g += int(vertices[idx].col.G)
			b += int(vertices[idx].col.B)
		}

		faceColor := defaultFaceColor
		switch {
		case hasFaceColor:
			if len(parts) < numFaceVerts+4 {
				return nil, fmt.Errorf("invalid face-color data on face %d", i)
			}
			faceColor, err = parseRGB(parts[numFaceVerts+1 : numFaceVerts+4])
			if err != nil {
				return nil, fmt.Errorf("face %d: %w", i, err)
			}
		case hasVertexColor && numFaceVerts > 0:
			faceColor = color.RGBA{
				R: uint8(r / numFaceVerts),
				G: uint8(g / numFaceVerts),
				B: uint8(b / numFaceVerts),
				A: 255,
			}
		}
		mesh.AddFace(faceColor, pts...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from PLY source: %w", err)
	}
	if len(mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}
	return mesh, nil
}

func parseRGB(parts []string) (color.RGBA, error) {
	var c [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("colour component %q: %w", p, err)
		}
		c[i] = uint8(v)
	}
	return color.RGBA{R: c[0], G: c[1], B: c[2], A: 255}, nil
}
