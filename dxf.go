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

var dxfFaceColor = color.RGBA{R: 100, G: 10, B: 58, A: 255}

func LoadDXFFile(fileName string) (*Mesh, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, fmt.Errorf("could not open DXF file %s: %w", fileName, err)
	}
	defer file.Close()

	mesh, err := ReadDXF(file)
	if err != nil {
		return nil, fmt.Errorf("error parsing DXF file %s: %w", fileName, err)
	}
	return mesh, nil
}

// ReadDXF reads the 3DFACE entities of an ASCII DXF file. Each face is a
// layer group followed by four corners written as group code / value
// pairs (10/20/30, 11/21/31, ...). Triangles repeat their last corner.
func ReadDXF(reader io.Reader) (*Mesh, error) {
	scanner := bufio.NewScanner(reader)
	mesh := NewMesh()

	readFloatLine := func() (float64, error) {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, io.ErrUnexpectedEOF
		}
		val, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
		if err != nil {
			return 0, fmt.Errorf("could not parse float value '%s': %w", scanner.Text(), err)
		}
		return val, nil
	}

	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "3DFACE" {
			continue
		}

		// "8", layer name, first "10"
		for i := 0; i < 3; i++ {
			if !scanner.Scan() {
				return nil, fmt.Errorf("unexpected end of file while parsing 3DFACE header")
			}
		}

		var corners [4]mgl64.Vec3
		for c := 0; c < 4; c++ {
			for a := 0; a < 3; a++ {
				v, err := readFloatLine()
				if err != nil {
					return nil, fmt.Errorf("error reading coordinate %d of vertex %d: %w", a, c, err)
				}
				corners[c][a] = v
				// skip the next group code; the last one may be absent at EOF
				if !scanner.Scan() && (c < 3 || a < 2) {
					return nil, fmt.Errorf("unexpected end of file in 3DFACE vertex %d", c)
				}
			}
		}
		mesh.AddFace(dxfFaceColor, corners[:]...)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from DXF source: %w", err)
	}
	if len(mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}
	return mesh, nil
}
