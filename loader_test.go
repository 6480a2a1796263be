package gosieview

import (
	"context"
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const plyFaceColours = `ply
format ascii 1.0
element vertex 4
property float x
property float y
property float z
element face 2
property list uchar int vertex_indices
property uchar red
property uchar green
property uchar blue
end_header
0 0 0
1 0 0
1 1 0
0 1 0
3 0 1 2 255 0 0
3 0 2 3 0 255 0
`

const plyVertexColours = `ply
format ascii 1.0
element vertex 3
property float x
property float y
property float z
property uchar red
property uchar green
property uchar blue
element face 1
property list uchar int vertex_indices
end_header
0 0 0 30 0 0
1 0 0 60 0 0
0 1 0 90 0 0
3 0 1 2
`

func TestReadPLY(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		faces     int
		points    int
		firstCol  color.RGBA
		wantError bool
	}{
		{
			name:     "face colours",
			src:      plyFaceColours,
			faces:    2,
			points:   4,
			firstCol: color.RGBA{R: 255, A: 255},
		},
		{
			name:     "vertex colours averaged",
			src:      plyVertexColours,
			faces:    1,
			points:   3,
			firstCol: color.RGBA{R: 60, A: 255},
		},
		{
			name:      "vertex index out of range",
			src:       strings.Replace(plyFaceColours, "3 0 2 3 0 255 0", "3 0 2 9 0 255 0", 1),
			wantError: true,
		},
		{
			name:      "truncated",
			src:       plyFaceColours[:len(plyFaceColours)-20],
			wantError: true,
		},
		{
			name:      "not a ply file",
			src:       "hello\n",
			wantError: true,
		},
		{
			name:      "huge vertex count",
			src:       "ply\nformat ascii 1.0\nelement vertex 9000000000000000000\nproperty float x\nelement face 1\nend_header\n0 0 0\n",
			wantError: true,
		},
		{
			name:      "count overflows int",
			src:       "ply\nformat ascii 1.0\nelement vertex 99999999999999999999999\nend_header\n",
			wantError: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mesh, err := ReadPLY(strings.NewReader(tc.src))
			if tc.wantError {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ReadPLY: %v", err)
			}
			if len(mesh.Faces) != tc.faces {
				t.Errorf("faces = %d, want %d", len(mesh.Faces), tc.faces)
			}
			if len(mesh.Points) != tc.points {
				t.Errorf("points = %d, want %d (shared vertices deduplicated)", len(mesh.Points), tc.points)
			}
			if mesh.Faces[0].Col != tc.firstCol {
				t.Errorf("first face colour = %v, want %v", mesh.Faces[0].Col, tc.firstCol)
			}
		})
	}
}

func TestReadPLYBinaryIsUnsupported(t *testing.T) {
	_, err := ReadPLY(strings.NewReader("ply\nformat binary_little_endian 1.0\nend_header\n"))
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("err = %v, want ErrUnsupportedFormat", err)
	}
}

var dxfQuadAndTriangle = strings.Join([]string{
	"0", "SECTION", "2", "ENTITIES",
	"0", "3DFACE", "8", "0",
	"10", "0.0", "20", "0.0", "30", "0.0",
	"11", "1.0", "21", "0.0", "31", "0.0",
	"12", "1.0", "22", "1.0", "32", "0.0",
	"13", "0.0", "23", "1.0", "33", "0.0",
	"0", "3DFACE", "8", "0",
	"10", "0.0", "20", "0.0", "30", "1.0",
	"11", "1.0", "21", "0.0", "31", "1.0",
	"12", "1.0", "22", "1.0", "32", "1.0",
	"13", "1.0", "23", "1.0", "33", "1.0",
	"0", "ENDSEC", "0", "EOF",
}, "\n") + "\n"

func TestReadDXF(t *testing.T) {
	mesh, err := ReadDXF(strings.NewReader(dxfQuadAndTriangle))
	if err != nil {
		t.Fatalf("ReadDXF: %v", err)
	}
	if len(mesh.Faces) != 2 {
		t.Fatalf("faces = %d, want 2", len(mesh.Faces))
	}
	if n := len(mesh.Faces[0].Indices); n != 4 {
		t.Errorf("first face has %d corners, want 4", n)
	}
	if n := len(mesh.Faces[1].Indices); n != 3 {
		t.Errorf("second face has %d corners, want 3 (repeated corner dropped)", n)
	}
}

func TestReadDXFErrors(t *testing.T) {
	if _, err := ReadDXF(strings.NewReader("0\nEOF\n")); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("empty DXF err = %v, want ErrNoGeometry", err)
	}
	bad := strings.Replace(dxfQuadAndTriangle, "0.0\n20", "zero\n20", 1)
	if _, err := ReadDXF(strings.NewReader(bad)); err == nil {
		t.Error("bad coordinate accepted")
	}
}

func TestMeshDropsDegenerateFaces(t *testing.T) {
	m := NewMesh()
	testCases := []struct {
		name string
		pts  []mgl64.Vec3
		want bool
	}{
		{"triangle", []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, true},
		{"two points", []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}}, false},
		{"collinear", []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {2, 0, 0}}, false},
		{"repeated corner", []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {1, 0, 0}}, false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := m.AddFace(testColor, tc.pts...); got != tc.want {
				t.Errorf("AddFace = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFileLoader(t *testing.T) {
	dir := t.TempDir()
	plyPath := filepath.Join(dir, "quad.ply")
	if err := os.WriteFile(plyPath, []byte(plyFaceColours), 0o644); err != nil {
		t.Fatal(err)
	}
	dxfPath := filepath.Join(dir, "faces.DXF")
	if err := os.WriteFile(dxfPath, []byte(dxfQuadAndTriangle), 0o644); err != nil {
		t.Fatal(err)
	}

	testCases := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "ply", path: plyPath},
		{name: "dxf upper-case extension", path: dxfPath},
		{name: "builtin box", path: "builtin:box"},
		{name: "builtin sphere", path: "builtin:sphere"},
		{name: "unknown builtin", path: "builtin:teapot", wantErr: ErrUnsupportedFormat},
		{name: "unknown extension", path: filepath.Join(dir, "model.obj"), wantErr: ErrUnsupportedFormat},
		{name: "missing file", path: filepath.Join(dir, "missing.ply"), wantErr: os.ErrNotExist},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, err := FileLoader{}.Load(context.Background(), tc.path)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("err = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if _, _, ok := SubtreeBounds(n); !ok {
				t.Error("loaded node has no geometry")
			}
		})
	}
}

func TestFileLoaderHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (FileLoader{}).Load(ctx, "builtin:box"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNewAssetNode(t *testing.T) {
	content := NewNode("content")
	content.Mesh = NewBox(2, 4, 2, testColor)
	content.Mesh.Translate(mgl64.Vec3{10, 2, 0})

	asset, err := NewAssetNode(AssetSpec{Path: "models/box.ply"}, content, true, 1)
	if err != nil {
		t.Fatalf("NewAssetNode: %v", err)
	}
	if asset.Asset != "models/box.ply" || content.Parent() != asset {
		t.Fatalf("asset node not wrapping content: %+v", asset)
	}

	min, max, _ := SubtreeBounds(asset)
	mid := min.Add(max).Mul(0.5)
	if !vecAlmostEqual(mid, mgl64.Vec3{}) {
		t.Errorf("centre = %v, want origin", mid)
	}
	if size := max.Sub(min); !almostEqual(size.Y(), 1) || !almostEqual(size.X(), 0.5) {
		t.Errorf("size = %v, want largest extent 1", size)
	}

	if _, err := NewAssetNode(AssetSpec{Path: "empty"}, NewNode("empty"), true, 0); !errors.Is(err, ErrNoGeometry) {
		t.Errorf("err = %v, want ErrNoGeometry", err)
	}
}
