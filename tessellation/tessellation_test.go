package tessellation

import (
	"errors"
	"math"
	"testing"

	"github.com/gogpu/valora"
)

// checkMesh fails the test if t violates the Tessellation invariants.
func checkMesh(t *testing.T, tess Tessellation) {
	t.Helper()
	if len(tess.Vertices) == 0 {
		t.Fatal("no vertices")
	}
	if err := tess.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
}

func square() valora.Polygon {
	return valora.Polygon{valora.Pt(0.25, 0.25), valora.Pt(0.75, 0.25), valora.Pt(0.75, 0.75), valora.Pt(0.25, 0.75)}
}

// lShape is a concave hexagon.
func lShape() valora.Polygon {
	return valora.Polygon{
		valora.Pt(0, 0), valora.Pt(2, 0), valora.Pt(2, 1),
		valora.Pt(1, 1), valora.Pt(1, 2), valora.Pt(0, 2),
	}
}

// triangleArea sums the unsigned area of every triangle in the mesh.
func triangleArea(tess Tessellation) float64 {
	var total float64
	for i := 0; i < len(tess.Indices); i += 3 {
		a := tess.Vertices[tess.Indices[i]].Position
		b := tess.Vertices[tess.Indices[i+1]].Position
		c := tess.Vertices[tess.Indices[i+2]].Position
		cross := float64(b[0]-a[0])*float64(c[1]-a[1]) - float64(b[1]-a[1])*float64(c[0]-a[0])
		total += math.Abs(cross) / 2
	}
	return total
}

func TestFillPolygon(t *testing.T) {
	tests := []struct {
		name     string
		poly     valora.Polygon
		wantTris int
		wantArea float64
	}{
		{"triangle", valora.Polygon{valora.Pt(0, 0), valora.Pt(1, 0), valora.Pt(0, 1)}, 1, 0.5},
		{"square", square(), 2, 0.25},
		{"square reversed", valora.Polygon{valora.Pt(0.25, 0.75), valora.Pt(0.75, 0.75), valora.Pt(0.75, 0.25), valora.Pt(0.25, 0.25)}, 2, 0.25},
		{"concave L", lShape(), 4, 3},
		{"closed duplicate", append(square(), valora.Pt(0.25, 0.25)), 2, 0.25},
		{"hexagon", valora.RegularPolygon(valora.Pt(0.5, 0.5), 0.5, 6, 0), 4, 3 * math.Sqrt(3) / 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tess, err := FillPolygon(tt.poly, valora.Solid(valora.Red))
			if err != nil {
				t.Fatalf("FillPolygon() error = %v", err)
			}
			checkMesh(t, tess)
			if got := tess.TriangleCount(); got != tt.wantTris {
				t.Errorf("triangles: got %d, want %d", got, tt.wantTris)
			}
			if got := triangleArea(tess); math.Abs(got-tt.wantArea) > 1e-5 {
				t.Errorf("area: got %v, want %v", got, tt.wantArea)
			}
		})
	}
}

func TestFillPolygon_Errors(t *testing.T) {
	tests := []struct {
		name string
		poly valora.Polygon
		want error
	}{
		{"empty", nil, ErrDegenerateShape},
		{"two points", valora.Polygon{valora.Pt(0, 0), valora.Pt(1, 1)}, ErrDegenerateShape},
		{"repeated point", valora.Polygon{valora.Pt(0, 0), valora.Pt(0, 0), valora.Pt(0, 0)}, ErrDegenerateShape},
		{"collinear", valora.Polygon{valora.Pt(0, 0), valora.Pt(0.5, 0.5), valora.Pt(1, 1)}, ErrDegenerateShape},
		{"bowtie", valora.Polygon{valora.Pt(0, 0), valora.Pt(1, 1), valora.Pt(1, 0), valora.Pt(0, 1)}, ErrTriangulation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FillPolygon(tt.poly, valora.Solid(valora.Red))
			if !errors.Is(err, tt.want) {
				t.Errorf("FillPolygon() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestFillPolygon_Normals(t *testing.T) {
	tess, err := FillPolygon(square(), nil)
	if err != nil {
		t.Fatal(err)
	}
	center := [2]float32{0.5, 0.5}
	for i, v := range tess.Vertices {
		n := tess.Normals[i]
		out := [2]float32{v.Position[0] - center[0], v.Position[1] - center[1]}
		if n[0]*out[0]+n[1]*out[1] <= 0 {
			t.Errorf("vertex %d normal %v does not point outward", i, n)
		}
	}
}

func TestVertexColorsFollowColorer(t *testing.T) {
	colorer := valora.ColorFunc(func(p valora.Point) valora.RGBA {
		return valora.RGB(p.X, p.Y, 0)
	})
	tess, err := FillPolygon(square(), colorer)
	if err != nil {
		t.Fatal(err)
	}
	for i, v := range tess.Vertices {
		if v.Color[0] != v.Position[0] || v.Color[1] != v.Position[1] || v.Color[3] != 1 {
			t.Errorf("vertex %d at %v has color %v", i, v.Position, v.Color)
		}
	}
}

func TestFillDispatch(t *testing.T) {
	tests := []struct {
		name  string
		shape any
	}{
		{"polygon", square()},
		{"rect", valora.Frame()},
		{"circle", valora.Circle(valora.Pt(0.5, 0.5), 0.25)},
		{"ellipse", valora.NewEllipse(valora.Pt(0.5, 0.5), 0.3, 0.1, 0.5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tess, err := Fill(tt.shape, valora.Solid(valora.White))
			if err != nil {
				t.Fatalf("Fill() error = %v", err)
			}
			checkMesh(t, tess)

			stroke, err := Stroke(tt.shape, 0.01, valora.Solid(valora.White))
			if err != nil {
				t.Fatalf("Stroke() error = %v", err)
			}
			checkMesh(t, stroke)
		})
	}

	if _, err := Fill(42, nil); !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("Fill(int) error = %v, want ErrUnsupportedShape", err)
	}
	if _, err := Stroke("x", 1, nil); !errors.Is(err, ErrUnsupportedShape) {
		t.Errorf("Stroke(string) error = %v, want ErrUnsupportedShape", err)
	}
}

func TestAppend(t *testing.T) {
	a, err := FillPolygon(square(), nil)
	if err != nil {
		t.Fatal(err)
	}
	b, err := FillEllipse(valora.Circle(valora.Pt(0.5, 0.5), 0.1), nil)
	if err != nil {
		t.Fatal(err)
	}
	merged := a.Clone()
	merged.Append(b)
	checkMesh(t, merged)
	if len(merged.Vertices) != len(a.Vertices)+len(b.Vertices) {
		t.Errorf("vertices: got %d, want %d", len(merged.Vertices), len(a.Vertices)+len(b.Vertices))
	}
	if merged.TriangleCount() != a.TriangleCount()+b.TriangleCount() {
		t.Errorf("triangles: got %d", merged.TriangleCount())
	}
	if len(a.Vertices) != 4 {
		t.Error("Append on a clone modified the original")
	}
}

func TestValidate(t *testing.T) {
	bad := Tessellation{
		Vertices: make([]Vertex, 3),
		Normals:  make([]Normal, 3),
		Indices:  []uint32{0, 1, 3},
	}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted an out of range index")
	}
	bad.Indices = []uint32{0, 1}
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted a partial triangle")
	}
	bad.Normals = bad.Normals[:2]
	if err := bad.Validate(); err == nil {
		t.Error("Validate() accepted mismatched normals")
	}
}

func TestBounds(t *testing.T) {
	tess, err := FillPolygon(square(), nil)
	if err != nil {
		t.Fatal(err)
	}
	got := tess.Bounds()
	want := valora.Rect{Min: valora.Pt(0.25, 0.25), Max: valora.Pt(0.75, 0.75)}
	if !got.Min.Equal(want.Min, 1e-6) || !got.Max.Equal(want.Max, 1e-6) {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}
}
