package plot

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestMovingAverage(t *testing.T) {
	data := []int{2, 4, 6, 8}
	want := []float64{2, 3, 5, 7}

	have := MovingAverage(data, 2)
	for i := range want {
		if have[i] != want[i] {
			t.Errorf("average %d: want(%v) have(%v)", i, want[i], have[i])
		}
	}

	have = MovingAverage(data, 10)
	for i, w := range []float64{2, 3, 4, 5} {
		if have[i] != w {
			t.Errorf("partial average %d: want(%v) have(%v)", i, w, have[i])
		}
	}
}

func TestLearningCurve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "curve.html")
	if err := LearningCurve(path, []int{1000, 800, 350, 200}); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Learning curve") {
		t.Errorf("chart does not contain its title")
	}

	if err := LearningCurve(path, nil); err == nil {
		t.Errorf("want error for an empty curve")
	}
}

func TestLandscape(t *testing.T) {
	path := filepath.Join(t.TempDir(), "landscape.png")
	if err := Landscape(path, []float64{-0.5, -0.7, -0.2, 0.3, 0.55}); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != width || b.Dy() != height {
		t.Errorf("image size: want(%dx%d) have(%v)", width, height, b)
	}

	if err := Landscape(path, []float64{2}); err == nil {
		t.Errorf("want error for a position out of bounds")
	}
}
