package portrait

import (
	"image"
	"image/color"
	"math/rand"
	"testing"
)

func filledRGBA(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestAnalyzeBlankImage(t *testing.T) {
	white := filledRGBA(100, 200, color.RGBA{255, 255, 255, 255})
	transparent := image.NewNRGBA(image.Rect(0, 0, 100, 200))

	tests := []struct {
		name string
		img  image.Image
	}{
		{"All white RGB", white},
		{"Fully transparent RGBA", transparent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := NewMask(tt.img).Bounds(); ok {
				t.Fatal("Expected no content")
			}
			a := Analyze(tt.img)
			if a.CenterX != 50 || a.CenterY != 100 {
				t.Errorf("Expected center (50, 100), got (%d, %d)", a.CenterX, a.CenterY)
			}
			if a.ContentHeight != 200 {
				t.Errorf("Expected content height 200, got %d", a.ContentHeight)
			}
			if a.Width != 100 || a.Height != 200 {
				t.Errorf("Expected 100x200, got %dx%d", a.Width, a.Height)
			}
		})
	}
}

func TestMaskBounds(t *testing.T) {
	// Opaque block on a transparent canvas
	img := image.NewNRGBA(image.Rect(0, 0, 40, 60))
	for y := 10; y <= 19; y++ {
		for x := 5; x <= 14; x++ {
			img.SetNRGBA(x, y, color.NRGBA{200, 10, 10, 255})
		}
	}
	// Faint pixel below the alpha threshold must be ignored
	img.SetNRGBA(39, 59, color.NRGBA{0, 0, 0, 30})

	c, ok := NewMask(img).Bounds()
	if !ok {
		t.Fatal("Expected content")
	}
	want := ContentBounds{RowMin: 10, RowMax: 19, ColMin: 5, ColMax: 14}
	if c != want {
		t.Errorf("Expected %+v, got %+v", want, c)
	}
	if c.Height() != 10 || c.Width() != 10 {
		t.Errorf("Expected 10x10 content, got %dx%d", c.Width(), c.Height())
	}
}

func TestMaskRGBUsesBrightness(t *testing.T) {
	img := filledRGBA(20, 20, color.RGBA{255, 255, 255, 255})
	// mean 250 is still background, mean 249 is foreground
	img.SetRGBA(2, 3, color.RGBA{250, 250, 250, 255})
	img.SetRGBA(7, 8, color.RGBA{249, 249, 249, 255})

	m := NewMask(img)
	if m.At(2, 3) {
		t.Error("Pixel with mean 250 should be background")
	}
	if !m.At(7, 8) {
		t.Error("Pixel with mean 249 should be foreground")
	}

	gray := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range gray.Pix {
		gray.Pix[i] = 255
	}
	gray.SetGray(1, 2, color.Gray{Y: 10})
	c, ok := NewMask(gray).Bounds()
	if !ok || c != (ContentBounds{RowMin: 2, RowMax: 2, ColMin: 1, ColMax: 1}) {
		t.Errorf("Unexpected gray bounds %+v (ok=%v)", c, ok)
	}
}

func TestHasAlpha(t *testing.T) {
	opaque := filledRGBA(2, 2, color.RGBA{1, 2, 3, 255})
	translucent := filledRGBA(2, 2, color.RGBA{1, 2, 3, 255})
	translucent.SetRGBA(0, 0, color.RGBA{})

	tests := []struct {
		name string
		img  image.Image
		want bool
	}{
		{"NRGBA", image.NewNRGBA(image.Rect(0, 0, 1, 1)), true},
		{"Opaque RGBA", opaque, false},
		{"Translucent RGBA", translucent, true},
		{"Gray", image.NewGray(image.Rect(0, 0, 1, 1)), false},
		{"YCbCr", image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio420), false},
	}
	for _, tt := range tests {
		if got := HasAlpha(tt.img); got != tt.want {
			t.Errorf("HasAlpha(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestEstimateFace(t *testing.T) {
	t.Run("Centroid of face band", func(t *testing.T) {
		m := &Mask{Width: 10, Height: 100, fg: make([]bool, 1000)}
		for y := 0; y < 100; y++ {
			for x := 0; x < 10; x++ {
				m.Set(x, y, true)
			}
		}
		c, _ := m.Bounds()
		// band = rows [15, 35); mean row offset 9.5, mean col 4.5
		got := EstimateFace(m, c)
		if got != (FaceEstimate{CenterX: 4, CenterY: 24}) {
			t.Errorf("Expected (4, 24), got %+v", got)
		}
	})

	t.Run("Centroid follows the band content", func(t *testing.T) {
		m := &Mask{Width: 50, Height: 100, fg: make([]bool, 5000)}
		// figure spans rows 0..99 at column 0, head is a blob at columns 30..39
		for y := 0; y < 100; y++ {
			m.Set(0, y, true)
		}
		for y := 20; y < 30; y++ {
			for x := 30; x < 40; x++ {
				m.Set(x, y, true)
			}
		}
		c, _ := m.Bounds()
		got := EstimateFace(m, c)
		if got.CenterY < 15 || got.CenterY >= 35 {
			t.Errorf("Expected center row inside the band, got %d", got.CenterY)
		}
		if got.CenterX < 25 {
			t.Errorf("Expected center column pulled toward the head blob, got %d", got.CenterX)
		}
	})

	t.Run("Degenerate short content", func(t *testing.T) {
		m := &Mask{Width: 20, Height: 20, fg: make([]bool, 400)}
		m.Set(4, 7, true)
		m.Set(10, 8, true)
		c, _ := m.Bounds()
		// height 2: start = 7 + 0, end = 7 + 0
		got := EstimateFace(m, c)
		if got != (FaceEstimate{CenterX: 7, CenterY: 7}) {
			t.Errorf("Expected (7, 7), got %+v", got)
		}
	})

	t.Run("Empty face band", func(t *testing.T) {
		m := &Mask{Width: 10, Height: 100, fg: make([]bool, 1000)}
		m.Set(0, 0, true)
		m.Set(9, 99, true)
		c, _ := m.Bounds()
		got := EstimateFace(m, c)
		// band midpoint (15+35)/2 = 25, column midpoint (0+9)/2 = 4
		if got != (FaceEstimate{CenterX: 4, CenterY: 25}) {
			t.Errorf("Expected (4, 25), got %+v", got)
		}
	})
}

func TestAnalyzeStaysInsideImage(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		w, h := 1+rng.Intn(40), 1+rng.Intn(40)
		img := image.NewNRGBA(image.Rect(0, 0, w, h))
		density := rng.Float64()
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if rng.Float64() < density*0.2 {
					img.SetNRGBA(x, y, color.NRGBA{0, 0, 0, uint8(rng.Intn(256))})
				}
			}
		}

		m := NewMask(img)
		if c, ok := m.Bounds(); ok {
			if c.RowMin > c.RowMax || c.RowMax >= h || c.ColMin > c.ColMax || c.ColMax >= w {
				t.Fatalf("Bounds %+v out of range for %dx%d", c, w, h)
			}
		}

		a := Analyze(img)
		if a.CenterX < 0 || a.CenterX >= w || a.CenterY < 0 || a.CenterY >= h {
			t.Fatalf("Center (%d, %d) outside %dx%d image", a.CenterX, a.CenterY, w, h)
		}
	}
}

func TestAnalyzeHonorsImageOrigin(t *testing.T) {
	full := filledRGBA(30, 30, color.RGBA{255, 255, 255, 255})
	for y := 10; y < 30; y++ {
		for x := 10; x < 30; x++ {
			full.SetRGBA(x, y, color.RGBA{0, 0, 0, 255})
		}
	}
	sub := full.SubImage(image.Rect(10, 10, 30, 30))

	a := Analyze(sub)
	if a.Width != 20 || a.Height != 20 || a.ContentHeight != 20 {
		t.Fatalf("Unexpected analysis %+v", a)
	}
	if a.CenterX >= 20 || a.CenterY >= 20 {
		t.Errorf("Center (%d, %d) not relative to sub-image origin", a.CenterX, a.CenterY)
	}
}
