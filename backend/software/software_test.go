package software

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/agiangrant/facet/backend"
	"github.com/agiangrant/facet/geom"
	"github.com/agiangrant/facet/paint"
)

func pixelAt(s *backend.Surface, x, y int) geom.Color {
	i := (y*s.W + x) * 4
	return geom.RGBA(s.Pix[i], s.Pix[i+1], s.Pix[i+2], s.Pix[i+3])
}

func render(t *testing.T, w, h int, build func(p *paint.Painter)) *backend.Surface {
	t.Helper()
	p := paint.NewPainter(geom.Rect{W: float64(w), H: float64(h)})
	build(p)
	list, err := p.Finish()
	if err != nil {
		t.Fatalf("finish: %v", err)
	}
	dst := backend.NewSurface(w, h)
	if err := New(nil).Present(list, dst); err != nil {
		t.Fatalf("present: %v", err)
	}
	return dst
}

func TestFill(t *testing.T) {
	tests := []struct {
		name     string
		build    func(p *paint.Painter)
		validate func(t *testing.T, s *backend.Surface)
	}{
		{
			name: "opaque rect covers its pixels and nothing else",
			build: func(p *paint.Painter) {
				p.FillRect(geom.Rect{X: 2, Y: 2, W: 4, H: 4}, geom.RGB(255, 0, 0), 0)
			},
			validate: func(t *testing.T, s *backend.Surface) {
				if got := pixelAt(s, 2, 2); got != geom.RGB(255, 0, 0) {
					t.Fatalf("inside pixel = %v", got)
				}
				if got := pixelAt(s, 5, 5); got != geom.RGB(255, 0, 0) {
					t.Fatalf("far corner inside = %v", got)
				}
				if got := pixelAt(s, 6, 6); got.A != 0 {
					t.Fatalf("outside pixel painted: %v", got)
				}
				if got := pixelAt(s, 1, 2); got.A != 0 {
					t.Fatalf("left of rect painted: %v", got)
				}
			},
		},
		{
			name: "fractional geometry snaps to whole pixels",
			build: func(p *paint.Painter) {
				p.FillRect(geom.Rect{X: 1.6, Y: 1.6, W: 3.0, H: 3.0}, geom.RGB(0, 255, 0), 0)
			},
			validate: func(t *testing.T, s *backend.Surface) {
				// rounds to [2,5)x[2,5)
				if got := pixelAt(s, 2, 2); got != geom.RGB(0, 255, 0) {
					t.Fatalf("snapped min pixel = %v", got)
				}
				if got := pixelAt(s, 4, 4); got != geom.RGB(0, 255, 0) {
					t.Fatalf("snapped max pixel = %v", got)
				}
				if got := pixelAt(s, 5, 5); got.A != 0 {
					t.Fatalf("pixel beyond snapped edge painted: %v", got)
				}
			},
		},
		{
			name: "rounded corners leave the corner pixel empty",
			build: func(p *paint.Painter) {
				p.FillRect(geom.Rect{X: 0, Y: 0, W: 16, H: 16}, geom.RGB(0, 0, 255), 6)
			},
			validate: func(t *testing.T, s *backend.Surface) {
				if got := pixelAt(s, 0, 0); got.A != 0 {
					t.Fatalf("corner pixel painted: %v", got)
				}
				if got := pixelAt(s, 8, 0); got != geom.RGB(0, 0, 255) {
					t.Fatalf("top edge midpoint = %v", got)
				}
				if got := pixelAt(s, 8, 8); got != geom.RGB(0, 0, 255) {
					t.Fatalf("center = %v", got)
				}
			},
		},
		{
			name: "later command overpaints earlier",
			build: func(p *paint.Painter) {
				p.FillRect(geom.Rect{W: 8, H: 8}, geom.RGB(10, 10, 10), 0)
				p.FillRect(geom.Rect{W: 8, H: 8}, geom.RGB(200, 200, 200), 0)
			},
			validate: func(t *testing.T, s *backend.Surface) {
				if got := pixelAt(s, 3, 3); got != geom.RGB(200, 200, 200) {
					t.Fatalf("top command did not win: %v", got)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, render(t, 16, 16, tt.build))
		})
	}
}

func TestBlendPixel(t *testing.T) {
	tests := []struct {
		name string
		dst  [4]uint8
		src  geom.Color
		want [4]uint8
	}{
		{"opaque replaces", [4]uint8{10, 20, 30, 255}, geom.RGB(100, 110, 120), [4]uint8{100, 110, 120, 255}},
		{"transparent is a no-op", [4]uint8{10, 20, 30, 255}, geom.RGBA(1, 2, 3, 0), [4]uint8{10, 20, 30, 255}},
		{"half alpha over opaque", [4]uint8{0, 0, 0, 255}, geom.RGBA(255, 255, 255, 128), [4]uint8{128, 128, 128, 255}},
		{"half alpha over empty", [4]uint8{0, 0, 0, 0}, geom.RGBA(200, 100, 50, 128), [4]uint8{200, 100, 50, 128}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pix := append([]uint8(nil), tt.dst[:]...)
			BlendPixel(pix, 0, tt.src)
			if !bytes.Equal(pix, tt.want[:]) {
				t.Fatalf("got %v, want %v", pix, tt.want)
			}
		})
	}
}

func TestStrokeLeavesInteriorEmpty(t *testing.T) {
	s := render(t, 16, 16, func(p *paint.Painter) {
		p.StrokeRect(geom.Rect{X: 2, Y: 2, W: 12, H: 12}, geom.RGB(255, 255, 255), 2)
	})
	if got := pixelAt(s, 2, 2); got != geom.RGB(255, 255, 255) {
		t.Fatalf("edge pixel = %v", got)
	}
	if got := pixelAt(s, 3, 8); got != geom.RGB(255, 255, 255) {
		t.Fatalf("left band pixel = %v", got)
	}
	if got := pixelAt(s, 8, 8); got.A != 0 {
		t.Fatalf("interior painted: %v", got)
	}
}

func TestClipRestricts(t *testing.T) {
	s := render(t, 16, 16, func(p *paint.Painter) {
		p.PushClip(geom.Rect{X: 4, Y: 4, W: 4, H: 4})
		p.FillRect(geom.Rect{W: 16, H: 16}, geom.RGB(255, 0, 0), 0)
		p.PopClip()
		p.FillRect(geom.Rect{X: 12, Y: 12, W: 2, H: 2}, geom.RGB(0, 255, 0), 0)
	})
	if got := pixelAt(s, 5, 5); got != geom.RGB(255, 0, 0) {
		t.Fatalf("inside clip = %v", got)
	}
	if got := pixelAt(s, 9, 9); got.A != 0 {
		t.Fatalf("outside clip painted: %v", got)
	}
	if got := pixelAt(s, 12, 12); got != geom.RGB(0, 255, 0) {
		t.Fatalf("post-pop fill = %v", got)
	}
}

func TestTextMarksPixels(t *testing.T) {
	s := render(t, 64, 24, func(p *paint.Painter) {
		p.DrawText(geom.Rect{X: 2, Y: 2, W: 60, H: 20}, "Hi", geom.RGB(0, 0, 0), 14, 400)
	})
	painted := 0
	for i := 3; i < len(s.Pix); i += 4 {
		if s.Pix[i] != 0 {
			painted++
		}
	}
	if painted == 0 {
		t.Fatal("text drew no pixels")
	}
}

func TestImageScalesIntoRect(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 120, G: 60, B: 30, A: 255})
		}
	}
	s := render(t, 16, 16, func(p *paint.Painter) {
		p.DrawImage(geom.Rect{X: 4, Y: 4, W: 8, H: 8}, img)
	})
	if got := pixelAt(s, 8, 8); got.A == 0 {
		t.Fatal("image target center not painted")
	}
	if got := pixelAt(s, 1, 1); got.A != 0 {
		t.Fatalf("pixel outside image target painted: %v", got)
	}
}

func TestPresentDeterministic(t *testing.T) {
	build := func(p *paint.Painter) {
		p.FillRect(geom.Rect{W: 32, H: 32}, geom.RGB(30, 30, 30), 0)
		p.FillRect(geom.Rect{X: 3.4, Y: 5.6, W: 20, H: 10}, geom.RGBA(200, 100, 50, 180), 4)
		p.StrokeRect(geom.Rect{X: 1, Y: 1, W: 30, H: 30}, geom.RGB(255, 255, 255), 1)
	}
	a := render(t, 32, 32, build)
	b := render(t, 32, 32, build)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Fatal("identical lists produced different pixels")
	}
}
