// Package fontcache parses the bundled typefaces once and caches
// font.Face instances per size and weight. Layout uses it for text
// measurement and the software backend for glyph rasterization, so
// both agree on metrics exactly.
package fontcache

import (
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/agiangrant/facet/geom"
)

// boldThreshold is the CSS weight at which the bold face is selected.
const boldThreshold = 600

var (
	parseOnce sync.Once
	regular   *sfnt.Font
	bold      *sfnt.Font

	mu    sync.Mutex
	faces = map[faceKey]font.Face{}
)

type faceKey struct {
	size   float64
	isBold bool
}

func load() {
	parseOnce.Do(func() {
		var err error
		regular, err = opentype.Parse(goregular.TTF)
		if err != nil {
			panic("fontcache: bundled regular face is invalid: " + err.Error())
		}
		bold, err = opentype.Parse(gobold.TTF)
		if err != nil {
			panic("fontcache: bundled bold face is invalid: " + err.Error())
		}
	})
}

// Face returns a cached face for the given pixel size and CSS weight.
func Face(size float64, weight int) font.Face {
	load()
	if size <= 0 {
		size = 14
	}
	key := faceKey{size: size, isBold: weight >= boldThreshold}
	mu.Lock()
	defer mu.Unlock()
	if f, ok := faces[key]; ok {
		return f
	}
	src := regular
	if key.isBold {
		src = bold
	}
	f, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		// FaceOptions above are always valid for the bundled fonts.
		panic("fontcache: face creation failed: " + err.Error())
	}
	faces[key] = f
	return f
}

// Measure returns the pixel box of a single-line text run.
func Measure(text string, size float64, weight int) geom.Size {
	if text == "" {
		return geom.Size{}
	}
	face := Face(size, weight)
	adv := font.MeasureString(face, text)
	m := face.Metrics()
	return geom.Size{
		W: fixedToFloat(adv),
		H: fixedToFloat(m.Height),
	}
}

// Ascent returns the baseline offset from the top of the line box.
func Ascent(size float64, weight int) float64 {
	return fixedToFloat(Face(size, weight).Metrics().Ascent)
}

func fixedToFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
