package wordcloud

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Measurer reports the unrotated extent of text set at the given pixel size.
type Measurer interface {
	Measure(text string, size float64) (width, height float64)
}

// GoRegular measures with the Go Regular face, which the rendered SVG also asks for
// first in its font-family list.
type GoRegular struct {
	once  sync.Once
	font  *opentype.Font
	err   error
	mu    sync.Mutex
	faces map[int]font.Face
}

var defaultMeasurer = &GoRegular{}

func (g *GoRegular) load() {
	g.font, g.err = opentype.Parse(goregular.TTF)
	g.faces = make(map[int]font.Face)
}

// face sizes are cached at quarter-pixel resolution
func (g *GoRegular) face(size float64) (font.Face, error) {
	g.once.Do(g.load)
	if g.err != nil {
		return nil, g.err
	}

	key := int(math.Round(size * 4))
	g.mu.Lock()
	defer g.mu.Unlock()
	if f, ok := g.faces[key]; ok {
		return f, nil
	}
	f, err := opentype.NewFace(g.font, &opentype.FaceOptions{
		Size:    float64(key) / 4,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("wordcloud: face size %v: %w", size, err)
	}
	g.faces[key] = f
	return f, nil
}

func (g *GoRegular) Measure(text string, size float64) (float64, float64) {
	face, err := g.face(size)
	if err != nil {
		// rough sans-serif proportions
		return 0.6 * size * float64(len([]rune(text))), size
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	advance := font.MeasureString(face, text)
	m := face.Metrics()
	return float64(advance) / 64, float64(m.Ascent+m.Descent) / 64
}
