// Package wordcloud packs weighted keywords into a bounded canvas.
//
// Font sizes follow a square-root scale of the keyword weight, every word is set
// either horizontally or vertically, and words are placed along an archimedean
// spiral until they no longer overlap anything already placed. Words that cannot be
// placed are dropped. The layout is deterministic for a given seed.
package wordcloud

import (
	"math"
	"math/rand"
	"sort"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
)

type Options struct {
	Width   float64
	Height  float64
	MinFont float64
	MaxFont float64
	Padding float64
	Seed    int64

	// Measurer defaults to the Go Regular face.
	Measurer Measurer
}

func DefaultOptions() Options {
	return Options{
		Width:   600,
		Height:  300,
		MinFont: 12,
		MaxFont: 48,
		Padding: 5,
		Seed:    1,
	}
}

type Placement struct {
	Text     string  `json:"text"`
	Value    float64 `json:"value"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	FontSize float64 `json:"fontSize"`
	Rotate   int     `json:"rotate"`
	// Width and Height are the occupied box after rotation, without padding.
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (p Placement) bounds(pad float64) rect {
	return rect{
		x0: p.X - p.Width/2 - pad,
		y0: p.Y - p.Height/2 - pad,
		x1: p.X + p.Width/2 + pad,
		y1: p.Y + p.Height/2 + pad,
	}
}

type rect struct {
	x0, y0, x1, y1 float64
}

func (r rect) intersects(o rect) bool {
	return r.x0 < o.x1 && o.x0 < r.x1 && r.y0 < o.y1 && o.y0 < r.y1
}

// FontSizes maps each weight through a square-root scale onto [minFont, maxFont].
// When every weight is equal all words get the middle of the range.
func FontSizes(items []llm.KeywordItem, minFont, maxFont float64) []float64 {
	sizes := make([]float64, len(items))
	if len(items) == 0 {
		return sizes
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, it := range items {
		v := math.Sqrt(math.Max(it.Value, 0))
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	for i, it := range items {
		t := 0.5
		if hi > lo {
			t = (math.Sqrt(math.Max(it.Value, 0)) - lo) / (hi - lo)
		}
		sizes[i] = minFont + t*(maxFont-minFont)
	}
	return sizes
}

func Layout(items []llm.KeywordItem, opts Options) []Placement {
	if len(items) == 0 || opts.Width <= 0 || opts.Height <= 0 {
		return nil
	}
	measurer := opts.Measurer
	if measurer == nil {
		measurer = defaultMeasurer
	}

	sizes := FontSizes(items, opts.MinFont, opts.MaxFont)
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return sizes[order[a]] > sizes[order[b]] })

	rng := rand.New(rand.NewSource(opts.Seed))
	placed := make([]Placement, 0, len(items))

	for _, idx := range order {
		it := items[idx]
		p := Placement{
			Text:     it.Text,
			Value:    it.Value,
			FontSize: sizes[idx],
		}
		if rng.Float64() > 0.5 {
			p.Rotate = 0
		} else {
			p.Rotate = 90
		}

		w, h := measurer.Measure(it.Text, p.FontSize)
		if p.Rotate == 90 {
			w, h = h, w
		}
		p.Width, p.Height = w, h

		startX := opts.Width * (rng.Float64() + 0.5) / 2
		startY := opts.Height * (rng.Float64() + 0.5) / 2
		dt := 1.0
		if rng.Float64() < 0.5 {
			dt = -1
		}

		if place(&p, placed, startX, startY, dt, opts) {
			placed = append(placed, p)
		}
	}
	return placed
}

// place walks the spiral from (startX, startY) and stops at the first position where
// the padded box fits inside the canvas without touching a placed word.
func place(p *Placement, placed []Placement, startX, startY, dt float64, opts Options) bool {
	if p.Width+2*opts.Padding > opts.Width || p.Height+2*opts.Padding > opts.Height {
		return false
	}

	aspect := opts.Width / opts.Height
	maxDelta := math.Hypot(opts.Width, opts.Height)

	for t := 0.0; ; t += dt {
		s := math.Abs(t) * 0.1
		if s > maxDelta {
			return false
		}
		theta := t * 0.1
		p.X = startX + aspect*s*math.Cos(theta)
		p.Y = startY + s*math.Sin(theta)

		box := p.bounds(opts.Padding)
		if box.x0 < 0 || box.y0 < 0 || box.x1 > opts.Width || box.y1 > opts.Height {
			continue
		}
		if collides(box, placed) {
			continue
		}
		return true
	}
}

func collides(box rect, placed []Placement) bool {
	for _, other := range placed {
		if box.intersects(other.bounds(0)) {
			return true
		}
	}
	return false
}
