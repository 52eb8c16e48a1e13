package wordcloud

import (
	"math"
	"testing"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type boxMeasurer struct{}

func (boxMeasurer) Measure(text string, size float64) (float64, float64) {
	return 0.6 * size * float64(len([]rune(text))), size
}

func keywords() []llm.KeywordItem {
	return []llm.KeywordItem{
		{Text: "easy to use", Value: 25},
		{Text: "great", Value: 16},
		{Text: "support", Value: 9},
		{Text: "fast", Value: 4},
		{Text: "design", Value: 4},
		{Text: "helpful", Value: 1},
		{Text: "clean", Value: 1},
		{Text: "update", Value: 0},
	}
}

func TestFontSizes_SquareRootScale(t *testing.T) {
	t.Parallel()

	items := []llm.KeywordItem{{Text: "a", Value: 0}, {Text: "b", Value: 4}, {Text: "c", Value: 16}, {Text: "d", Value: 64}}
	sizes := FontSizes(items, 12, 48)

	// sqrt weights are 0, 2, 4, 8 so sizes step linearly in sqrt space
	assert.InDelta(t, 12, sizes[0], 1e-9)
	assert.InDelta(t, 12+36*2.0/8, sizes[1], 1e-9)
	assert.InDelta(t, 12+36*4.0/8, sizes[2], 1e-9)
	assert.InDelta(t, 48, sizes[3], 1e-9)
	for i := 1; i < len(sizes); i++ {
		assert.Greater(t, sizes[i], sizes[i-1])
	}
}

func TestFontSizes_EqualWeightsUseMidpoint(t *testing.T) {
	t.Parallel()

	sizes := FontSizes([]llm.KeywordItem{{Text: "a", Value: 3}, {Text: "b", Value: 3}}, 12, 48)
	assert.Equal(t, []float64{30, 30}, sizes)
	assert.Empty(t, FontSizes(nil, 12, 48))
}

func TestLayout_NoOverlapInsideCanvas(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Measurer = boxMeasurer{}
	placed := Layout(keywords(), opts)
	require.NotEmpty(t, placed)

	seen := map[string]bool{}
	for i, p := range placed {
		assert.False(t, seen[p.Text], "duplicate %q", p.Text)
		seen[p.Text] = true

		assert.Greater(t, p.FontSize, 0.0)
		assert.Contains(t, []int{0, 90}, p.Rotate)
		if p.Rotate == 90 {
			assert.InDelta(t, p.FontSize, p.Width, 1e-9)
		} else {
			assert.InDelta(t, p.FontSize, p.Height, 1e-9)
		}

		b := p.bounds(0)
		assert.GreaterOrEqual(t, b.x0, 0.0)
		assert.GreaterOrEqual(t, b.y0, 0.0)
		assert.LessOrEqual(t, b.x1, opts.Width)
		assert.LessOrEqual(t, b.y1, opts.Height)

		for j := 0; j < i; j++ {
			assert.False(t, b.intersects(placed[j].bounds(0)), "%q overlaps %q", p.Text, placed[j].Text)
		}
	}

	// placed largest first
	for i := 1; i < len(placed); i++ {
		assert.GreaterOrEqual(t, placed[i-1].FontSize, placed[i].FontSize)
	}
}

func TestLayout_DeterministicForSeed(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Measurer = boxMeasurer{}
	a := Layout(keywords(), opts)
	b := Layout(keywords(), opts)
	assert.Equal(t, a, b)

	opts.Seed = 42
	c := Layout(keywords(), opts)
	assert.NotEqual(t, a, c)
}

func TestLayout_DropsWordsThatCannotFit(t *testing.T) {
	t.Parallel()

	opts := DefaultOptions()
	opts.Measurer = boxMeasurer{}
	opts.Width, opts.Height = 40, 40

	placed := Layout([]llm.KeywordItem{{Text: "a very long phrase that cannot fit", Value: 1}}, opts)
	assert.Empty(t, placed)
	assert.Nil(t, Layout(nil, DefaultOptions()))
}

func TestGoRegular_Measure(t *testing.T) {
	t.Parallel()

	m := &GoRegular{}
	w12, h12 := m.Measure("slow", 12)
	w24, h24 := m.Measure("slow", 24)
	assert.Greater(t, w12, 0.0)
	assert.Greater(t, h12, 0.0)
	assert.InDelta(t, 2, w24/w12, 0.2)
	assert.InDelta(t, 2, h24/h12, 0.2)

	wide, _ := m.Measure("slow to load", 12)
	assert.Greater(t, wide, w12)
	assert.False(t, math.IsNaN(wide))
}
