package view

import (
	"strconv"
	"strings"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
)

// Plot margins inside the chart's SVG box.
const (
	marginLeft   = 40
	marginRight  = 20
	marginTop    = 20
	marginBottom = 40

	// pointPadding is the outer padding of the categorical axis, in steps.
	pointPadding = 0.5
)

type TrendPoint struct {
	Period string
	Score  float64
	X, Y   float64
}

type Tick struct {
	Value int
	Y     float64
}

// TrendChart is a line chart of sentiment scores, one point per period label in
// input order. The y axis always spans the full score range.
type TrendChart struct {
	Width, Height float64
	Left, Right   float64
	Top, Bottom   float64
	Points        []TrendPoint
	Ticks         []Tick
	Path          string
}

func NewTrendChart(points []llm.SentimentPoint, width, height float64) TrendChart {
	c := TrendChart{
		Width:  width,
		Height: height,
		Left:   marginLeft,
		Right:  width - marginRight,
		Top:    marginTop,
		Bottom: height - marginBottom,
	}

	for v := int(llm.MinSentimentScore); v <= int(llm.MaxSentimentScore); v++ {
		c.Ticks = append(c.Ticks, Tick{Value: v, Y: c.scoreY(float64(v))})
	}

	if len(points) == 0 {
		return c
	}

	step := (c.Right - c.Left) / (float64(len(points)-1) + 2*pointPadding)
	var path strings.Builder
	for i, p := range points {
		tp := TrendPoint{
			Period: p.Period,
			Score:  p.SentimentScore,
			X:      c.Left + step*(pointPadding+float64(i)),
			Y:      c.scoreY(p.SentimentScore),
		}
		c.Points = append(c.Points, tp)

		if i == 0 {
			path.WriteByte('M')
		} else {
			path.WriteString(" L")
		}
		path.WriteString(formatCoord(tp.X))
		path.WriteByte(',')
		path.WriteString(formatCoord(tp.Y))
	}
	c.Path = path.String()
	return c
}

func (c TrendChart) scoreY(score float64) float64 {
	span := llm.MaxSentimentScore - llm.MinSentimentScore
	return c.Top + (llm.MaxSentimentScore-score)/span*(c.Bottom-c.Top)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
