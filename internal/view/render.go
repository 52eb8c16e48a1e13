// Package view renders dashboard snapshots as HTML.
//
// The full page is served once; afterwards the browser swaps in the "report" and
// "chat" fragments it receives over the websocket.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/dashboard"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/wordcloud"
)

//go:embed templates/*.html
var templateFS embed.FS

type Renderer struct {
	tmpl  *template.Template
	cloud wordcloud.Options
}

func NewRenderer(cloud wordcloud.Options) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl, cloud: cloud}, nil
}

type pageData struct {
	Snap   dashboard.Snapshot
	Report reportData
	Chat   chatData
}

type reportData struct {
	Loading    bool
	Thinking   bool
	Error      string
	AnalysisID string
	Result     *llm.AnalysisResult
	Trend      TrendChart
	Praises    cloudData
	Complaints cloudData
}

type cloudData struct {
	Title  string
	Class  string
	Width  float64
	Height float64
	Words  []wordcloud.Placement
}

type chatData struct {
	Ready      bool
	Open       bool
	Loading    bool
	Transcript []llm.ChatMessage
}

func (r *Renderer) Page(w io.Writer, snap dashboard.Snapshot) error {
	data := pageData{
		Snap:   snap,
		Report: r.report(snap),
		Chat:   chatFromSnapshot(snap),
	}
	return r.tmpl.ExecuteTemplate(w, "page.html", data)
}

func (r *Renderer) Report(w io.Writer, snap dashboard.Snapshot) error {
	return r.tmpl.ExecuteTemplate(w, "report", r.report(snap))
}

func (r *Renderer) Chat(w io.Writer, snap dashboard.Snapshot) error {
	return r.tmpl.ExecuteTemplate(w, "chat", chatFromSnapshot(snap))
}

// Fragments renders both swappable parts of the page for one snapshot.
func (r *Renderer) Fragments(snap dashboard.Snapshot) (report, chat string, err error) {
	var buf bytes.Buffer
	if err := r.Report(&buf, snap); err != nil {
		return "", "", fmt.Errorf("render report: %w", err)
	}
	report = buf.String()

	buf.Reset()
	if err := r.Chat(&buf, snap); err != nil {
		return "", "", fmt.Errorf("render chat: %w", err)
	}
	return report, buf.String(), nil
}

func (r *Renderer) report(snap dashboard.Snapshot) reportData {
	data := reportData{
		Loading:    snap.Loading,
		Thinking:   snap.Thinking,
		Error:      snap.Error,
		AnalysisID: snap.AnalysisID,
		Result:     snap.Result,
	}
	if snap.Result == nil {
		return data
	}

	data.Trend = NewTrendChart(snap.Result.SentimentTrend, r.cloud.Width, r.cloud.Height)
	data.Praises = r.layoutCloud("Praises", "praises", snap.Result.WordCloud.Praises, 0)
	data.Complaints = r.layoutCloud("Complaints", "complaints", snap.Result.WordCloud.Complaints, 1)
	return data
}

func (r *Renderer) layoutCloud(title, class string, items []llm.KeywordItem, seedOffset int64) cloudData {
	opts := r.cloud
	opts.Seed += seedOffset
	return cloudData{
		Title:  title,
		Class:  class,
		Width:  opts.Width,
		Height: opts.Height,
		Words:  wordcloud.Layout(items, opts),
	}
}

func chatFromSnapshot(snap dashboard.Snapshot) chatData {
	return chatData{
		Ready:      snap.ChatReady,
		Open:       snap.ChatOpen,
		Loading:    snap.ChatLoading,
		Transcript: snap.Transcript,
	}
}
