package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/chat"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/store"
	"github.com/google/uuid"
)

const (
	MsgEmptyInput     = "Please paste some reviews first."
	MsgAnalysisFailed = "An error occurred during analysis. Please check your API key and try again."
)

var ErrBusy = errors.New("a request is already in progress")

// Archive receives every completed analysis.
type Archive interface {
	SaveReport(ctx context.Context, r store.Report) error
}

// Dashboard is the state behind one dashboard page: input, last result, flags and
// the chat session bound to that result. Every change is published to subscribers
// as an immutable Snapshot.
type Dashboard struct {
	ID string

	provider llm.Provider
	chats    *chat.Manager
	archive  Archive

	mu          sync.Mutex
	input       string
	thinking    bool
	loading     bool
	errMsg      string
	analysisID  string
	result      *llm.AnalysisResult
	chatOpen    bool
	chatLoading bool
	version     uint64

	subs    map[int]chan Snapshot
	nextSub int
}

// New accepts a nil archive, in which case reports are not kept.
func New(id string, provider llm.Provider, archive Archive) *Dashboard {
	d := &Dashboard{
		ID:       id,
		provider: provider,
		chats:    chat.NewManager(provider),
		archive:  archive,
		subs:     make(map[int]chan Snapshot),
	}
	d.chats.OnChange = func(*chat.Session) {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.publishLocked()
	}
	return d
}

// Analyze runs one analysis. Blank input never reaches the provider, and a second
// analysis while one is pending is refused with ErrBusy. On failure the previous
// result and chat stay in place.
func (d *Dashboard) Analyze(ctx context.Context, reviews string, mode llm.Mode) (*llm.AnalysisResult, error) {
	d.mu.Lock()
	if d.loading {
		d.mu.Unlock()
		return nil, ErrBusy
	}
	d.input = reviews
	d.thinking = mode == llm.ModeThinking
	if strings.TrimSpace(reviews) == "" {
		d.errMsg = MsgEmptyInput
		d.publishLocked()
		d.mu.Unlock()
		return nil, llm.ErrEmptyInput
	}
	d.loading = true
	d.errMsg = ""
	d.publishLocked()
	d.mu.Unlock()

	start := time.Now()
	res, err := d.provider.AnalyzeReviews(ctx, reviews, mode)
	if err != nil {
		log.Printf("dashboard: analysis failed: dashboard=%s mode=%s elapsed=%s err=%v", d.ID, mode, time.Since(start), err)
		d.mu.Lock()
		d.loading = false
		d.errMsg = MsgAnalysisFailed
		d.publishLocked()
		d.mu.Unlock()
		return nil, fmt.Errorf("analyze reviews: %w", err)
	}

	analysisID := uuid.NewString()
	if _, err := d.chats.Open(ctx, analysisID, llm.BuildChatContext(reviews, res.Summary)); err != nil {
		log.Printf("dashboard: chat unavailable: dashboard=%s analysis=%s err=%v", d.ID, analysisID, err)
		d.chats.Reset()
	}

	d.mu.Lock()
	d.loading = false
	d.analysisID = analysisID
	d.result = res
	d.chatOpen = false
	d.publishLocked()
	d.mu.Unlock()

	log.Printf("dashboard: analysis done: dashboard=%s analysis=%s mode=%s points=%d elapsed=%s", d.ID, analysisID, mode, len(res.SentimentTrend), time.Since(start))

	if d.archive != nil {
		report := store.Report{
			ID:          analysisID,
			DashboardID: d.ID,
			Mode:        mode.String(),
			Reviews:     reviews,
			Result:      *res,
			CreatedAt:   time.Now(),
		}
		// the report is kept even when the client has already gone away
		if err := d.archive.SaveReport(context.WithoutCancel(ctx), report); err != nil {
			log.Printf("dashboard: archive failed: analysis=%s err=%v", analysisID, err)
		}
	}
	return res, nil
}

// SendChat forwards one user message to the current session. It is refused with
// ErrBusy while an analysis or another message is pending. Provider failures do not
// surface: the session records a fallback reply, which is returned instead.
func (d *Dashboard) SendChat(ctx context.Context, message string) (llm.ChatMessage, error) {
	if strings.TrimSpace(message) == "" {
		return llm.ChatMessage{}, llm.ErrEmptyInput
	}

	d.mu.Lock()
	session := d.chats.Current()
	if session == nil {
		d.mu.Unlock()
		return llm.ChatMessage{}, llm.ErrNotInitialized
	}
	// during an analysis the session may already belong to a result not yet shown
	if d.chatLoading || d.loading {
		d.mu.Unlock()
		return llm.ChatMessage{}, ErrBusy
	}
	d.chatLoading = true
	d.chatOpen = true
	d.publishLocked()
	d.mu.Unlock()

	reply, err := session.Send(ctx, message)

	d.mu.Lock()
	d.chatLoading = false
	d.publishLocked()
	d.mu.Unlock()

	if err != nil {
		if llm.IsRequestError(err) {
			log.Printf("dashboard: chat failed: dashboard=%s session=%s err=%v", d.ID, session.ID, err)
			return reply, nil
		}
		return llm.ChatMessage{}, err
	}
	return reply, nil
}

func (d *Dashboard) SetChatOpen(open bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.chats.Current() == nil {
		return llm.ErrNotInitialized
	}
	d.chatOpen = open
	d.publishLocked()
	return nil
}

func (d *Dashboard) SetInput(text string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.input = text
	d.publishLocked()
}

// Close ends the chat session and every subscription. The dashboard is not used
// afterwards.
func (d *Dashboard) Close() {
	d.chats.Reset()

	d.mu.Lock()
	defer d.mu.Unlock()
	for id, ch := range d.subs {
		delete(d.subs, id)
		close(ch)
	}
}

// ChatSession exposes the live session, or nil before the first analysis.
func (d *Dashboard) ChatSession() *chat.Session {
	return d.chats.Current()
}
