package dashboard

import "github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"

// Snapshot is a read-only copy of the dashboard state at one version.
type Snapshot struct {
	DashboardID string              `json:"dashboardId"`
	Version     uint64              `json:"version"`
	Input       string              `json:"input"`
	Thinking    bool                `json:"thinking"`
	Loading     bool                `json:"loading"`
	Error       string              `json:"error,omitempty"`
	AnalysisID  string              `json:"analysisId,omitempty"`
	Result      *llm.AnalysisResult `json:"result,omitempty"`
	ChatReady   bool                `json:"chatReady"`
	ChatOpen    bool                `json:"chatOpen"`
	ChatLoading bool                `json:"chatLoading"`
	Transcript  []llm.ChatMessage   `json:"transcript,omitempty"`
}

func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.snapshotLocked()
}

func (d *Dashboard) snapshotLocked() Snapshot {
	snap := Snapshot{
		DashboardID: d.ID,
		Version:     d.version,
		Input:       d.input,
		Thinking:    d.thinking,
		Loading:     d.loading,
		Error:       d.errMsg,
		AnalysisID:  d.analysisID,
		Result:      d.result,
		ChatOpen:    d.chatOpen,
		ChatLoading: d.chatLoading,
	}
	if s := d.chats.Current(); s != nil {
		snap.ChatReady = true
		snap.Transcript = s.Transcript()
	}
	return snap
}

// Subscribe returns a channel that immediately holds the current snapshot and then
// always holds the newest one; a slow reader skips intermediate versions. The
// returned func unsubscribes and closes the channel. Close also closes it.
func (d *Dashboard) Subscribe() (<-chan Snapshot, func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	ch := make(chan Snapshot, 1)
	ch <- d.snapshotLocked()
	id := d.nextSub
	d.nextSub++
	d.subs[id] = ch

	return ch, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if _, ok := d.subs[id]; !ok {
			return
		}
		delete(d.subs, id)
		close(ch)
	}
}

func (d *Dashboard) Subscribers() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.subs)
}

func (d *Dashboard) publishLocked() {
	d.version++
	snap := d.snapshotLocked()
	for _, ch := range d.subs {
		select {
		case <-ch:
		default:
		}
		ch <- snap
	}
}
