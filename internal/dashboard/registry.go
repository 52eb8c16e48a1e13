package dashboard

import (
	"log"
	"sync"
	"time"

	"github.com/Muddyscode/Customer-sentiment-dashboard/internal/llm"
	"github.com/google/uuid"
)

const (
	DefaultIdleTTL       = time.Hour
	DefaultMaxDashboards = 1000
)

type entry struct {
	d        *Dashboard
	lastSeen time.Time
}

// Registry keeps one Dashboard per browser workspace. Dashboards nobody is
// watching are evicted once idle for IdleTTL, and the oldest unwatched ones go
// first when MaxDashboards is reached. Eviction runs on Create.
type Registry struct {
	provider llm.Provider
	archive  Archive

	IdleTTL       time.Duration
	MaxDashboards int

	now func() time.Time

	mu         sync.Mutex
	dashboards map[string]*entry
}

func NewRegistry(provider llm.Provider, archive Archive) *Registry {
	return &Registry{
		provider:      provider,
		archive:       archive,
		IdleTTL:       DefaultIdleTTL,
		MaxDashboards: DefaultMaxDashboards,
		now:           time.Now,
		dashboards:    make(map[string]*entry),
	}
}

func (r *Registry) Create() *Dashboard {
	d := New(uuid.NewString(), r.provider, r.archive)

	r.mu.Lock()
	evicted := r.evictLocked()
	r.dashboards[d.ID] = &entry{d: d, lastSeen: r.now()}
	r.mu.Unlock()

	for _, old := range evicted {
		old.Close()
	}
	if len(evicted) > 0 {
		log.Printf("dashboard: evicted idle dashboards: count=%d", len(evicted))
	}
	return d
}

// Get marks the dashboard as used.
func (r *Registry) Get(id string) (*Dashboard, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.dashboards[id]
	if !ok {
		return nil, false
	}
	e.lastSeen = r.now()
	return e.d, true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dashboards)
}

// evictLocked removes idle dashboards and, if still at capacity, the least
// recently used ones without subscribers. Dashboards with a live subscriber
// are never evicted.
func (r *Registry) evictLocked() []*Dashboard {
	var evicted []*Dashboard
	now := r.now()

	var candidates []*entry
	for id, e := range r.dashboards {
		if e.d.Subscribers() > 0 {
			continue
		}
		if r.IdleTTL > 0 && now.Sub(e.lastSeen) >= r.IdleTTL {
			delete(r.dashboards, id)
			evicted = append(evicted, e.d)
			continue
		}
		candidates = append(candidates, e)
	}

	if r.MaxDashboards <= 0 {
		return evicted
	}
	for len(r.dashboards) >= r.MaxDashboards && len(candidates) > 0 {
		oldest := 0
		for i, e := range candidates {
			if e.lastSeen.Before(candidates[oldest].lastSeen) {
				oldest = i
			}
		}
		e := candidates[oldest]
		candidates = append(candidates[:oldest], candidates[oldest+1:]...)
		delete(r.dashboards, e.d.ID)
		evicted = append(evicted, e.d)
	}
	return evicted
}
