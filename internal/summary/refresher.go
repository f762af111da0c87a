package summary

import (
	"context"
	"sync"
	"time"

	apperrors "btc-advisor/internal/errors"
)

// Snapshot is the most recently fetched summary.
type Snapshot struct {
	Text      string    `json:"summary"`
	Prompt    string    `json:"-"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Refresher serializes summary refreshes with cancel-and-replace semantics:
// starting a refresh cancels the one in flight, and only the newest request
// may publish its result.
type Refresher struct {
	source Summarizer
	now    func() time.Time

	mu     sync.Mutex
	seq    uint64
	cancel context.CancelFunc
	latest *Snapshot
}

// NewRefresher creates a refresher over source. now may be nil.
func NewRefresher(source Summarizer, now func() time.Time) *Refresher {
	if now == nil {
		now = time.Now
	}
	return &Refresher{source: source, now: now}
}

// Refresh fetches a new summary for prompt. A call that is superseded by a
// later Refresh returns errors.ErrSuperseded and leaves Latest untouched.
func (r *Refresher) Refresh(ctx context.Context, prompt string) (Snapshot, error) {
	r.mu.Lock()
	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	r.seq++
	id := r.seq
	r.cancel = cancel
	r.mu.Unlock()
	defer cancel()

	text, err := r.source.FetchSummary(ctx, prompt)

	r.mu.Lock()
	defer r.mu.Unlock()
	if id != r.seq {
		return Snapshot{}, apperrors.ErrSuperseded
	}
	r.cancel = nil
	if err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{Text: text, Prompt: prompt, FetchedAt: r.now()}
	r.latest = &snap
	return snap, nil
}

// Latest returns the last successfully fetched summary.
func (r *Refresher) Latest() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.latest == nil {
		return Snapshot{}, false
	}
	return *r.latest, true
}
