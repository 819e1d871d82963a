package telemetry

import (
	"sort"
	"sync"
	"time"
)

const (
	HealthStatusOK       = "ok"
	HealthStatusDegraded = "degraded"
)

// HealthTracker aggregates liveness signals from long-running loops.
type HealthTracker struct {
	mu     sync.Mutex
	checks map[string]*Heartbeat
	now    func() time.Time
}

// Heartbeat is the handle a loop uses to report itself alive.
// A zero staleAfter means a single beat keeps the check healthy until Fail or Stop.
type Heartbeat struct {
	tracker    *HealthTracker
	name       string
	staleAfter time.Duration
	lastBeat   time.Time
	message    string
	stopped    bool
}

type HealthReport struct {
	Status string              `json:"status"`
	Checks []HealthCheckReport `json:"checks,omitempty"`
}

type HealthCheckReport struct {
	Name     string    `json:"name"`
	Status   string    `json:"status"`
	LastBeat time.Time `json:"lastBeat,omitempty"`
	Message  string    `json:"message,omitempty"`
}

func NewHealthTracker() *HealthTracker {
	return &HealthTracker{
		checks: make(map[string]*Heartbeat),
		now:    time.Now,
	}
}

// Register returns nil on a nil tracker; a nil Heartbeat ignores every call.
func (t *HealthTracker) Register(name string, staleAfter time.Duration) *Heartbeat {
	if t == nil {
		return nil
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	beat := &Heartbeat{tracker: t, name: name, staleAfter: staleAfter}
	t.checks[name] = beat
	return beat
}

func (h *Heartbeat) Beat() {
	if h == nil {
		return
	}
	h.tracker.mu.Lock()
	defer h.tracker.mu.Unlock()
	h.lastBeat = h.tracker.now()
	h.message = ""
	h.stopped = false
}

func (h *Heartbeat) Fail(err error) {
	if h == nil {
		return
	}
	h.tracker.mu.Lock()
	defer h.tracker.mu.Unlock()
	h.message = "failed"
	if err != nil {
		h.message = err.Error()
	}
}

// Stop marks the check as no longer serving.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.tracker.mu.Lock()
	defer h.tracker.mu.Unlock()
	h.stopped = true
}

func (t *HealthTracker) Report() HealthReport {
	if t == nil {
		return HealthReport{Status: HealthStatusOK}
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	report := HealthReport{Status: HealthStatusOK}
	for _, beat := range t.checks {
		check := HealthCheckReport{
			Name:     beat.name,
			Status:   HealthStatusOK,
			LastBeat: beat.lastBeat,
			Message:  beat.message,
		}
		switch {
		case beat.message != "":
		case beat.stopped:
			check.Message = "stopped"
		case beat.lastBeat.IsZero():
			check.Message = "no heartbeat yet"
		case beat.staleAfter > 0 && now.Sub(beat.lastBeat) > beat.staleAfter:
			check.Message = "heartbeat stale"
		}
		if check.Message != "" {
			check.Status = HealthStatusDegraded
			report.Status = HealthStatusDegraded
		}
		report.Checks = append(report.Checks, check)
	}
	sort.Slice(report.Checks, func(i, j int) bool {
		return report.Checks[i].Name < report.Checks[j].Name
	})
	return report
}
