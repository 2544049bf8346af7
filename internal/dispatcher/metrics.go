package dispatcher

import (
	"sort"
	"sync"
	"time"
)

// Metrics collects dispatch statistics.
type Metrics struct {
	mu sync.RWMutex

	commands map[string]*CommandMetrics
	outcomes map[Outcome]uint64

	totalDispatches uint64
	totalDuration   time.Duration
}

// CommandMetrics holds statistics for one matched identifier. Unmatched
// requests are tallied under the raw label.
type CommandMetrics struct {
	Name          string
	DispatchCount uint64
	FaultCount    uint64
	TotalDuration time.Duration
	MinDuration   time.Duration
	MaxDuration   time.Duration
	LastOutcome   Outcome
	LastDispatch  time.Time
}

// NewMetrics creates a metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		commands: make(map[string]*CommandMetrics),
		outcomes: make(map[Outcome]uint64),
	}
}

// Record tallies one dispatch under the given command name.
func (m *Metrics) Record(name string, duration time.Duration, outcome Outcome) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalDispatches++
	m.totalDuration += duration
	m.outcomes[outcome]++

	cm := m.commands[name]
	if cm == nil {
		cm = &CommandMetrics{
			Name:        name,
			MinDuration: duration,
			MaxDuration: duration,
		}
		m.commands[name] = cm
	}

	cm.DispatchCount++
	cm.TotalDuration += duration
	cm.LastOutcome = outcome
	cm.LastDispatch = time.Now()

	if duration < cm.MinDuration {
		cm.MinDuration = duration
	}
	if duration > cm.MaxDuration {
		cm.MaxDuration = duration
	}
	if outcome == OutcomeFaulted {
		cm.FaultCount++
	}
}

// TotalDispatches returns the total number of recorded dispatches.
func (m *Metrics) TotalDispatches() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.totalDispatches
}

// OutcomeCount returns how many dispatches ended in the given outcome.
func (m *Metrics) OutcomeCount(outcome Outcome) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.outcomes[outcome]
}

// Command returns a copy of the metrics for one command name.
func (m *Metrics) Command(name string) (CommandMetrics, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	cm, ok := m.commands[name]
	if !ok {
		return CommandMetrics{}, false
	}
	return *cm, true
}

// Commands returns copies of all per-command metrics sorted by name.
func (m *Metrics) Commands() []CommandMetrics {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]CommandMetrics, 0, len(m.commands))
	for _, cm := range m.commands {
		out = append(out, *cm)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Reset clears all recorded statistics.
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.commands = make(map[string]*CommandMetrics)
	m.outcomes = make(map[Outcome]uint64)
	m.totalDispatches = 0
	m.totalDuration = 0
}
