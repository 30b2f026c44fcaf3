package entity

// RunStatus represents the current state of a batch run
type RunStatus string

const (
	RunStatusIdle      RunStatus = "idle"
	RunStatusRunning   RunStatus = "running"
	RunStatusPaused    RunStatus = "paused"
	RunStatusStopped   RunStatus = "stopped"
	RunStatusCompleted RunStatus = "completed"
)

// IsTerminal returns true if the run has ended and cannot continue
func (s RunStatus) IsTerminal() bool {
	return s == RunStatusStopped || s == RunStatusCompleted
}

// IsActive returns true if the run is still dispatching or pausable
func (s RunStatus) IsActive() bool {
	return s == RunStatusRunning || s == RunStatusPaused
}

// ProgressSnapshot is an immutable view of batch progress, copied out of the
// runner after each item.
type ProgressSnapshot struct {
	Status       RunStatus `json:"status"`
	Total        int       `json:"total"`
	Current      int       `json:"current"`
	SuccessCount int       `json:"success_count"`
	FailureCount int       `json:"failure_count"`
}

// SuccessRate returns the fraction of processed items that succeeded
func (p ProgressSnapshot) SuccessRate() float64 {
	if p.Current == 0 {
		return 0
	}
	return float64(p.SuccessCount) / float64(p.Current)
}

// AggregateCounts accumulates annotation occurrences over an entire batch,
// keyed by error code and separately by macro code. Unbounded by design;
// the recent-results window bounds display, not statistics.
type AggregateCounts struct {
	ByErrorCode map[string]int `json:"by_error_code"`
	ByMacroCode map[string]int `json:"by_macro_code"`
}

// NewAggregateCounts creates empty aggregate counters
func NewAggregateCounts() *AggregateCounts {
	return &AggregateCounts{
		ByErrorCode: make(map[string]int),
		ByMacroCode: make(map[string]int),
	}
}

// Merge folds one result's annotations into the counters
func (a *AggregateCounts) Merge(result *AnalysisResult) {
	for _, span := range result.Annotations {
		a.ByErrorCode[span.ErrorCode]++
		a.ByMacroCode[span.MacroCode]++
	}
}

// Clone returns a deep copy safe to hand to observers
func (a *AggregateCounts) Clone() *AggregateCounts {
	clone := NewAggregateCounts()
	for code, n := range a.ByErrorCode {
		clone.ByErrorCode[code] = n
	}
	for code, n := range a.ByMacroCode {
		clone.ByMacroCode[code] = n
	}
	return clone
}
