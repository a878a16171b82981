package probe

import (
	"time"

	"backend-probe/core/backend"
)

// Stage identifies which probe produced a Result.
type Stage string

const (
	StageAuth      Stage = "auth_check"
	StageTable     Stage = "table_check"
	StageRoundTrip Stage = "round_trip"
	StageStorage   Stage = "storage_check"
)

// Outcome classifies a Result.
type Outcome string

const (
	OutcomeSuccess          Outcome = "success"
	OutcomeNotFound         Outcome = "not_found"
	OutcomePermissionDenied Outcome = "permission_denied"
	OutcomeSchemaMismatch   Outcome = "schema_mismatch"
	OutcomeUnknownError     Outcome = "unknown_error"
)

// Result is the structured outcome of one probe stage.
type Result struct {
	Stage   Stage   `json:"stage"`
	Target  string  `json:"target,omitempty"`
	Outcome Outcome `json:"outcome"`
	Message string  `json:"message"`
	// Warning annotates a successful result, e.g. a failed round-trip cleanup.
	Warning string `json:"warning,omitempty"`
	// ErrorKind is the taxonomy tag of the underlying failure, if any.
	ErrorKind string         `json:"error_kind,omitempty"`
	Payload   any            `json:"payload,omitempty"`
	LatencyMs int64          `json:"latency_ms"`
	CheckedAt time.Time      `json:"checked_at"`
	Err       *backend.Error `json:"-"`
}

// OK reports a clean success.
func (r Result) OK() bool {
	return r.Outcome == OutcomeSuccess
}

// Failed reports an outright failure. A missing relation is not a failure:
// the probe confirms connectivity, not that the table has been created yet.
func (r Result) Failed() bool {
	return r.Outcome != OutcomeSuccess && r.Outcome != OutcomeNotFound
}

// Report collects the results of one run, in execution order.
type Report struct {
	Results []Result `json:"results"`
}

// AllFailed reports whether every executed stage failed outright.
func (r Report) AllFailed() bool {
	if len(r.Results) == 0 {
		return false
	}
	for _, res := range r.Results {
		if !res.Failed() {
			return false
		}
	}
	return true
}

// Stage returns the result for s, if that stage ran.
func (r Report) Stage(s Stage) (Result, bool) {
	for _, res := range r.Results {
		if res.Stage == s {
			return res, true
		}
	}
	return Result{}, false
}
