// Package verify compares the seconds requests were meant to fire in with
// the seconds they actually fired in. Comparison is exact; there is no
// tolerance window.
package verify

import (
	"fmt"

	"github.com/glizzus/timed-requests/internal/dispatch"
	"github.com/glizzus/timed-requests/internal/schedule"
)

// Mismatch is one position whose request did not fire at its target.
type Mismatch struct {
	Index  int                `json:"index"`
	Target schedule.TimeOfDay `json:"target"`
	// Actual is meaningful only when Fired is true.
	Actual schedule.TimeOfDay `json:"actual"`
	Fired  bool               `json:"fired"`
	Reason string             `json:"reason,omitempty"`
}

// Detail is the human readable pair logged for a mismatch.
func (m Mismatch) Detail() string {
	if !m.Fired {
		return fmt.Sprintf("Target: %s. Not sent: %s.", m.Target, m.Reason)
	}
	return fmt.Sprintf("Target: %s. Sent: %s.", m.Target, m.Actual)
}

type Result struct {
	Success    bool                 `json:"success"`
	Missed     []schedule.TimeOfDay `json:"missed"`
	Mismatches []Mismatch           `json:"mismatches"`
}

// Verify pairs targets and actuals by position. Both must have the same length.
func Verify(targets, actuals []schedule.TimeOfDay) (Result, error) {
	if len(targets) != len(actuals) {
		return Result{}, fmt.Errorf("cannot verify %d targets against %d fire times", len(targets), len(actuals))
	}

	var result Result
	for i := range targets {
		if targets[i] != actuals[i] {
			result.add(Mismatch{Index: i, Target: targets[i], Actual: actuals[i], Fired: true})
		}
	}
	result.Success = len(result.Mismatches) == 0
	return result, nil
}

// Outcomes verifies dispatcher output. A target whose request never went out
// counts as a mismatch with its failure as the reason.
func Outcomes(outcomes []dispatch.Outcome) Result {
	var result Result
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			result.add(Mismatch{Index: o.Index, Target: o.Target, Reason: o.Err.Error()})
		case o.Record == nil:
			result.add(Mismatch{Index: o.Index, Target: o.Target, Reason: "no fire record"})
		case o.Record.Fired != o.Target:
			result.add(Mismatch{Index: o.Index, Target: o.Target, Actual: o.Record.Fired, Fired: true})
		}
	}
	result.Success = len(result.Mismatches) == 0
	return result
}

func (r *Result) add(m Mismatch) {
	r.Missed = append(r.Missed, m.Target)
	r.Mismatches = append(r.Mismatches, m)
}

// Details returns the detail line of every mismatch.
func (r Result) Details() []string {
	out := make([]string, len(r.Mismatches))
	for i, m := range r.Mismatches {
		out[i] = m.Detail()
	}
	return out
}

// Unfired reports whether any target never sent its request.
func (r Result) Unfired() bool {
	for _, m := range r.Mismatches {
		if !m.Fired {
			return true
		}
	}
	return false
}
