// Package report assembles a finished run and presents it.
package report

import (
	"encoding/json"
	"time"

	"github.com/glizzus/timed-requests/internal/dispatch"
	"github.com/glizzus/timed-requests/internal/schedule"
	"github.com/glizzus/timed-requests/internal/verify"
)

// Fire is the per-target line of a run.
type Fire struct {
	Index  int                `json:"index"`
	Target schedule.TimeOfDay `json:"target"`
	// Sent is nil when the request never went out.
	Sent       *schedule.TimeOfDay `json:"sent,omitempty"`
	SentAt     time.Time           `json:"sent_at,omitzero"`
	Drift      time.Duration       `json:"drift_ns"`
	Latency    time.Duration       `json:"latency_ns"`
	StatusCode int                 `json:"status_code,omitempty"`
	Error      string              `json:"error,omitempty"`
}

func (f Fire) OK() bool {
	return f.Sent != nil
}

// Run is everything a sink needs to know about one invocation.
type Run struct {
	ID         string        `json:"id"`
	Source     string        `json:"source"`
	Endpoint   string        `json:"endpoint"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Fires      []Fire        `json:"fires"`
	Result     verify.Result `json:"result"`
}

// NewRun builds a run from dispatcher output and verifies it.
func NewRun(id, source, endpoint string, startedAt, finishedAt time.Time, outcomes []dispatch.Outcome) Run {
	fires := make([]Fire, len(outcomes))
	for i, o := range outcomes {
		fire := Fire{Index: o.Index, Target: o.Target}
		switch {
		case o.Err != nil:
			fire.Error = o.Err.Error()
		case o.Record != nil:
			sent := o.Record.Fired
			fire.Sent = &sent
			fire.SentAt = o.Record.FiredAt
			fire.Drift = o.Record.Drift
			fire.StatusCode = o.Record.StatusCode()
			if o.Record.Response != nil {
				fire.Latency = o.Record.Response.Latency()
			}
		}
		fires[i] = fire
	}

	return Run{
		ID:         id,
		Source:     source,
		Endpoint:   endpoint,
		StartedAt:  startedAt,
		FinishedAt: finishedAt,
		Fires:      fires,
		Result:     verify.Outcomes(outcomes),
	}
}

// SendTimes lists the sent second of every fire, or "-" where nothing was sent.
func (r Run) SendTimes() []string {
	out := make([]string, len(r.Fires))
	for i, f := range r.Fires {
		if f.Sent == nil {
			out[i] = "-"
			continue
		}
		out[i] = f.Sent.String()
	}
	return out
}

func (r Run) Targets() []schedule.TimeOfDay {
	out := make([]schedule.TimeOfDay, len(r.Fires))
	for i, f := range r.Fires {
		out[i] = f.Target
	}
	return out
}

func (r Run) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
