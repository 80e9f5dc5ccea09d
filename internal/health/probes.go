package health

import (
	"context"
	"time"
)

// Check pings one dependency. Implementations must honor the context
// deadline.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type CheckResult struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Error   string `json:"error,omitempty"`
}

// ProbeRunner runs readiness checks with a per-check timeout.
type ProbeRunner struct {
	checks  []Check
	timeout time.Duration
}

func NewProbeRunner(timeout time.Duration, checks ...Check) *ProbeRunner {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &ProbeRunner{checks: checks, timeout: timeout}
}

// Ready runs every check and reports overall readiness plus per-check detail.
func (p *ProbeRunner) Ready(ctx context.Context) (bool, []CheckResult) {
	ready := true
	results := make([]CheckResult, 0, len(p.checks))
	for _, check := range p.checks {
		checkCtx, cancel := context.WithTimeout(ctx, p.timeout)
		err := check.Probe(checkCtx)
		cancel()
		result := CheckResult{Name: check.Name, Healthy: err == nil}
		if err != nil {
			ready = false
			result.Error = err.Error()
		}
		results = append(results, result)
	}
	return ready, results
}
