package health

import (
	"context"
	"fmt"
	"sync"
	"time"
)

type CheckResult struct {
	Name    string        `json:"name"`
	OK      bool          `json:"ok"`
	Latency time.Duration `json:"latency_ms"`
	Error   string        `json:"error,omitempty"`
}

type HealthStatus struct {
	OK        bool          `json:"ok"`
	Checks    []CheckResult `json:"checks"`
	CheckedAt time.Time     `json:"checked_at"`
}

func (h HealthStatus) String() string {
	status := "OK"
	if !h.OK {
		status = "FAIL"
	}
	s := fmt.Sprintf("Health: %s\n", status)
	for _, c := range h.Checks {
		mark := "✓"
		if !c.OK {
			mark = "✗"
		}
		s += fmt.Sprintf("  %s %s (%dms)", mark, c.Name, c.Latency.Milliseconds())
		if c.Error != "" {
			s += fmt.Sprintf(" - %s", c.Error)
		}
		s += "\n"
	}
	return s
}

// Checker probes one dependency.
type Checker struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Pinger adapts anything with a Ping method.
func Pinger(name string, p interface{ Ping(context.Context) error }) Checker {
	return Checker{Name: name, Probe: p.Ping}
}

// CheckAll runs checkers concurrently, each bounded by timeout, and returns
// the combined status in checker order.
func CheckAll(ctx context.Context, timeout time.Duration, checkers ...Checker) HealthStatus {
	results := make([]CheckResult, len(checkers))
	var wg sync.WaitGroup
	for i, c := range checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			results[i] = run(ctx, timeout, c)
		}(i, c)
	}
	wg.Wait()

	allOK := true
	for _, r := range results {
		if !r.OK {
			allOK = false
		}
	}
	return HealthStatus{OK: allOK, Checks: results, CheckedAt: time.Now().UTC()}
}

func run(ctx context.Context, timeout time.Duration, c Checker) CheckResult {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	start := time.Now()
	err := c.Probe(ctx)
	res := CheckResult{Name: c.Name, OK: err == nil, Latency: time.Since(start)}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
