package search

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/poiesic/ensemble/core"
)

// ProgressMonitor is a SearchMonitor that reports per-tier progress to a
// writer, typically os.Stderr.
type ProgressMonitor struct {
	writer         io.Writer
	reportInterval int

	mu           sync.Mutex
	order        int
	total        int
	current      int
	accepted     int
	lastReported int
	tierStart    time.Time
	searchStart  time.Time
	started      bool
}

var _ SearchMonitor = (*ProgressMonitor)(nil)

// NewProgressMonitor creates a new progress monitor.
// writer: where to write progress output
// reportInterval: report progress every N candidates
func NewProgressMonitor(writer io.Writer, reportInterval int) *ProgressMonitor {
	if reportInterval < 1 {
		reportInterval = 1
	}
	return &ProgressMonitor{
		writer:         writer,
		reportInterval: reportInterval,
	}
}

// Start begins tracking progress.
func (p *ProgressMonitor) Start(cfg *Config) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.searchStart = time.Now()
	p.started = true
	fmt.Fprintf(p.writer, "Searching %d components up to order %d\n", len(cfg.Names), cfg.MaxOrder)
}

// BeginTier resets the counters for a new tier.
func (p *ProgressMonitor) BeginTier(order int, candidates int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.order = order
	p.total = candidates
	p.current = 0
	p.accepted = 0
	p.lastReported = 0
	p.tierStart = time.Now()
}

// BeginUnary adds the unary candidates to the current tier's total.
func (p *ProgressMonitor) BeginUnary(_ int, candidates int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.total += candidates
}

// Accepted counts an accepted candidate.
func (p *ProgressMonitor) Accepted(_ int, _ *core.ScoredExpression) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.accepted++
	p.increment()
}

// Rejected counts a rejected candidate.
func (p *ProgressMonitor) Rejected(_ int, _ string, _ float64, _ RejectReason) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.increment()
}

// EndTier prints the final line for a tier. Tiers restored from a
// checkpoint are reported without a candidate count.
func (p *ProgressMonitor) EndTier(order int, accepted int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if order != p.order {
		fmt.Fprintf(p.writer, "Tier %d: %d accepted (restored)\n", order, accepted)
		return
	}
	p.current = p.total
	p.report()
	fmt.Fprintln(p.writer) // Print newline after final progress
}

// Finish prints the total elapsed time.
func (p *ProgressMonitor) Finish(result *Result) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return
	}
	fmt.Fprintf(p.writer, "Accepted %d expressions in %s\n", result.Len(), time.Since(p.searchStart).Round(time.Millisecond))
}

// Elapsed returns the time elapsed since Start was called.
func (p *ProgressMonitor) Elapsed() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return 0
	}
	return time.Since(p.searchStart)
}

// increment advances the candidate count. Must be called with lock held.
func (p *ProgressMonitor) increment() {
	p.current++
	if p.current > p.total {
		p.current = p.total
	}

	// Report if we've crossed a report interval
	if p.current-p.lastReported >= p.reportInterval {
		p.report()
		p.lastReported = p.current
	}
}

// report prints the current progress. Must be called with lock held.
func (p *ProgressMonitor) report() {
	elapsed := time.Since(p.tierStart)
	rate := float64(p.current) / elapsed.Seconds()

	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.current) / float64(p.total) * 100.0
	}

	fmt.Fprintf(p.writer, "\rTier %d: %d/%d (%.1f%%) - %d accepted - %.1f candidates/s",
		p.order, p.current, p.total, percentage, p.accepted, rate)
}
