package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

// Options configures the progress reporter.
type Options struct {
	// TotalAssets is the number of assets enumerated for download.
	TotalAssets int

	// Workers is the number of parallel workers (for display).
	Workers int

	// Output is where to write progress output.
	// Default: os.Stderr
	Output io.Writer

	// UpdateInterval is how often to update the progress display.
	// Default: 500ms
	UpdateInterval time.Duration
}

// Reporter outputs human-readable download progress.
type Reporter struct {
	opts Options

	mu         sync.Mutex
	bytes      atomic.Int64
	completed  atomic.Int32
	skipped    atomic.Int32
	failed     atomic.Int32
	inProgress atomic.Int32
	startTime  time.Time
	stopCh     chan struct{}
	stopped    bool
	doneCh     chan struct{}
}

// NewReporter creates a new progress reporter.
func NewReporter(opts Options) *Reporter {
	if opts.Output == nil {
		opts.Output = os.Stderr
	}
	if opts.UpdateInterval == 0 {
		opts.UpdateInterval = 500 * time.Millisecond
	}

	return &Reporter{
		opts:   opts,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins outputting progress information.
func (r *Reporter) Start() {
	r.startTime = time.Now()

	fmt.Fprintf(r.opts.Output, "[mlhub] Downloading %d assets | Workers: %d\n",
		r.opts.TotalAssets, r.opts.Workers)

	go r.updateLoop()
}

// Stop stops the reporter and prints the final status.
func (r *Reporter) Stop() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.stopped = true
	r.mu.Unlock()

	close(r.stopCh)
	<-r.doneCh
}

// AssetStarted marks an asset as in progress.
func (r *Reporter) AssetStarted() {
	r.inProgress.Add(1)
}

// AssetCompleted marks an asset as persisted.
func (r *Reporter) AssetCompleted(size int64) {
	r.bytes.Add(size)
	r.completed.Add(1)
	r.inProgress.Add(-1)
}

// AssetSkipped marks an asset as skipped (no transfer URI).
func (r *Reporter) AssetSkipped() {
	r.skipped.Add(1)
	r.inProgress.Add(-1)
}

// AssetFailed marks an asset as failed.
func (r *Reporter) AssetFailed() {
	r.failed.Add(1)
	r.inProgress.Add(-1)
}

// Completed returns the number of persisted assets.
func (r *Reporter) Completed() int {
	return int(r.completed.Load())
}

// Bytes returns the bytes persisted so far.
func (r *Reporter) Bytes() int64 {
	return r.bytes.Load()
}

func (r *Reporter) updateLoop() {
	defer close(r.doneCh)

	ticker := time.NewTicker(r.opts.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stopCh:
			r.printFinalStatus()
			return
		case <-ticker.C:
			r.printProgress()
		}
	}
}

func (r *Reporter) printProgress() {
	completed := int(r.completed.Load())
	skipped := int(r.skipped.Load())
	failed := int(r.failed.Load())
	inProgress := int(r.inProgress.Load())

	var percent float64
	if r.opts.TotalAssets > 0 {
		percent = float64(completed+skipped+failed) / float64(r.opts.TotalAssets) * 100
	}

	fmt.Fprintf(r.opts.Output, "\r[mlhub] Progress: %.1f%% | %d downloaded | %d skipped | %d failed | %d in-progress | %s    ",
		percent, completed, skipped, failed, inProgress, formatBytes(r.bytes.Load()))
}

func (r *Reporter) printFinalStatus() {
	completed := int(r.completed.Load())
	skipped := int(r.skipped.Load())
	failed := int(r.failed.Load())
	duration := time.Since(r.startTime)

	fmt.Fprintf(r.opts.Output, "\r[mlhub] Done: %d/%d downloaded | %d skipped | %d failed | %s in %s\n",
		completed, r.opts.TotalAssets, skipped, failed,
		formatBytes(r.bytes.Load()), formatDuration(duration))
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case b >= TB:
		return fmt.Sprintf("%.2f TB", float64(b)/float64(TB))
	case b >= GB:
		return fmt.Sprintf("%.2f GB", float64(b)/float64(GB))
	case b >= MB:
		return fmt.Sprintf("%.2f MB", float64(b)/float64(MB))
	case b >= KB:
		return fmt.Sprintf("%.2f KB", float64(b)/float64(KB))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatDuration formats a duration as a human-readable string.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	}
	if d < time.Hour {
		m := int(d.Minutes())
		s := int(d.Seconds()) % 60
		return fmt.Sprintf("%dm %ds", m, s)
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh %dm %ds", h, m, s)
}

// FormatBytes is exported for use by other packages.
func FormatBytes(b int64) string {
	return formatBytes(b)
}

// ParseBytes parses a human-readable byte string (e.g., "512KB").
func ParseBytes(s string) (int64, error) {
	var multiplier int64 = 1
	s = trimSuffix(s, " ")

	switch {
	case hasSuffix(s, "TB"):
		multiplier = 1024 * 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "KB"):
		multiplier = 1024
		s = s[:len(s)-2]
	case hasSuffix(s, "B"):
		s = s[:len(s)-1]
	}

	var value float64
	_, err := fmt.Sscanf(s, "%f", &value)
	if err != nil {
		return 0, fmt.Errorf("invalid byte string: %s", s)
	}

	return int64(value * float64(multiplier)), nil
}

func hasSuffix(s, suffix string) bool {
	return len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix
}

func trimSuffix(s, suffix string) string {
	for hasSuffix(s, suffix) {
		s = s[:len(s)-len(suffix)]
	}
	return s
}
