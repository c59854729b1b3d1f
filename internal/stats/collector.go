package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// Writer is the write side of a Collector, used by the engine.
type Writer interface {
	AddFilesCopied(n int64)
	AddFilesMoved(n int64)
	AddBytesCopied(n int64)
	AddDirsCreated(n int64)
	AddDirsRemoved(n int64)
	AddItemsDeleted(n int64)
	AddConflictsRenamed(n int64)
	AddFailures(n int64)
	AddFilesVerified(n int64)
	AddFilesVerifyFailed(n int64)
	SetTotals(files, bytes int64)
}

// Reader is the read side of a Collector, used by presenters.
type Reader interface {
	Snapshot() Snapshot
}

// ReadTicker is a Reader that also samples throughput.
type ReadTicker interface {
	Reader
	Tick()
	RollingSpeed(seconds int) float64
	History(n int) []float64
	ETA() time.Duration
}

var (
	_ Writer     = (*Collector)(nil)
	_ ReadTicker = (*Collector)(nil)
)

// Collector tracks operation statistics using lock-free atomic counters.
type Collector struct {
	startTime         time.Time
	filesCopied       atomic.Int64
	filesMoved        atomic.Int64
	bytesCopied       atomic.Int64
	dirsCreated       atomic.Int64
	dirsRemoved       atomic.Int64
	itemsDeleted      atomic.Int64
	conflictsRenamed  atomic.Int64
	failures          atomic.Int64
	filesVerified     atomic.Int64
	filesVerifyFailed atomic.Int64
	filesTotal        atomic.Int64
	bytesTotal        atomic.Int64

	// Ring buffer; written only by Tick.
	mu         sync.Mutex
	throughput [ringSize]int64 // bytes delta per tick
	ringIdx    int
	ringCount  int
	lastBytes  int64
}

// NewCollector creates a Collector with startTime set to now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// SetTotals records the expected size of the operation.
func (c *Collector) SetTotals(files, bytes int64) {
	c.filesTotal.Store(files)
	c.bytesTotal.Store(bytes)
}

func (c *Collector) AddFilesCopied(n int64)       { c.filesCopied.Add(n) }
func (c *Collector) AddFilesMoved(n int64)        { c.filesMoved.Add(n) }
func (c *Collector) AddBytesCopied(n int64)       { c.bytesCopied.Add(n) }
func (c *Collector) AddDirsCreated(n int64)       { c.dirsCreated.Add(n) }
func (c *Collector) AddDirsRemoved(n int64)       { c.dirsRemoved.Add(n) }
func (c *Collector) AddItemsDeleted(n int64)      { c.itemsDeleted.Add(n) }
func (c *Collector) AddConflictsRenamed(n int64)  { c.conflictsRenamed.Add(n) }
func (c *Collector) AddFailures(n int64)          { c.failures.Add(n) }
func (c *Collector) AddFilesVerified(n int64)     { c.filesVerified.Add(n) }
func (c *Collector) AddFilesVerifyFailed(n int64) { c.filesVerifyFailed.Add(n) }

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	FilesCopied       int64
	FilesMoved        int64
	BytesCopied       int64
	DirsCreated       int64
	DirsRemoved       int64
	ItemsDeleted      int64
	ConflictsRenamed  int64
	Failures          int64
	FilesVerified     int64
	FilesVerifyFailed int64
	FilesTotal        int64
	BytesTotal        int64
	Elapsed           time.Duration
}

// Snapshot returns a point-in-time read of all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FilesCopied:       c.filesCopied.Load(),
		FilesMoved:        c.filesMoved.Load(),
		BytesCopied:       c.bytesCopied.Load(),
		DirsCreated:       c.dirsCreated.Load(),
		DirsRemoved:       c.dirsRemoved.Load(),
		ItemsDeleted:      c.itemsDeleted.Load(),
		ConflictsRenamed:  c.conflictsRenamed.Load(),
		Failures:          c.failures.Load(),
		FilesVerified:     c.filesVerified.Load(),
		FilesVerifyFailed: c.filesVerifyFailed.Load(),
		FilesTotal:        c.filesTotal.Load(),
		BytesTotal:        c.bytesTotal.Load(),
		Elapsed:           c.Elapsed(),
	}
}

// Tick snapshots the byte delta into the ring buffer. Called 1/sec by the presenter.
func (c *Collector) Tick() {
	current := c.bytesCopied.Load()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.throughput[c.ringIdx] = current - c.lastBytes
	c.lastBytes = current
	c.ringIdx = (c.ringIdx + 1) % ringSize
	if c.ringCount < ringSize {
		c.ringCount++
	}
}

// RollingSpeed returns average bytes/sec over the last n samples.
func (c *Collector) RollingSpeed(seconds int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(seconds, c.ringCount)
	if count <= 0 {
		return 0
	}
	var sum int64
	for i := range count {
		sum += c.throughput[(c.ringIdx-1-i+ringSize)%ringSize]
	}
	return float64(sum) / float64(count)
}

// History returns up to n bytes/sec samples, oldest first.
func (c *Collector) History(n int) []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(n, c.ringCount)
	if count <= 0 {
		return nil
	}
	data := make([]float64, count)
	for i := range count {
		data[i] = float64(c.throughput[(c.ringIdx-count+i+ringSize)%ringSize])
	}
	return data
}

// ETA estimates remaining time from the rolling speed and remaining bytes.
func (c *Collector) ETA() time.Duration {
	speed := c.RollingSpeed(10)
	if speed <= 0 {
		return 0
	}
	remaining := c.bytesTotal.Load() - c.bytesCopied.Load()
	if remaining <= 0 {
		return 0
	}
	return time.Duration(float64(remaining)/speed) * time.Second
}

// Elapsed returns time since collector creation.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"copied=%d moved=%d bytes=%d dirs=%d removed=%d deleted=%d renamed=%d failed=%d",
		s.FilesCopied, s.FilesMoved, s.BytesCopied, s.DirsCreated,
		s.DirsRemoved, s.ItemsDeleted, s.ConflictsRenamed, s.Failures,
	)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
