// Package stats tracks scan and copy counters with lock-free atomics.
package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const ringSize = 60

// Collector accumulates counters from scanner and copy workers. Workers only
// call the Add methods; the ring buffer is advanced by whoever displays
// progress, via Tick.
type Collector struct {
	startTime time.Time

	foldersSized   atomic.Int64
	foldersSkipped atomic.Int64
	filesScanned   atomic.Int64
	bytesScanned   atomic.Int64

	filesTotal        atomic.Int64
	bytesTotal        atomic.Int64
	filesCopied       atomic.Int64
	bytesCopied       atomic.Int64
	filesFailed       atomic.Int64
	dirsCreated       atomic.Int64
	linksCopied       atomic.Int64
	hardlinksCreated  atomic.Int64
	filesVerified     atomic.Int64
	filesVerifyFailed atomic.Int64

	mu         sync.Mutex
	throughput [ringSize]int64 // bytes copied per tick
	ringIdx    int
	ringCount  int
	lastBytes  int64
}

// NewCollector creates a Collector whose clock starts now.
func NewCollector() *Collector {
	return &Collector{startTime: time.Now()}
}

// SetTotals records how much the copy is expected to move.
func (c *Collector) SetTotals(files, bytes int64) {
	c.filesTotal.Store(files)
	c.bytesTotal.Store(bytes)
}

// AddTotals grows the expected totals as a walk discovers files.
func (c *Collector) AddTotals(files, bytes int64) {
	c.filesTotal.Add(files)
	c.bytesTotal.Add(bytes)
}

func (c *Collector) AddFoldersSized(n int64)      { c.foldersSized.Add(n) }
func (c *Collector) AddFoldersSkipped(n int64)    { c.foldersSkipped.Add(n) }
func (c *Collector) AddFilesScanned(n int64)      { c.filesScanned.Add(n) }
func (c *Collector) AddBytesScanned(n int64)      { c.bytesScanned.Add(n) }
func (c *Collector) AddFilesCopied(n int64)       { c.filesCopied.Add(n) }
func (c *Collector) AddBytesCopied(n int64)       { c.bytesCopied.Add(n) }
func (c *Collector) AddFilesFailed(n int64)       { c.filesFailed.Add(n) }
func (c *Collector) AddDirsCreated(n int64)       { c.dirsCreated.Add(n) }
func (c *Collector) AddLinksCopied(n int64)       { c.linksCopied.Add(n) }
func (c *Collector) AddHardlinksCreated(n int64)  { c.hardlinksCreated.Add(n) }
func (c *Collector) AddFilesVerified(n int64)     { c.filesVerified.Add(n) }
func (c *Collector) AddFilesVerifyFailed(n int64) { c.filesVerifyFailed.Add(n) }

// Snapshot is a point-in-time read of every counter.
type Snapshot struct {
	FoldersSized      int64
	FoldersSkipped    int64
	FilesScanned      int64
	BytesScanned      int64
	FilesTotal        int64
	BytesTotal        int64
	FilesCopied       int64
	BytesCopied       int64
	FilesFailed       int64
	DirsCreated       int64
	LinksCopied       int64
	HardlinksCreated  int64
	FilesVerified     int64
	FilesVerifyFailed int64
	Elapsed           time.Duration
}

// Snapshot reads all counters.
func (c *Collector) Snapshot() Snapshot {
	return Snapshot{
		FoldersSized:      c.foldersSized.Load(),
		FoldersSkipped:    c.foldersSkipped.Load(),
		FilesScanned:      c.filesScanned.Load(),
		BytesScanned:      c.bytesScanned.Load(),
		FilesTotal:        c.filesTotal.Load(),
		BytesTotal:        c.bytesTotal.Load(),
		FilesCopied:       c.filesCopied.Load(),
		BytesCopied:       c.bytesCopied.Load(),
		FilesFailed:       c.filesFailed.Load(),
		DirsCreated:       c.dirsCreated.Load(),
		LinksCopied:       c.linksCopied.Load(),
		HardlinksCreated:  c.hardlinksCreated.Load(),
		FilesVerified:     c.filesVerified.Load(),
		FilesVerifyFailed: c.filesVerifyFailed.Load(),
		Elapsed:           c.Elapsed(),
	}
}

// Tick records the bytes copied since the previous Tick.
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

// RollingSpeed averages bytes per tick over the last n ticks.
func (c *Collector) RollingSpeed(n int) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := min(n, c.ringCount)
	if count <= 0 {
		return 0
	}
	var sum int64
	for i := range count {
		sum += c.throughput[(c.ringIdx-1-i+ringSize)%ringSize]
	}
	return float64(sum) / float64(count)
}

// ETA estimates the remaining copy time from the 10-tick rolling speed.
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

// Elapsed returns time since the collector was created.
func (c *Collector) Elapsed() time.Duration {
	return time.Since(c.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf(
		"sized=%d skipped=%d copied=%d bytes=%d failed=%d dirs=%d links=%d hardlinks=%d verified=%d",
		s.FoldersSized, s.FoldersSkipped, s.FilesCopied, s.BytesCopied, s.FilesFailed,
		s.DirsCreated, s.LinksCopied, s.HardlinksCreated, s.FilesVerified,
	)
}

// FormatBytes renders b with binary units.
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
