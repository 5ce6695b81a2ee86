package metrics

import (
	"sync"
	"time"

	"github.com/siherrmann/retriever/model"
)

// confidenceBucketCount splits [0,1] into fixed-width buckets for the
// confidence distribution.
const confidenceBucketCount = 10

// Collector passively aggregates query and indexing metrics for threshold
// tuning. Recording never fails and never blocks a query beyond a short
// mutex hold; readers get consistent snapshots.
type Collector struct {
	mu sync.RWMutex

	queries      int64
	totalLatency time.Duration
	maxLatency   time.Duration

	strategyCounts    map[model.Strategy]int64
	confidenceBuckets [confidenceBucketCount]int64
	degradedQueries   int64

	documentsIndexed int64
	documentsPartial int64
	documentsFailed  int64
	chunksIndexed    int64
	chunksFailed     int64
}

// Snapshot is a consistent copy of the collector state.
type Snapshot struct {
	Queries           int64
	AverageLatency    time.Duration
	MaxLatency        time.Duration
	StrategyCounts    map[model.Strategy]int64
	ConfidenceBuckets [confidenceBucketCount]int64
	DegradedQueries   int64
	DocumentsIndexed  int64
	DocumentsPartial  int64
	DocumentsFailed   int64
	ChunksIndexed     int64
	ChunksFailed      int64
}

// NewCollector creates an empty metrics collector.
func NewCollector() *Collector {
	return &Collector{
		strategyCounts: map[model.Strategy]int64{},
	}
}

// RecordQuery records latency, strategy, confidence and degraded mode of a
// single retrieval.
func (c *Collector) RecordQuery(latency time.Duration, result *model.RetrievalResult) {
	if result == nil {
		return
	}

	bucket := int(result.Confidence * confidenceBucketCount)
	if bucket < 0 {
		bucket = 0
	}
	if bucket >= confidenceBucketCount {
		bucket = confidenceBucketCount - 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.queries++
	c.totalLatency += latency
	if latency > c.maxLatency {
		c.maxLatency = latency
	}
	c.strategyCounts[result.Strategy]++
	c.confidenceBuckets[bucket]++
	if result.Degraded {
		c.degradedQueries++
	}
}

// RecordIndexing records the outcome of indexing one document.
func (c *Collector) RecordIndexing(status model.IndexStatus, chunksIndexed int, chunksFailed int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch status {
	case model.IndexStatusIndexed:
		c.documentsIndexed++
	case model.IndexStatusPartial:
		c.documentsPartial++
	case model.IndexStatusFailed:
		c.documentsFailed++
	}
	c.chunksIndexed += int64(chunksIndexed)
	c.chunksFailed += int64(chunksFailed)
}

// Snapshot returns a copy of the current state.
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snapshot := Snapshot{
		Queries:           c.queries,
		MaxLatency:        c.maxLatency,
		StrategyCounts:    make(map[model.Strategy]int64, len(c.strategyCounts)),
		ConfidenceBuckets: c.confidenceBuckets,
		DegradedQueries:   c.degradedQueries,
		DocumentsIndexed:  c.documentsIndexed,
		DocumentsPartial:  c.documentsPartial,
		DocumentsFailed:   c.documentsFailed,
		ChunksIndexed:     c.chunksIndexed,
		ChunksFailed:      c.chunksFailed,
	}
	if c.queries > 0 {
		snapshot.AverageLatency = c.totalLatency / time.Duration(c.queries)
	}
	for strategy, count := range c.strategyCounts {
		snapshot.StrategyCounts[strategy] = count
	}
	return snapshot
}
