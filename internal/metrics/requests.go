package metrics

import (
	"sync"
	"time"
)

// RequestSnapshot summarises the requests seen over the sampled window.
type RequestSnapshot struct {
	Window            time.Duration
	Requests          int
	Errors            int
	RequestsPerMinute float64
	ErrorRate         float64 // percent of requests answered with a 5xx
	AvgResponseTime   time.Duration
}

type minuteBucket struct {
	minute   int64
	requests int
	errors   int
	latency  time.Duration
}

// RequestStats keeps per-minute request counters for a rolling window so the
// performance report can show measured traffic figures.
type RequestStats struct {
	mu      sync.Mutex
	buckets []minuteBucket
	now     func() time.Time
}

func NewRequestStats(window time.Duration) *RequestStats {
	minutes := int(window / time.Minute)
	if minutes < 1 {
		minutes = 1
	}
	return &RequestStats{buckets: make([]minuteBucket, minutes), now: time.Now}
}

func (s *RequestStats) Observe(status int, latency time.Duration) {
	m := s.now().Unix() / 60
	s.mu.Lock()
	defer s.mu.Unlock()
	b := &s.buckets[m%int64(len(s.buckets))]
	if b.minute != m {
		*b = minuteBucket{minute: m}
	}
	b.requests++
	b.latency += latency
	if status >= 500 {
		b.errors++
	}
}

func (s *RequestStats) Snapshot() RequestSnapshot {
	m := s.now().Unix() / 60
	size := int64(len(s.buckets))
	snap := RequestSnapshot{Window: time.Duration(size) * time.Minute}
	var latency time.Duration

	s.mu.Lock()
	for _, b := range s.buckets {
		if b.requests == 0 || m-b.minute >= size {
			continue
		}
		snap.Requests += b.requests
		snap.Errors += b.errors
		latency += b.latency
	}
	s.mu.Unlock()

	if snap.Requests == 0 {
		return snap
	}
	snap.RequestsPerMinute = float64(snap.Requests) / float64(size)
	snap.ErrorRate = float64(snap.Errors) / float64(snap.Requests) * 100
	snap.AvgResponseTime = latency / time.Duration(snap.Requests)
	return snap
}
