package metrics

import (
	"runtime"
	"sync"
)

// MemorySnapshot is one reading of the Go runtime's memory and goroutines.
type MemorySnapshot struct {
	HeapAlloc    uint64
	PeakHeap     uint64 // highest HeapAlloc seen by the sampler so far
	Sys          uint64
	NumGC        uint32
	NumGoroutine int // includes running workers
}

// MemorySampler reads runtime memory statistics and tracks the peak heap
// across readings. It is safe for concurrent use.
type MemorySampler struct {
	mu   sync.Mutex
	peak uint64
	read func(*runtime.MemStats)
}

// NewMemorySampler creates a sampler backed by runtime.ReadMemStats.
func NewMemorySampler() *MemorySampler {
	return &MemorySampler{read: runtime.ReadMemStats}
}

// Sample takes a reading.
func (s *MemorySampler) Sample() MemorySnapshot {
	var ms runtime.MemStats
	s.read(&ms)

	s.mu.Lock()
	s.peak = max(s.peak, ms.HeapAlloc)
	peak := s.peak
	s.mu.Unlock()

	return MemorySnapshot{
		HeapAlloc:    ms.HeapAlloc,
		PeakHeap:     peak,
		Sys:          ms.Sys,
		NumGC:        ms.NumGC,
		NumGoroutine: runtime.NumGoroutine(),
	}
}
