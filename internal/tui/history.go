package tui

// sparklineChars maps levels 0..7 to Unicode block elements.
var sparklineChars = [8]rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// SampleHistory keeps the most recent percentage samples for a sparkline.
// Once full, each Push drops the oldest sample.
type SampleHistory struct {
	samples []float64
	limit   int
}

// NewSampleHistory creates a history holding at most limit samples.
func NewSampleHistory(limit int) *SampleHistory {
	if limit <= 0 {
		limit = 1
	}
	return &SampleHistory{samples: make([]float64, 0, limit), limit: limit}
}

// Push appends a sample.
func (h *SampleHistory) Push(v float64) {
	if len(h.samples) == h.limit {
		copy(h.samples, h.samples[1:])
		h.samples = h.samples[:h.limit-1]
	}
	h.samples = append(h.samples, v)
}

// Len returns the number of samples held.
func (h *SampleHistory) Len() int { return len(h.samples) }

// Last returns the most recent sample, 0 when empty.
func (h *SampleHistory) Last() float64 {
	if len(h.samples) == 0 {
		return 0
	}
	return h.samples[len(h.samples)-1]
}

// Values returns a copy of the samples, oldest first.
func (h *SampleHistory) Values() []float64 {
	return append([]float64(nil), h.samples...)
}

// SetLimit changes the capacity, keeping the most recent samples.
func (h *SampleHistory) SetLimit(limit int) {
	if limit <= 0 {
		limit = 1
	}
	if len(h.samples) > limit {
		h.samples = append([]float64(nil), h.samples[len(h.samples)-limit:]...)
	}
	h.limit = limit
}

// RenderSparkline converts values in 0..100 into a row of block characters.
func RenderSparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	runes := make([]rune, len(values))
	for i, v := range values {
		v = min(max(v, 0), 100)
		runes[i] = sparklineChars[int(v/100.0*7.0)]
	}
	return string(runes)
}
