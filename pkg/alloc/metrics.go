package alloc

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	kindHeap = "heap"
	kindPool = "pool"
)

var (
	registerOnce sync.Once

	allocations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bufview",
			Subsystem: "alloc",
			Name:      "allocations_total",
			Help:      "Blocks handed out, by allocator kind.",
		},
		[]string{"allocator"},
	)
	releases = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "bufview",
			Subsystem: "alloc",
			Name:      "releases_total",
			Help:      "Blocks whose last handle reference was released.",
		},
		[]string{"allocator"},
	)
	elementsInUse = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "bufview",
			Subsystem: "alloc",
			Name:      "elements_in_use",
			Help:      "Live elements across outstanding blocks.",
		},
		[]string{"allocator"},
	)
)

// RegisterMetrics registers the allocator collectors with the default
// registry. Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(allocations, releases, elementsInUse)
	})
}

func recordAlloc(kind string, n int) {
	RegisterMetrics()
	allocations.WithLabelValues(kind).Inc()
	elementsInUse.WithLabelValues(kind).Add(float64(n))
}

func recordRelease(kind string, n int) {
	RegisterMetrics()
	releases.WithLabelValues(kind).Inc()
	elementsInUse.WithLabelValues(kind).Sub(float64(n))
}
