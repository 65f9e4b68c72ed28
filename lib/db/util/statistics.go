package util

import (
	"github.com/ValentinKolb/sKV/lib/db"
	"github.com/rcrowley/go-metrics"
)

// ----------------------------------------------------------------------------
// Distribution statistics
// ----------------------------------------------------------------------------

// DistributionStats describes how evenly a quantity is spread over buckets,
// e.g. the number of keys per shard.
type DistributionStats struct {
	Min    int64   `json:"min"`
	Max    int64   `json:"max"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_deviation"`

	// Quality is 1 for a perfectly even distribution and approaches 0 the
	// more skewed it gets.
	Quality float64 `json:"distribution_quality"`
}

// NewDistributionStats computes DistributionStats over the given bucket sizes
func NewDistributionStats(sizes []int64) DistributionStats {
	if len(sizes) == 0 {
		return DistributionStats{}
	}

	stats := DistributionStats{
		Min:    metrics.SampleMin(sizes),
		Max:    metrics.SampleMax(sizes),
		Mean:   metrics.SampleMean(sizes),
		StdDev: metrics.SampleStdDev(sizes),
	}

	// empty buckets everywhere count as even
	if stats.Max == 0 {
		stats.Quality = 1
		return stats
	}

	// average of (1 - coefficient of variation) and min/max ratio
	cv := min(stats.StdDev/stats.Mean, 1)
	stats.Quality = (1-cv)*0.5 + float64(stats.Min)/float64(stats.Max)*0.5

	return stats
}

// ----------------------------------------------------------------------------
// Value sizes
// ----------------------------------------------------------------------------

// DefaultSizeReservoir is the number of value sizes a SizeSampler keeps
const DefaultSizeReservoir = 1028

// SizeSampler collects value sizes into a uniformly sampled histogram.
// It is filled by the engines when GetInfo walks their entries and is safe for concurrent use.
type SizeSampler struct {
	histogram metrics.Histogram
}

// NewSizeSampler creates a sampler keeping at most reservoir sizes (DefaultSizeReservoir if < 1)
func NewSizeSampler(reservoir int) *SizeSampler {
	if reservoir < 1 {
		reservoir = DefaultSizeReservoir
	}
	return &SizeSampler{
		histogram: metrics.NewHistogram(metrics.NewUniformSample(reservoir)),
	}
}

// Add records the size of one value
func (s *SizeSampler) Add(size int) {
	s.histogram.Update(int64(size))
}

// Info summarizes all recorded sizes
func (s *SizeSampler) Info() db.ValueSizeInfo {
	snapshot := s.histogram.Snapshot()
	if snapshot.Count() == 0 {
		return db.ValueSizeInfo{}
	}

	ps := snapshot.Percentiles([]float64{0.5, 0.99})
	return db.ValueSizeInfo{
		Samples: snapshot.Count(),
		Average: int(snapshot.Mean()),
		Median:  int(ps[0]),
		P99:     int(ps[1]),
	}
}
