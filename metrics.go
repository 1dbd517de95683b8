package passgate

import "sync/atomic"

// MetricID names one engine counter.
type MetricID uint16

const (
	// MetricPasscodeIssued counts stored challenges, delivered or not.
	MetricPasscodeIssued MetricID = iota
	// MetricPasscodeDeliveryFailed counts challenges the Sender could not
	// ship.
	MetricPasscodeDeliveryFailed
	// MetricPasscodeVerifySuccess counts consumed challenges.
	MetricPasscodeVerifySuccess
	// MetricPasscodeVerifyFailure counts rejected submissions of any kind.
	MetricPasscodeVerifyFailure
	// MetricPasscodeAttemptsExceeded counts challenges invalidated early
	// by the guess cap.
	MetricPasscodeAttemptsExceeded
	// MetricRateLimitHit counts throttled issuance requests.
	MetricRateLimitHit
	// MetricAccountCreated counts successful registrations.
	MetricAccountCreated
	// MetricAccountDuplicate counts registrations rejected because the
	// identity already exists at the provider.
	MetricAccountDuplicate
	metricIDCount
)

const cacheLineSize = 64

type paddedCounter struct {
	value uint64
	_     [cacheLineSize - 8]byte
}

// Metrics is the in-process counter set. Counters are cache-line padded
// so hot-path increments from different cores do not false-share.
type Metrics struct {
	enabled  bool
	counters [metricIDCount]paddedCounter
}

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot struct {
	Counters map[MetricID]uint64
}

// NewMetrics builds the counter set; disabled metrics make Inc a no-op.
func NewMetrics(cfg MetricsConfig) *Metrics {
	return &Metrics{
		enabled: cfg.Enabled,
	}
}

// Enabled reports whether counters are recording.
func (m *Metrics) Enabled() bool {
	return m != nil && m.enabled
}

// Inc increments one counter.
func (m *Metrics) Inc(id MetricID) {
	if m == nil || !m.enabled || id >= metricIDCount {
		return
	}
	atomic.AddUint64(&m.counters[id].value, 1)
}

// Value reads one counter.
func (m *Metrics) Value(id MetricID) uint64 {
	if m == nil || id >= metricIDCount {
		return 0
	}
	return atomic.LoadUint64(&m.counters[id].value)
}

// Snapshot copies every counter. Not atomic across counters; intended
// for scraping, not invariant checks.
func (m *Metrics) Snapshot() MetricsSnapshot {
	if m == nil || !m.enabled {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}

	s := MetricsSnapshot{
		Counters: make(map[MetricID]uint64, int(metricIDCount)),
	}

	for id := MetricID(0); id < metricIDCount; id++ {
		s.Counters[id] = atomic.LoadUint64(&m.counters[id].value)
	}

	return s
}
