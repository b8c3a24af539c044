package metrics

// Common label names used across metrics
const (
	LabelMethod   = "method"
	LabelPath     = "path"
	LabelStatus   = "status"
	LabelType     = "type"
	LabelToolType = "tool_type"
	LabelReason   = "reason"
	LabelOutcome  = "outcome"
	LabelModifier = "modifier"
	LabelResult   = "result"
)

// Label values
const (
	OutcomeRebuilt   = "rebuilt"
	OutcomeUnchanged = "unchanged"
	OutcomeNothing   = "nothing_to_rebuild"
	OutcomeFailed    = "failed"

	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheStale = "stale"

	// PathUnmatched labels requests chi could not route
	PathUnmatched = "unmatched"
)

// HTTPLatencyBuckets defines the histogram buckets for HTTP request duration
// in seconds, from 1ms to 10s.
var HTTPLatencyBuckets = []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}

// RepairIterationBuckets covers single-step repairs up to long material dumps
var RepairIterationBuckets = []float64{1, 2, 3, 5, 10, 25, 100, 1000}

// Debug log messages
const (
	LogMsgEventPayloadDecodeFailed = "Event payload could not be decoded"
	LogMsgMetricsRecorded          = "Metrics recorded for event"
)

// OutcomeStale is a rebuild that failed because registry changes left the
// stored materials unusable for their tool type
const OutcomeStale = "stale_materials"
