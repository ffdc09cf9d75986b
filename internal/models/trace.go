package models

// Performance badge classifications for a whole trace.
const (
	BadgeFast     = "fast"
	BadgeSlow     = "slow"
	BadgeVerySlow = "very-slow"
	BadgeError    = "error"
)

// TraceInsights combines the four trace aggregate query results for one
// trace id into a single view. Durations are in nanoseconds.
type TraceInsights struct {
	TotalDuration      int64           `json:"totalDuration"`
	SpanCount          int             `json:"spanCount"`
	ServiceBreakdown   []ServiceTiming `json:"serviceBreakdown"`
	DatabaseOperations DatabaseStats   `json:"databaseOperations"`
	Errors             []TraceError    `json:"errors"`
	SlowestService     string          `json:"slowestService,omitempty"`
	HasRetries         bool            `json:"hasRetries"`
	PerformanceBadge   string          `json:"performanceBadge"`
}

// ServiceTiming is the total span time spent in one service, with its share
// of the whole trace duration.
type ServiceTiming struct {
	ServiceName string  `json:"serviceName"`
	TotalTime   int64   `json:"totalTime"`
	SpanCount   int     `json:"spanCount"`
	Percentage  float64 `json:"percentage"`
}

// DatabaseStats summarizes database spans within a trace, per database system.
type DatabaseStats struct {
	TotalCalls    int                 `json:"totalCalls"`
	TotalDuration int64               `json:"totalDuration"`
	Operations    []DatabaseOperation `json:"operations"`
}

// DatabaseOperation is the call count and time spent against one database system.
type DatabaseOperation struct {
	System   string `json:"system"`
	Calls    int    `json:"calls"`
	Duration int64  `json:"duration"`
}

// TraceError is one exception-bearing span within a trace.
type TraceError struct {
	ServiceName      string `json:"serviceName"`
	SpanName         string `json:"spanName"`
	ExceptionType    string `json:"exceptionType"`
	ExceptionMessage string `json:"exceptionMessage"`
	StatusCode       int    `json:"statusCode,omitempty"`
}
