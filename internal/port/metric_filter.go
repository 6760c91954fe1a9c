package port

import "time"

// MetricFilter narrows metric list queries. Zero values mean "no filter".
type MetricFilter struct {
	MetricType string
	From       time.Time
	To         time.Time
	Source     string
}
