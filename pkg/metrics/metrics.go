package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Notification fan-out
	NotificationsCreated *prometheus.CounterVec
	SMSDeliveries        *prometheus.CounterVec
	EmailDeliveries      *prometheus.CounterVec

	// Idea workflow
	IdeasSubmitted    prometheus.Counter
	StatusTransitions *prometheus.CounterVec

	// Roster bulk operations
	ImportRows     *prometheus.CounterVec
	ImportDuration prometheus.Histogram

	// Upload sweeper
	UploadsSwept prometheus.Counter
}

// NewMetrics creates and registers all application metrics on reg. A nil
// registerer creates unregistered collectors.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		NotificationsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_created_total",
			Help:      "Total number of in-app notifications created",
		}, []string{"type"}),
		SMSDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sms_deliveries_total",
			Help:      "SMS send attempts by outcome",
		}, []string{"status"}),
		EmailDeliveries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "email_deliveries_total",
			Help:      "Email send attempts by outcome",
		}, []string{"status"}),
		IdeasSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ideas_submitted_total",
			Help:      "Total number of submitted ideas",
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "idea_status_transitions_total",
			Help:      "Idea status changes by resulting status and actor role",
		}, []string{"status", "role"}),
		ImportRows: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "Spreadsheet rows processed by operation and outcome",
		}, []string{"operation", "outcome"}),
		ImportDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "import_duration_seconds",
			Help:      "Time spent processing a bulk spreadsheet upload",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}),
		UploadsSwept: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "uploads_swept_total",
			Help:      "Stale upload files removed by the sweeper",
		}),
	}
}

// NewNop returns unregistered collectors for tests and tools.
func NewNop() *Metrics {
	return NewMetrics("ideabox", nil)
}
