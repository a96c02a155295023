package metrics

import "github.com/prometheus/client_golang/prometheus"

// SiteMetrics exposes counters/histograms for booking and contact flows.
type SiteMetrics struct {
	bookingTotal    *prometheus.CounterVec
	contactTotal    *prometheus.CounterVec
	calendarLatency *prometheus.HistogramVec
}

func NewSiteMetrics(reg prometheus.Registerer) *SiteMetrics {
	m := &SiteMetrics{
		bookingTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "otodrive",
			Subsystem: "booking",
			Name:      "submissions_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome"}),
		contactTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "otodrive",
			Subsystem: "contact",
			Name:      "submissions_total",
			Help:      "Contact form submissions by status",
		}, []string{"status"}),
		calendarLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "otodrive",
			Subsystem: "calendar",
			Name:      "insert_seconds",
			Help:      "Latency of Google Calendar event inserts",
			Buckets:   prometheus.DefBuckets,
		}, []string{"result"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.bookingTotal, m.contactTotal, m.calendarLatency)
	return m
}

func (m *SiteMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookingTotal.WithLabelValues(outcome).Inc()
}

func (m *SiteMetrics) ObserveContact(status string) {
	if m == nil {
		return
	}
	m.contactTotal.WithLabelValues(status).Inc()
}

// ObserveCalendarInsert records one insert; result is "ok" or "error".
func (m *SiteMetrics) ObserveCalendarInsert(ok bool, seconds float64) {
	if m == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "error"
	}
	m.calendarLatency.WithLabelValues(result).Observe(seconds)
}
