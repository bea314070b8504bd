package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Metrics holds all Prometheus metric collectors for the crewdesk server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Auth metrics.
	AuthFailuresTotal  *prometheus.CounterVec
	AuthSuccessesTotal *prometheus.CounterVec

	// Login throttling.
	LoginRejectionsTotal prometheus.Counter

	// Domain metrics.
	RosterReplacementsTotal   *prometheus.CounterVec
	TeamPartialFailuresTotal  prometheus.Counter
	AssignmentsCreatedTotal   prometheus.Counter
	AssignmentsRemovedTotal   prometheus.Counter
	LeaveDecisionsTotal       *prometheus.CounterVec
	DirectorySyncRecordsTotal *prometheus.CounterVec

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crewdesk_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "crewdesk_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		AuthFailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crewdesk_auth_failures_total",
			Help: "Total number of authentication failures.",
		}, []string{"auth_type"}),

		AuthSuccessesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crewdesk_auth_successes_total",
			Help: "Total number of successful authentications.",
		}, []string{"auth_type"}),

		LoginRejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crewdesk_login_rejections_total",
			Help: "Total number of login attempts rejected by rate limiting.",
		}),

		RosterReplacementsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crewdesk_roster_replacements_total",
			Help: "Total number of team roster replacements.",
		}, []string{"operation"}),

		TeamPartialFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crewdesk_team_partial_failures_total",
			Help: "Total number of team creates where the member step failed after the team row was created.",
		}),

		AssignmentsCreatedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crewdesk_assignments_created_total",
			Help: "Total number of shift assignment records created.",
		}),

		AssignmentsRemovedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crewdesk_assignments_removed_total",
			Help: "Total number of shift assignment records removed.",
		}),

		LeaveDecisionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crewdesk_leave_decisions_total",
			Help: "Total number of leave request decisions.",
		}, []string{"status"}),

		DirectorySyncRecordsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "crewdesk_directory_sync_records_total",
			Help: "Total number of directory sync records processed.",
		}, []string{"outcome"}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "crewdesk_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AuthFailuresTotal,
		m.AuthSuccessesTotal,
		m.LoginRejectionsTotal,
		m.RosterReplacementsTotal,
		m.TeamPartialFailuresTotal,
		m.AssignmentsCreatedTotal,
		m.AssignmentsRemovedTotal,
		m.LeaveDecisionsTotal,
		m.DirectorySyncRecordsTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RegisterDBPoolCollector registers a custom DB pool stats collector.
func (m *Metrics) RegisterDBPoolCollector(statFunc DBPoolStatFunc) {
	m.registry.MustRegister(NewDBPoolCollector(statFunc))
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, pathPattern string, statusCode int, seconds float64) {
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, fmt.Sprintf("%d", statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(seconds)
}

// IncAuthFailure increments the auth failure counter for the given auth type.
func (m *Metrics) IncAuthFailure(authType string) {
	m.AuthFailuresTotal.WithLabelValues(authType).Inc()
}

// IncAuthSuccess increments the auth success counter for the given auth type.
func (m *Metrics) IncAuthSuccess(authType string) {
	m.AuthSuccessesTotal.WithLabelValues(authType).Inc()
}

// IncLoginRejection increments the throttled-login counter.
func (m *Metrics) IncLoginRejection() {
	m.LoginRejectionsTotal.Inc()
}

// IncRosterReplacement increments the roster replacement counter for the
// given operation ("create" or "update").
func (m *Metrics) IncRosterReplacement(operation string) {
	m.RosterReplacementsTotal.WithLabelValues(operation).Inc()
}

// IncTeamPartialFailure increments the partial-failure counter.
func (m *Metrics) IncTeamPartialFailure() {
	m.TeamPartialFailuresTotal.Inc()
}

// AddAssignmentsCreated adds n to the assignment-created counter.
func (m *Metrics) AddAssignmentsCreated(n int) {
	m.AssignmentsCreatedTotal.Add(float64(n))
}

// IncAssignmentRemoved increments the assignment-removed counter.
func (m *Metrics) IncAssignmentRemoved() {
	m.AssignmentsRemovedTotal.Inc()
}

// IncLeaveDecision increments the leave decision counter for a status.
func (m *Metrics) IncLeaveDecision(status string) {
	m.LeaveDecisionsTotal.WithLabelValues(status).Inc()
}

// IncSyncRecord increments the directory sync counter for an outcome
// ("upserted" or "skipped").
func (m *Metrics) IncSyncRecord(outcome string) {
	m.DirectorySyncRecordsTotal.WithLabelValues(outcome).Inc()
}
