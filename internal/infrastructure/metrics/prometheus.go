// Package metrics exposes authorization, cascade and HTTP metrics to Prometheus.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/talent-api/internal/application/ports"
	"github.com/jhoicas/talent-api/internal/domain/entity"
	"github.com/jhoicas/talent-api/internal/domain/rbac"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus owns a private registry so tests can build several instances.
type Prometheus struct {
	reg *prometheus.Registry

	authz          *prometheus.CounterVec
	cascades       *prometheus.CounterVec
	cascadeSeconds prometheus.Histogram
	cascadeRows    *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpSeconds    *prometheus.HistogramVec
}

// New registers every collector under namespace.
func New(namespace string) *Prometheus {
	reg := prometheus.NewRegistry()
	p := &Prometheus{
		reg: reg,
		authz: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "authz_decisions_total",
			Help: "Gate decisions by capability, result and deny reason.",
		}, []string{"capability", "result", "reason"}),
		cascades: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cascade_deletions_total",
			Help: "Employer deletion cascades by result.",
		}, []string{"result"}),
		cascadeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "cascade_duration_seconds",
			Help:    "Wall time of employer deletion cascades.",
			Buckets: prometheus.DefBuckets,
		}),
		cascadeRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "cascade_rows_deleted_total",
			Help: "Rows removed or detached by employer cascades.",
		}, []string{"category"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
			Help: "HTTP requests by route, method and status.",
		}, []string{"route", "method", "status"}),
		httpSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		p.authz, p.cascades, p.cascadeSeconds, p.cascadeRows, p.httpRequests, p.httpSeconds,
	)
	return p
}

// Registry is exposed for tests.
func (p *Prometheus) Registry() *prometheus.Registry { return p.reg }

// Handler serves the registry in the text exposition format.
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
}

func (p *Prometheus) AuthzDecision(c rbac.Capability, d rbac.Decision) {
	if d.Allowed {
		p.authz.WithLabelValues(string(c), "allowed", "").Inc()
		return
	}
	p.authz.WithLabelValues(string(c), "denied", string(d.Reason)).Inc()
}

func (p *Prometheus) CascadeCompleted(s entity.DeletionStats, elapsed time.Duration) {
	p.cascades.WithLabelValues("completed").Inc()
	p.cascadeSeconds.Observe(elapsed.Seconds())
	for category, n := range map[string]int64{
		"users":                  s.Users,
		"detached_users":         s.DetachedUsers,
		"jobs":                   s.Jobs,
		"job_applications":       s.JobApplications,
		"teams":                  s.Teams,
		"profile_allocations":    s.ProfileAllocations,
		"recruiter_candidates":   s.RecruiterCandidates,
		"reports":                s.Reports,
		"user_creation_requests": s.CreationRequests,
		"deletion_requests":      s.DeletionRequests,
		"employer_applications":  s.EmployerApplications,
		"role_changes":           s.RoleChanges,
		"companies":              s.Companies,
	} {
		if n > 0 {
			p.cascadeRows.WithLabelValues(category).Add(float64(n))
		}
	}
}

func (p *Prometheus) CascadeFailed(reason string, elapsed time.Duration) {
	p.cascades.WithLabelValues(reason).Inc()
	p.cascadeSeconds.Observe(elapsed.Seconds())
}

// Middleware records one sample per request, labelled by the matched route
// pattern so path ids do not explode the label set.
func (p *Prometheus) Middleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			} else if status < http.StatusBadRequest {
				status = http.StatusInternalServerError
			}
		}
		route := c.Route().Path
		p.httpRequests.WithLabelValues(route, c.Method(), strconv.Itoa(status)).Inc()
		p.httpSeconds.WithLabelValues(route, c.Method()).Observe(time.Since(start).Seconds())
		return err
	}
}
