package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "honors_hub"

type Metrics struct {
	HTTPRequests       *prometheus.CounterVec
	ProfilesCreated    prometheus.Counter
	BootstrapsShared   prometheus.Counter
	PointsAwarded      prometheus.Counter
	ProposalsSubmitted prometheus.Counter
	StatusTransitions  *prometheus.CounterVec
	SuggestionRequests *prometheus.CounterVec
	SignInFailures     *prometheus.CounterVec
}

func New(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)
	return &Metrics{
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		ProfilesCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profiles_created_total",
			Help:      "Profiles created on first sign-in.",
		}),
		BootstrapsShared: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "profile_bootstraps_shared_total",
			Help:      "Bootstrap calls that joined an in-flight bootstrap for the same identity.",
		}),
		PointsAwarded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Honors points granted through engagement records.",
		}),
		ProposalsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposals_submitted_total",
			Help:      "Proposals submitted by members.",
		}),
		StatusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "proposal_status_transitions_total",
			Help:      "Applied proposal status transitions.",
		}, []string{"from", "to"}),
		SuggestionRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestion_requests_total",
			Help:      "AI suggestion requests by result.",
		}, []string{"result"}),
		SignInFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sign_in_failures_total",
			Help:      "Interactive sign-in failures by category.",
		}, []string{"kind"}),
	}
}

// NewUnregistered is for tests and tools that never expose /metrics.
func NewUnregistered() *Metrics {
	return New(prometheus.NewRegistry())
}
