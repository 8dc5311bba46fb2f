package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates the service cannot answer queries.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
	// CheckNotReady indicates a component that has not finished starting.
	CheckNotReady CheckResult = "not_ready"
)

// Report aggregates health check results.
type Report struct {
	Status Status                 `json:"status"`
	Checks map[string]CheckResult `json:"checks"`
}

// Service coordinates health checks.
type Service struct {
	db    DBPinger
	index IndexStats
}

// New creates a Service. db can be nil when no store is configured.
func New(db DBPinger, idx IndexStats) *Service {
	return &Service{db: db, index: idx}
}

// Check runs health checks against all components. Search without an index
// is Unhealthy; a failing store only degrades feed caching and interactions.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.index.Stats().Ready {
		checks["index"] = CheckOK
	} else {
		checks["index"] = CheckNotReady
	}

	if s.db != nil {
		if err := s.db.Ping(ctx); err != nil {
			checks["database"] = CheckError
		} else {
			checks["database"] = CheckOK
		}
	}

	status := Healthy
	if checks["index"] != CheckOK {
		status = Unhealthy
	} else if checks["database"] == CheckError {
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
