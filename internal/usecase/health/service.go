package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates an optional component is failing.
	Degraded Status = "degraded"
	// Unhealthy indicates predictions cannot be served.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names reported in Report.Checks.
const (
	ComponentModel     = "model"
	ComponentDatabase  = "database"
	ComponentExtractor = "extractor"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	model     Checker
	db        DBPinger
	extractor Checker
}

// New creates a Service. db and extractor can be nil.
func New(model Checker, db DBPinger, extractor Checker) *Service {
	return &Service{model: model, db: db, extractor: extractor}
}

// Check runs health checks against all components.
// A failing model makes the service unhealthy; other failures degrade it.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	checks[ComponentModel] = result(s.model.HealthCheck(ctx))
	if s.db != nil {
		checks[ComponentDatabase] = result(s.db.Ping(ctx))
	}
	if s.extractor != nil {
		checks[ComponentExtractor] = result(s.extractor.HealthCheck(ctx))
	}

	status := Healthy
	for name, v := range checks {
		if v != CheckError {
			continue
		}
		if name == ComponentModel {
			status = Unhealthy
			break
		}
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}

func result(err error) CheckResult {
	if err != nil {
		return CheckError
	}
	return CheckOK
}
