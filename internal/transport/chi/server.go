package chi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/symptomd/internal/domain"
	"github.com/kailas-cloud/symptomd/internal/domain/disease"
	domprediction "github.com/kailas-cloud/symptomd/internal/domain/prediction"
	domstats "github.com/kailas-cloud/symptomd/internal/domain/stats"
	logpkg "github.com/kailas-cloud/symptomd/internal/logger"
	gen "github.com/kailas-cloud/symptomd/internal/transport/generated"
	healthuc "github.com/kailas-cloud/symptomd/internal/usecase/health"
	modeluc "github.com/kailas-cloud/symptomd/internal/usecase/model"
	predictionuc "github.com/kailas-cloud/symptomd/internal/usecase/prediction"
	statsuc "github.com/kailas-cloud/symptomd/internal/usecase/stats"
)

// User-facing guidance attached to prediction errors.
const (
	GuidanceEmptyInput  = "None of the entered symptoms were recognized. Please select at least one symptom from the list."
	GuidanceFailure     = "We could not complete the prediction. " + disease.GenericRecommendation + " " + disease.GenericPrecaution + " " + disease.GenericWhenToSeeDoctor
	GuidanceUnavailable = "The prediction service is temporarily unavailable. Please try again shortly."
)

const defaultRetryAfter = 30 * time.Second

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server implements generated.ServerInterface for the oapi-codegen chi router.
type Server struct {
	gen.Unimplemented
	predictions   *predictionuc.Service
	models        *modeluc.Service
	stats         *statsuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	validate      *validator.Validate
	retryAfter    time.Duration
	errorHandlers []errorHandler
	// reloadHandlers map load failures by cause for the admin reload route.
	reloadHandlers []errorHandler
}

var _ gen.ServerInterface = (*Server)(nil)

// NewServer creates an HTTP API server.
func NewServer(
	predictions *predictionuc.Service,
	models *modeluc.Service,
	stats *statsuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		predictions: predictions,
		models:      models,
		stats:       stats,
		health:      health,
		logger:      logger,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
		retryAfter:  defaultRetryAfter,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyInput, http.StatusUnprocessableEntity,
			gen.ErrorResponseCodeEmptyInput, GuidanceEmptyInput),
		sentinelHandler(domain.ErrReloadInProgress, http.StatusConflict, gen.ErrorResponseCodeReloadInProgress, ""),
		// Serving paths report any unavailable model as retry-later, whatever the load failure was.
		s.modelUnavailableHandler,
		sentinelHandler(domain.ErrVocabularyMismatch, http.StatusConflict, gen.ErrorResponseCodeVocabularyMismatch, ""),
		sentinelHandler(domain.ErrPredictionFailure, http.StatusInternalServerError,
			gen.ErrorResponseCodePredictionFailed, GuidanceFailure),
		sentinelHandler(domain.ErrUnknownDisease, http.StatusNotFound, gen.ErrorResponseCodeDiseaseNotFound, ""),
	}
	s.reloadHandlers = append([]errorHandler{
		sentinelHandler(domain.ErrReloadInProgress, http.StatusConflict, gen.ErrorResponseCodeReloadInProgress, ""),
		sentinelHandler(domain.ErrVocabularyMismatch, http.StatusConflict, gen.ErrorResponseCodeVocabularyMismatch, ""),
	}, s.errorHandlers...)
	return s
}

// WithRetryAfter sets the Retry-After hint sent with model_unavailable responses.
func (s *Server) WithRetryAfter(d time.Duration) *Server {
	if d > 0 {
		s.retryAfter = d
	}
	return s
}

// CreatePrediction handles POST /api/v1/predictions.
func (s *Server) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	var req gen.PredictionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := s.validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, validationMessage(err))
		return
	}

	var text string
	if req.Text != nil {
		text = *req.Text
	}

	res, err := s.predictions.PredictText(r.Context(), req.Symptoms, text)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, predictionToGen(res))
}

// ListSymptoms handles GET /api/v1/symptoms.
func (s *Server) ListSymptoms(w http.ResponseWriter, _ *http.Request) {
	v := s.predictions.Vocabulary()
	writeJSON(w, http.StatusOK, gen.SymptomsResponse{
		Version:  v.Version(),
		Checksum: v.Checksum(),
		Names:    v.Names(),
	})
}

// ListDiseases handles GET /api/v1/diseases.
func (s *Server) ListDiseases(w http.ResponseWriter, _ *http.Request) {
	catalog := s.predictions.Catalog()
	infos := catalog.Infos()
	items := make([]gen.Disease, len(infos))
	for i, info := range infos {
		items[i] = diseaseToGen(info)
	}
	writeJSON(w, http.StatusOK, gen.DiseaseListResponse{
		Items:          items,
		DefaultDisease: string(catalog.DefaultLabel()),
	})
}

// GetDisease handles GET /api/v1/diseases/{disease}.
func (s *Server) GetDisease(w http.ResponseWriter, r *http.Request, name gen.DiseaseName) {
	info, err := s.predictions.Catalog().Get(disease.Label(name))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, diseaseToGen(info))
}

// GetStats handles GET /api/v1/stats.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request, params gen.GetStatsParams) {
	var raw string
	if params.Period != nil {
		raw = string(*params.Period)
	}
	period, err := domstats.ParsePeriod(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, gen.ErrorResponseCodeValidationFailed, err.Error())
		return
	}

	report, err := s.stats.Report(r.Context(), period)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	counts := make([]gen.StatsCount, len(report.Counts()))
	for i, c := range report.Counts() {
		counts[i] = gen.StatsCount{Disease: string(c.Label), Count: c.Count}
	}
	resp := gen.StatsResponse{
		Period:  gen.StatsResponsePeriod(report.Period()),
		Counts:  counts,
		Total:   report.Total(),
		Enabled: report.Enabled(),
	}
	if report.PeriodStart() > 0 {
		start := time.UnixMilli(report.PeriodStart()).UTC()
		end := time.UnixMilli(report.PeriodEnd()).UTC()
		resp.PeriodStartAt = &start
		resp.PeriodEndAt = &end
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetModelStatus handles GET /api/v1/admin/model.
func (s *Server) GetModelStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, modelStatusToGen(s.models.Status()))
}

// ReloadModel handles POST /api/v1/admin/model/reload.
// A failed reload keeps the previous model serving.
func (s *Server) ReloadModel(w http.ResponseWriter, r *http.Request) {
	if _, err := s.models.TryLoad(r.Context(), modeluc.TriggerAPI); err != nil {
		s.handleErrorWith(w, r, err, s.reloadHandlers)
		return
	}
	writeJSON(w, http.StatusOK, modelStatusToGen(s.models.Status()))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]gen.HealthResponseChecks)
	for k, v := range report.Checks {
		checks[k] = gen.HealthResponseChecks(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, gen.HealthResponse{
		Status: gen.HealthResponseStatus(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message string) {
	writeJSON(w, status, gen.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeGuidedError(w http.ResponseWriter, status int, code gen.ErrorResponseCode, message, guidance string) {
	resp := gen.ErrorResponse{Code: code, Message: message}
	if guidance != "" {
		resp.Guidance = &guidance
	}
	writeJSON(w, status, resp)
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code gen.ErrorResponseCode, guidance string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeGuidedError(w, status, code, sentinel.Error(), guidance)
		return true
	}
}

// modelUnavailableHandler answers 503 with a Retry-After hint.
func (s *Server) modelUnavailableHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrModelUnavailable) {
		return false
	}
	w.Header().Set("Retry-After", strconv.Itoa(int(s.retryAfter.Seconds())))
	writeGuidedError(w, http.StatusServiceUnavailable, gen.ErrorResponseCodeModelUnavailable,
		domain.ErrModelUnavailable.Error(), GuidanceUnavailable)
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.handleErrorWith(w, r, err, s.errorHandlers)
}

// handleErrorWith writes the first matching handler's response. Messages are
// sentinel texts only, never the wrapped cause.
func (s *Server) handleErrorWith(w http.ResponseWriter, r *http.Request, err error, handlers []errorHandler) {
	log := logpkg.FromContextOr(r.Context(), s.logger)
	log.Warn("domain error", zap.Error(err))
	for _, h := range handlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, gen.ErrorResponseCodeInternalError, "internal error")
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return "field " + fe.Namespace() + " failed '" + fe.Tag() + "' validation"
	}
	return "invalid request"
}

func predictionToGen(r domprediction.Result) gen.PredictionResponse {
	dist := r.Distribution()
	out := make([]gen.ClassProbability, len(dist))
	for i, p := range dist {
		out[i] = gen.ClassProbability{Disease: string(p.Label), Probability: p.Probability}
	}
	return gen.PredictionResponse{
		Id:              r.ID(),
		Disease:         string(r.Disease()),
		PredictedLabel:  string(r.Predicted()),
		Confidence:      r.Confidence(),
		Distribution:    out,
		Recommendations: nonNil(r.Recommendations()),
		Precautions:     nonNil(r.Precautions()),
		WhenToSeeDoctor: r.WhenToSeeDoctor(),
		Specialization:  r.Specialization(),
		MatchedSymptoms: nonNil(r.Matched()),
		IgnoredSymptoms: nonNil(r.Ignored()),
		Fallback:        r.Fallback(),
		ModelVersion:    r.ModelVersion(),
	}
}

func diseaseToGen(info disease.Info) gen.Disease {
	return gen.Disease{
		Name:            string(info.Label()),
		Recommendations: nonNil(info.Recommendations()),
		Precautions:     nonNil(info.Precautions()),
		WhenToSeeDoctor: info.WhenToSeeDoctor(),
		Specialization:  info.Specialization(),
	}
}

func modelStatusToGen(st modeluc.Status) gen.ModelStatusResponse {
	resp := gen.ModelStatusResponse{
		Available: st.Available,
		Path:      st.Path,
	}
	if st.LastError != "" {
		msg := st.LastError
		at := st.LastTry.UTC()
		resp.LastError = &msg
		resp.LastErrorAt = &at
	}
	if m := st.Model; m != nil {
		classes := labelsToStrings(m.Classes())
		info := &gen.ModelInfo{
			Version:           m.Version(),
			Kind:              m.Kind(),
			Classes:           classes,
			VocabularyVersion: m.Vocabulary().Version(),
			LoadedAt:          m.LoadedAt().UTC(),
		}
		if u := m.Unmapped(); len(u) > 0 {
			info.Unmapped = labelsToStrings(u)
		}
		if t := m.Training(); t.Samples > 0 {
			ti := &gen.TrainingInfo{Samples: t.Samples, Trees: t.Trees, Seed: t.Seed}
			if t.Accuracy > 0 {
				acc := t.Accuracy
				ti.Accuracy = &acc
			}
			if !t.CreatedAt.IsZero() {
				created := t.CreatedAt.UTC()
				ti.CreatedAt = &created
			}
			info.Training = ti
		}
		resp.Model = info
	}
	return resp
}

func labelsToStrings(ls []disease.Label) []string {
	out := make([]string, len(ls))
	for i, l := range ls {
		out[i] = string(l)
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
