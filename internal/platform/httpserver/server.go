package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	responseengine "crewcall/contexts/recruitment/response-engine"
	httpadapter "crewcall/contexts/recruitment/response-engine/adapters/http"
	"crewcall/contexts/recruitment/response-engine/application/queries"
	domainerrors "crewcall/contexts/recruitment/response-engine/domain/errors"
	enginehttp "crewcall/contexts/recruitment/response-engine/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "crewcall/internal/platform/httpserver/docs"
)

type Server struct {
	mux    *http.ServeMux
	logger *slog.Logger
	addr   string
	engine responseengine.Module
}

func New(engine responseengine.Module, logger *slog.Logger, addr string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:    http.NewServeMux(),
		logger: logger,
		addr:   addr,
		engine: engine,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /v1/campaigns", s.handleListCampaigns)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}", s.handleGetCampaign)
	s.mux.HandleFunc("POST /v1/campaigns/{campaign_id}/responses", s.handleSubmitResponse)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}/responses", s.handleListResponses)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}/responses/export", s.handleExportResponses)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}/analytics", s.handleStatusBreakdown)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}/analytics/fields", s.handleAnalyticsFields)
	s.mux.HandleFunc("GET /v1/campaigns/{campaign_id}/analytics/fields/{field_id}", s.handleFieldHistogram)

	s.mux.HandleFunc("GET /v1/responses/{response_id}", s.handleGetResponse)
	s.mux.HandleFunc("PATCH /v1/responses/{response_id}/status", s.handleSetStatus)
	s.mux.HandleFunc("PATCH /v1/responses/{response_id}/rating", s.handleSetRating)
	s.mux.HandleFunc("POST /v1/responses/{response_id}/tags", s.handleAddTag)
	s.mux.HandleFunc("DELETE /v1/responses/{response_id}/tags/{tag}", s.handleRemoveTag)
	s.mux.HandleFunc("POST /v1/responses/bulk-status", s.handleBulkSetStatus)
}

func (s *Server) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.engine.Handler.ListCampaignsHandler(r.Context(), query.Get("role"), query.Get("status"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.GetCampaignHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	identity := httpadapter.Identity{
		UserID:    r.Header.Get("X-User-Id"),
		UserEmail: r.Header.Get("X-User-Email"),
		UserName:  r.Header.Get("X-User-Name"),
	}
	if strings.TrimSpace(identity.UserID) == "" {
		writeError(w, http.StatusUnauthorized, "missing_user", "X-User-Id header is required")
		return
	}

	var req enginehttp.SubmitResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	resp, err := s.engine.Handler.SubmitResponseHandler(
		r.Context(),
		r.PathValue("campaign_id"),
		identity,
		r.Header.Get("Idempotency-Key"),
		req,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (s *Server) handleListResponses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.engine.Handler.ListResponsesHandler(
		r.Context(),
		r.PathValue("campaign_id"),
		query.Get("status"),
		query.Get("range"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExportResponses(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	campaignID := r.PathValue("campaign_id")
	rendered, format, err := s.engine.Handler.ExportResponsesHandler(
		r.Context(),
		campaignID,
		query.Get("format"),
		query.Get("range"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	filename := "campaign-" + campaignID + "-responses." + string(format)
	if format == queries.ExportFormatJSON {
		w.Header().Set("Content-Type", "application/json")
	} else {
		w.Header().Set("Content-Type", "text/csv")
	}
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(rendered))
}

func (s *Server) handleStatusBreakdown(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.StatusBreakdownHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAnalyticsFields(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.AnalyticsFieldsHandler(r.Context(), r.PathValue("campaign_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleFieldHistogram(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.FieldHistogramHandler(
		r.Context(),
		r.PathValue("campaign_id"),
		r.PathValue("field_id"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetResponse(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.GetResponseHandler(r.Context(), r.PathValue("response_id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetStatus(w http.ResponseWriter, r *http.Request) {
	var req enginehttp.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.SetStatusHandler(
		r.Context(),
		r.PathValue("response_id"),
		r.Header.Get("X-User-Id"),
		req,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleSetRating(w http.ResponseWriter, r *http.Request) {
	var req enginehttp.SetRatingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.SetRatingHandler(r.Context(), r.PathValue("response_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAddTag(w http.ResponseWriter, r *http.Request) {
	var req enginehttp.AddTagRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.AddTagHandler(r.Context(), r.PathValue("response_id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRemoveTag(w http.ResponseWriter, r *http.Request) {
	resp, err := s.engine.Handler.RemoveTagHandler(
		r.Context(),
		r.PathValue("response_id"),
		r.PathValue("tag"),
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleBulkSetStatus(w http.ResponseWriter, r *http.Request) {
	var req enginehttp.BulkSetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}
	resp, err := s.engine.Handler.BulkSetStatusHandler(
		r.Context(),
		r.Header.Get("X-User-Id"),
		req,
	)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeDomainError(w http.ResponseWriter, err error) {
	if verr, ok := domainerrors.AsValidationError(err); ok {
		violations := make([]enginehttp.FieldViolationDTO, 0, len(verr.Violations))
		for _, violation := range verr.Violations {
			violations = append(violations, enginehttp.FieldViolationDTO{
				FieldID: violation.FieldID,
				Reason:  string(violation.Reason),
				Message: violation.Message,
			})
		}
		writeJSON(w, http.StatusUnprocessableEntity, enginehttp.ValidationErrorResponse{
			Code:       "validation_failed",
			Message:    "one or more answers failed validation",
			Violations: violations,
		})
		return
	}

	switch {
	case errors.Is(err, domainerrors.ErrCampaignNotFound):
		writeError(w, http.StatusNotFound, "campaign_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrResponseNotFound):
		writeError(w, http.StatusNotFound, "response_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrFieldNotFound):
		writeError(w, http.StatusNotFound, "field_not_found", err.Error())
	case errors.Is(err, domainerrors.ErrCampaignNotOpen):
		writeError(w, http.StatusConflict, "campaign_not_open", err.Error())
	case errors.Is(err, domainerrors.ErrCampaignFull):
		writeError(w, http.StatusConflict, "campaign_full", err.Error())
	case errors.Is(err, domainerrors.ErrIdempotencyKeyConflict):
		writeError(w, http.StatusConflict, "idempotency_conflict", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidRating):
		writeError(w, http.StatusBadRequest, "invalid_rating", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidReviewStatus):
		writeError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, domainerrors.ErrUnsupportedField):
		writeError(w, http.StatusBadRequest, "unsupported_field", err.Error())
	case errors.Is(err, domainerrors.ErrInvalidResponseInput):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, enginehttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
