package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/openfx/currency-widget/internal/application/service"
	"github.com/openfx/currency-widget/internal/application/view"
	"github.com/openfx/currency-widget/internal/domain/entity"
	domainservice "github.com/openfx/currency-widget/internal/domain/service"
	"github.com/openfx/currency-widget/internal/infrastructure/logger"
	"github.com/openfx/currency-widget/internal/infrastructure/middleware"
	"github.com/openfx/currency-widget/internal/infrastructure/store"
)

// WidgetHandler exposes the widget's input events and projected view over
// HTTP. It owns no state of its own; every request goes through the workflow
// or the projector.
type WidgetHandler struct {
	workflow      *service.Workflow
	projector     *view.Projector
	catalog       *store.CatalogStore
	provider      domainservice.RateProvider
	decimalPlaces int
	logger        logger.Logger
}

// NewWidgetHandler creates a new widget handler
func NewWidgetHandler(workflow *service.Workflow, projector *view.Projector, catalog *store.CatalogStore, provider domainservice.RateProvider, decimalPlaces int, log logger.Logger) *WidgetHandler {
	if log == nil {
		log = logger.NewNop()
	}

	return &WidgetHandler{
		workflow:      workflow,
		projector:     projector,
		catalog:       catalog,
		provider:      provider,
		decimalPlaces: decimalPlaces,
		logger:        log,
	}
}

// GetView returns the current projection of the widget state
func (h *WidgetHandler) GetView(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.currentView())
}

// GetCatalog returns the selectable currency codes
func (h *WidgetHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	catalog, ok := h.catalog.Get()
	if !ok {
		sendErrorResponse(w, h.logger, "Currency catalog unavailable",
			"The currency catalog has not been loaded yet. Reload to retry.",
			http.StatusServiceUnavailable, requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, CatalogResponse{
		Base:       catalog.Base,
		Currencies: catalog.Codes(),
	})
}

// SubmitEvent runs one conversion. Input fields present in the body update
// the session before the workflow runs.
func (h *WidgetHandler) SubmitEvent(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body must be valid JSON", http.StatusBadRequest, requestID)
		return
	}

	if req.Amount != "" {
		h.workflow.AmountChanged(req.Amount)
	}
	if req.From != "" {
		if err := h.workflow.CurrencyChanged(service.FieldFrom, req.From); err != nil {
			sendErrorResponse(w, h.logger, "Invalid currency selection", err.Error(), http.StatusBadRequest, requestID)
			return
		}
	}
	if req.To != "" {
		if err := h.workflow.CurrencyChanged(service.FieldTo, req.To); err != nil {
			sendErrorResponse(w, h.logger, "Invalid currency selection", err.Error(), http.StatusBadRequest, requestID)
			return
		}
	}

	result, err := h.workflow.Submit(r.Context())
	if err != nil {
		h.writeWorkflowError(w, requestID, err)
		return
	}

	h.logger.Info("Conversion request handled", map[string]interface{}{
		"request_id": requestID,
		"from":       result.From,
		"to":         result.To,
		"converted":  result.Converted.String(),
	})

	writeJSON(w, h.logger, http.StatusOK, h.currentView())
}

// AmountChangedEvent applies the continuous amount filter and echoes the
// sanitized text back to the caller
func (h *WidgetHandler) AmountChangedEvent(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req AmountChangedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body must be valid JSON", http.StatusBadRequest, requestID)
		return
	}

	sanitized := h.workflow.AmountChanged(req.Text)
	writeJSON(w, h.logger, http.StatusOK, AmountChangedResponse{Text: sanitized})
}

// CurrencyChangedEvent updates one selection slot and returns the refreshed
// view. Changing a selection never triggers a fetch.
func (h *WidgetHandler) CurrencyChangedEvent(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req CurrencyChangedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body must be valid JSON", http.StatusBadRequest, requestID)
		return
	}

	if err := h.workflow.CurrencyChanged(req.Field, req.Code); err != nil {
		sendErrorResponse(w, h.logger, "Invalid currency selection", err.Error(), http.StatusBadRequest, requestID)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, h.currentView())
}

// ReloadEvent replaces the currency catalog wholesale
func (h *WidgetHandler) ReloadEvent(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	if err := h.workflow.Reload(r.Context()); err != nil {
		h.writeWorkflowError(w, requestID, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, h.currentView())
}

// Convert performs a stateless one-shot conversion from query parameters,
// without touching the widget session
func (h *WidgetHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	q := r.URL.Query()
	req := entity.ConversionRequest{
		Amount: strings.TrimSpace(q.Get("amount")),
		From:   strings.ToUpper(strings.TrimSpace(q.Get("from"))),
		To:     strings.ToUpper(strings.TrimSpace(q.Get("to"))),
	}

	result, err := service.Convert(r.Context(), h.provider, req, h.decimalPlaces)
	if err != nil {
		h.writeWorkflowError(w, requestID, err)
		return
	}

	writeJSON(w, h.logger, http.StatusOK, ConvertResponse{
		From:            result.From,
		To:              result.To,
		Amount:          result.Amount.StringFixed(int32(h.decimalPlaces)),
		ExchangeRate:    result.Rate.StringFixed(4),
		ConvertedAmount: result.Converted.StringFixed(int32(h.decimalPlaces)),
		RateText:        fmt.Sprintf("1 %s = %s %s", result.From, result.Rate.StringFixed(4), result.To),
	})
}

// Health reports liveness and whether the catalog is loaded
func (h *WidgetHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, HealthResponse{
		Status:        "ok",
		CatalogLoaded: h.catalog.Loaded(),
	})
}

// RegisterRoutes registers the widget handler routes
func (h *WidgetHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/view", h.GetView).Methods("GET")
	router.HandleFunc("/catalog", h.GetCatalog).Methods("GET")
	router.HandleFunc("/convert", h.Convert).Methods("GET")
	router.HandleFunc("/healthz", h.Health).Methods("GET")
	router.HandleFunc("/events/submit", h.SubmitEvent).Methods("POST")
	router.HandleFunc("/events/amount-changed", h.AmountChangedEvent).Methods("POST")
	router.HandleFunc("/events/currency-changed", h.CurrencyChangedEvent).Methods("POST")
	router.HandleFunc("/events/reload", h.ReloadEvent).Methods("POST")

	h.logger.Info("Widget routes registered", map[string]interface{}{
		"routes": []string{
			"GET /view",
			"GET /catalog",
			"GET /convert",
			"GET /healthz",
			"POST /events/submit",
			"POST /events/amount-changed",
			"POST /events/currency-changed",
			"POST /events/reload",
		},
	})
}

// currentView projects the workflow state with the catalog's option list
func (h *WidgetHandler) currentView() view.View {
	return h.projector.Project(h.workflow.Snapshot(), h.catalog.Codes())
}

// writeWorkflowError maps a workflow failure onto a status code and a short
// user-facing description
func (h *WidgetHandler) writeWorkflowError(w http.ResponseWriter, requestID string, err error) {
	var verr *entity.ValidationError
	switch {
	case errors.As(err, &verr):
		sendErrorResponse(w, h.logger, "Invalid input", verr.Message, http.StatusBadRequest, requestID)
	case errors.Is(err, entity.ErrBusy):
		sendErrorResponse(w, h.logger, "Conversion in progress",
			"A conversion is already running. Please wait for it to finish.",
			http.StatusConflict, requestID)
	case errors.Is(err, entity.ErrCatalogNotLoaded):
		sendErrorResponse(w, h.logger, "Currency catalog unavailable",
			"The currency catalog has not been loaded. Reload to retry.",
			http.StatusServiceUnavailable, requestID)
	case errors.Is(err, entity.ErrMissingRate):
		sendErrorResponse(w, h.logger, "No exchange rate available",
			"No exchange rate is available for the selected currency pair.",
			http.StatusBadGateway, requestID)
	case errors.Is(err, entity.ErrAPI):
		sendErrorResponse(w, h.logger, "Exchange rate service error",
			"The exchange rate service reported an error. Please try again later.",
			http.StatusBadGateway, requestID)
	case errors.Is(err, entity.ErrNetwork):
		sendErrorResponse(w, h.logger, "Exchange rate service unreachable",
			"The exchange rate service is temporarily unavailable. Please try again later.",
			http.StatusServiceUnavailable, requestID)
	default:
		h.logger.Error("Unexpected error in widget handler", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Internal server error",
			"An unexpected error occurred. Please try again later.",
			http.StatusInternalServerError, requestID)
	}
}

// writeJSON writes a JSON payload with the given status
func writeJSON(w http.ResponseWriter, log logger.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to encode response", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// sendErrorResponse writes a standardized error body
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, errMsg, description string, status int, requestID string) {
	writeJSON(w, log, status, ErrorResponse{
		Error:       errMsg,
		Status:      status,
		Description: description,
		RequestID:   requestID,
	})
}
