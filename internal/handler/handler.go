package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"homewise/internal/affiliate"
	"homewise/internal/conversation"
	"homewise/internal/domain"
	"homewise/internal/llm"
	"homewise/internal/llmclient"
	"homewise/internal/photo"
	diagnosisrepo "homewise/internal/repository/diagnosis"
	maintenancerepo "homewise/internal/repository/maintenance"
	shoppingrepo "homewise/internal/repository/shoppinglist"
)

// Handler carries the wired application services for every HTTP endpoint.
type Handler struct {
	gateway   *llm.Gateway
	sessions  *conversation.Manager
	diagnoses diagnosisrepo.Store
	shopping  shoppingrepo.Store
	tasks     maintenancerepo.Store
	photos    photo.Store
	links     *affiliate.Builder
	validate  *validator.Validate
	log       *slog.Logger
}

func New(
	gateway *llm.Gateway,
	sessions *conversation.Manager,
	diagnoses diagnosisrepo.Store,
	shopping shoppingrepo.Store,
	tasks maintenancerepo.Store,
	photos photo.Store,
	links *affiliate.Builder,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		gateway:   gateway,
		sessions:  sessions,
		diagnoses: diagnoses,
		shopping:  shopping,
		tasks:     tasks,
		photos:    photos,
		links:     links,
		validate:  validator.New(),
		log:       logger,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	// The status line is already out; an encode failure here means the
	// connection died mid-response.
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// writeError maps the error taxonomy onto responses. Capacity exhaustion gets
// its own kind so the client can show the "try again in a few minutes" note
// instead of a generic failure.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var vErrs validator.ValidationErrors
	switch {
	case errors.Is(err, llm.ErrCapacity):
		writeJSON(w, http.StatusServiceUnavailable, errorBody{
			Error: "the assistant is over capacity, try again in a few minutes",
			Kind:  "capacity",
		})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, photo.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "unauthorized"})
	case errors.Is(err, domain.ErrSessionBusy):
		writeJSON(w, http.StatusConflict, errorBody{Error: err.Error(), Kind: "busy"})
	case errors.Is(err, domain.ErrInvalidRequest), errors.As(err, &vErrs):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case llmclient.IsPermanent(err):
		h.log.Error("assistant rejected request", "error", err)
		writeJSON(w, http.StatusBadGateway, errorBody{Error: "the assistant rejected the request"})
	default:
		h.log.Error("request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// decode reads a JSON body and runs struct validation so malformed input is
// rejected before any network call.
func (h *Handler) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domain.ErrInvalidRequest
	}
	if err := h.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}
