package handler

import (
	"net/http"
	"strings"
	"time"

	"homewise/internal/domain"
	"homewise/internal/extract"
	"homewise/internal/llmclient"
	"homewise/internal/middleware"
)

type diagnoseRequest struct {
	Text     string `json:"text" validate:"required"`
	PhotoRef string `json:"photoRef"`
}

type diagnoseResponse struct {
	Text      string            `json:"text"`
	Diagnosis *domain.Diagnosis `json:"diagnosis,omitempty"`
}

// Diagnose is the single-shot path: one description (optionally with a photo),
// one full answer. Long conversations go through the websocket instead.
func (h *Handler) Diagnose(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())

	var req diagnoseRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	var image *llmclient.Image
	if ref := strings.TrimSpace(req.PhotoRef); ref != "" {
		data, contentType, err := h.photos.Get(r.Context(), userID, ref)
		if err != nil {
			h.writeError(w, err)
			return
		}
		image = &llmclient.Image{MIME: contentType, Data: data}
	}

	raw, err := h.gateway.Analyze(r.Context(), req.Text, image)
	if err != nil {
		h.writeError(w, err)
		return
	}

	res := extract.Parse(raw)
	writeJSON(w, http.StatusOK, diagnoseResponse{
		Text:      res.CleanedText,
		Diagnosis: res.Diagnosis,
	})
}

type saveDiagnosisRequest struct {
	Diagnosis domain.Diagnosis `json:"diagnosis"`
	// SeedShoppingList also adds one row per required part, linked to the new
	// diagnosis. A seeding failure does not undo the save.
	SeedShoppingList bool `json:"seedShoppingList"`
}

type saveDiagnosisResponse struct {
	Diagnosis domain.SavedDiagnosis     `json:"diagnosis"`
	Items     []domain.ShoppingListItem `json:"items,omitempty"`
	Warning   string                    `json:"warning,omitempty"`
}

func (h *Handler) SaveDiagnosis(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())

	var req saveDiagnosisRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.Diagnosis.Title) == "" {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}

	saved := domain.SavedDiagnosis{
		UserID:    userID,
		Diagnosis: req.Diagnosis,
		CreatedAt: time.Now().UTC(),
	}
	id, err := h.diagnoses.Save(r.Context(), saved)
	if err != nil {
		h.writeError(w, err)
		return
	}
	saved.ID = id

	resp := saveDiagnosisResponse{Diagnosis: saved}
	if req.SeedShoppingList {
		items, err := h.seedShoppingList(r, saved)
		resp.Items = items
		if err != nil {
			// The diagnosis is saved; re-seeding later is idempotent.
			h.log.Warn("shopping list seeding incomplete", "diagnosis", id, "error", err)
			resp.Warning = "diagnosis saved, but some shopping list items could not be added"
		}
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) ListDiagnoses(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	out, err := h.diagnoses.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetDiagnosis(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	saved, err := h.diagnoses.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, saved)
}

// DeleteDiagnosis removes the saved record only. Shopping-list items seeded
// from it belong to the user's list and stay.
func (h *Handler) DeleteDiagnosis(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	if err := h.diagnoses.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SeedShoppingList adds one item per required part of a saved diagnosis.
// Running it again after a partial failure only tops up what is missing.
func (h *Handler) SeedShoppingList(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	saved, err := h.diagnoses.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	items, err := h.seedShoppingList(r, saved)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.decorate(items))
}

// seedShoppingList adds one row per required part. Parts already on the list
// for this issue are skipped, so a repeated seed tops up what is missing
// instead of bumping quantities.
func (h *Handler) seedShoppingList(r *http.Request, saved domain.SavedDiagnosis) ([]domain.ShoppingListItem, error) {
	existing := map[string]bool{}
	if prior, err := h.shopping.ListByIssue(r.Context(), saved.UserID, saved.ID); err == nil {
		for _, it := range prior {
			existing[strings.ToLower(it.Name)] = true
		}
	}

	items := make([]domain.ShoppingListItem, 0, len(saved.Diagnosis.PartsNeeded))
	var firstErr error
	for _, part := range saved.Diagnosis.PartsNeeded {
		part = strings.TrimSpace(part)
		if part == "" || existing[strings.ToLower(part)] {
			continue
		}
		item, err := h.shopping.Add(r.Context(), domain.ShoppingListItem{
			UserID:     saved.UserID,
			IssueID:    saved.ID,
			IssueTitle: saved.Diagnosis.Title,
			Name:       part,
			Quantity:   1,
		})
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		items = append(items, item)
	}
	return items, firstErr
}
