package handler

import (
	"net/http"
	"strings"

	"homewise/internal/affiliate"
	"homewise/internal/domain"
	"homewise/internal/middleware"
)

// shoppingItem is a list row plus the vendor search links for buying it.
type shoppingItem struct {
	domain.ShoppingListItem
	Links []affiliate.VendorLink `json:"links,omitempty"`
}

func (h *Handler) decorate(items []domain.ShoppingListItem) []shoppingItem {
	out := make([]shoppingItem, 0, len(items))
	for _, it := range items {
		out = append(out, shoppingItem{
			ShoppingListItem: it,
			Links:            h.links.Links(it.Name),
		})
	}
	return out
}

// ListShoppingItems returns the user's whole list, or just one issue's items
// when issue_id is given.
func (h *Handler) ListShoppingItems(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())

	var (
		items []domain.ShoppingListItem
		err   error
	)
	if issueID := strings.TrimSpace(r.URL.Query().Get("issue_id")); issueID != "" {
		items, err = h.shopping.ListByIssue(r.Context(), userID, issueID)
	} else {
		items, err = h.shopping.ListByUser(r.Context(), userID)
	}
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.decorate(items))
}

type addShoppingItemRequest struct {
	Name       string `json:"name" validate:"required"`
	IssueID    string `json:"issueId"`
	IssueTitle string `json:"issueTitle"`
	Quantity   int    `json:"quantity" validate:"gte=0,lte=999"`
}

func (h *Handler) AddShoppingItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())

	var req addShoppingItemRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	item, err := h.shopping.Add(r.Context(), domain.ShoppingListItem{
		UserID:     userID,
		IssueID:    strings.TrimSpace(req.IssueID),
		IssueTitle: strings.TrimSpace(req.IssueTitle),
		Name:       strings.TrimSpace(req.Name),
		Quantity:   req.Quantity,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, shoppingItem{
		ShoppingListItem: item,
		Links:            h.links.Links(item.Name),
	})
}

type updateShoppingItemRequest struct {
	Completed *bool `json:"completed"`
	Quantity  *int  `json:"quantity" validate:"omitempty,gte=1,lte=999"`
}

func (h *Handler) UpdateShoppingItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	id := r.PathValue("id")

	var req updateShoppingItemRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.Completed == nil && req.Quantity == nil {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}

	if req.Completed != nil {
		if err := h.shopping.SetCompleted(r.Context(), userID, id, *req.Completed); err != nil {
			h.writeError(w, err)
			return
		}
	}
	if req.Quantity != nil {
		if err := h.shopping.SetQuantity(r.Context(), userID, id, *req.Quantity); err != nil {
			h.writeError(w, err)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteShoppingItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	if err := h.shopping.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ClearIssueShoppingItems removes every item linked to one saved diagnosis.
func (h *Handler) ClearIssueShoppingItems(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	if err := h.shopping.DeleteByIssue(r.Context(), userID, r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
