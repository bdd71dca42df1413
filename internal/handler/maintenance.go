package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"homewise/internal/domain"
	"homewise/internal/maintenance"
	"homewise/internal/middleware"
)

// annotate fills the derived scheduling fields. They are computed on every
// read, never stored, so a task that crossed its due date shows up overdue
// without any background job touching it.
func annotate(task domain.MaintenanceTask, now time.Time) domain.MaintenanceTask {
	task.NextDue = maintenance.NextDueAt(task.LastCompleted, task.Frequency, now)
	task.Status = maintenance.StatusAt(task.NextDue, task.Completed, now)
	return task
}

func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	tasks, err := h.tasks.List(r.Context(), userID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	now := time.Now()
	for i := range tasks {
		tasks[i] = annotate(tasks[i], now)
	}
	writeJSON(w, http.StatusOK, tasks)
}

type createTaskRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Frequency string `json:"frequency" validate:"required,max=100"`
}

func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())

	var req createTaskRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	task, err := h.tasks.Create(r.Context(), domain.MaintenanceTask{
		UserID:    userID,
		Title:     strings.TrimSpace(req.Title),
		Frequency: strings.TrimSpace(req.Frequency),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, annotate(task, time.Now()))
}

func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	task, err := h.tasks.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, annotate(task, time.Now()))
}

type updateTaskRequest struct {
	Title     *string `json:"title" validate:"omitempty,max=200"`
	Frequency *string `json:"frequency" validate:"omitempty,max=100"`
	Completed *bool   `json:"completed"`
}

func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())

	var req updateTaskRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	task, err := h.tasks.Get(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	if req.Title != nil {
		task.Title = strings.TrimSpace(*req.Title)
	}
	if req.Frequency != nil {
		task.Frequency = strings.TrimSpace(*req.Frequency)
	}
	if req.Completed != nil {
		task.Completed = *req.Completed
	}
	if task.Title == "" || task.Frequency == "" {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}

	if err := h.tasks.Update(r.Context(), task); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, annotate(task, time.Now()))
}

type completeTaskRequest struct {
	Notes     string          `json:"notes" validate:"max=2000"`
	PartsUsed []string        `json:"partsUsed" validate:"max=50,dive,max=200"`
	ToolsUsed []string        `json:"toolsUsed" validate:"max=50,dive,max=200"`
	TotalCost decimal.Decimal `json:"totalCost"`
}

// CompleteTask logs one completion: a history entry is appended and the
// schedule rolls forward from today.
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())

	var req completeTaskRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if req.TotalCost.IsNegative() {
		h.writeError(w, domain.ErrInvalidRequest)
		return
	}

	task, err := h.tasks.Complete(r.Context(), userID, r.PathValue("id"), domain.MaintenanceHistoryEntry{
		CompletedAt: time.Now().UTC(),
		Notes:       strings.TrimSpace(req.Notes),
		PartsUsed:   req.PartsUsed,
		ToolsUsed:   req.ToolsUsed,
		TotalCost:   req.TotalCost,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, annotate(task, time.Now()))
}

func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFrom(r.Context())
	if err := h.tasks.Delete(r.Context(), userID, r.PathValue("id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
