package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one turn of a diagnosis conversation. Sessions are append-only;
// only the text of recent messages is replayed to the model, images are one-shot.
type Message struct {
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	ImageRef  string    `json:"imageRef,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Diagnosis is the structured record extracted from one completed AI response.
// A non-empty Title is the signal that extraction succeeded.
type Diagnosis struct {
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	PartsNeeded []string `json:"partsNeeded"`
	ToolsNeeded []string `json:"toolsNeeded"`
	Steps       []string `json:"steps"`
}

// SavedDiagnosis is a diagnosis persisted on explicit user save. Its ID is the
// grouping key (issue id) for linked shopping-list items.
type SavedDiagnosis struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Diagnosis Diagnosis `json:"diagnosis"`
	CreatedAt time.Time `json:"createdAt"`
}

// ShoppingListItem rows are unique per (user, issueId, name); re-adding the
// same name to the same issue bumps the quantity instead of duplicating.
type ShoppingListItem struct {
	ID         string    `json:"id"`
	UserID     string    `json:"-"`
	IssueID    string    `json:"issueId"`
	IssueTitle string    `json:"issueTitle"`
	Name       string    `json:"name"`
	Quantity   int       `json:"quantity"`
	Completed  bool      `json:"completed"`
	AddedAt    time.Time `json:"addedAt"`
}

type TaskStatus string

const (
	TaskStatusUpcoming  TaskStatus = "upcoming"
	TaskStatusDue       TaskStatus = "due"
	TaskStatusOverdue   TaskStatus = "overdue"
	TaskStatusCompleted TaskStatus = "completed"
)

// MaintenanceTask tracks a recurring chore. NextDue and Status are derived from
// LastCompleted and Frequency on every read; they are never stored.
type MaintenanceTask struct {
	ID            string     `json:"id"`
	UserID        string     `json:"-"`
	Title         string     `json:"title"`
	Frequency     string     `json:"frequency"`
	Completed     bool       `json:"completed"`
	LastCompleted *time.Time `json:"lastCompleted,omitempty"`
	NextDue       time.Time  `json:"nextDue"`
	Status        TaskStatus `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`

	History []MaintenanceHistoryEntry `json:"history,omitempty"`
}

// MaintenanceHistoryEntry is written exactly once per completion action and is
// never edited afterwards; deleting a task cascades to its history.
type MaintenanceHistoryEntry struct {
	ID          string          `json:"id"`
	TaskID      string          `json:"taskId"`
	CompletedAt time.Time       `json:"completedAt"`
	Notes       string          `json:"notes,omitempty"`
	PartsUsed   []string        `json:"partsUsed,omitempty"`
	ToolsUsed   []string        `json:"toolsUsed,omitempty"`
	TotalCost   decimal.Decimal `json:"totalCost"`
}
