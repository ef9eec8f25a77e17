package queue

import (
	"strings"
	"time"
)

// Status is the last pipeline step an order directory completed.
type Status string

const (
	StatusExtracted Status = "extracted"
	StatusRecorded  Status = "recorded"
	StatusSplit     Status = "split"
	StatusArchived  Status = "archived"
	StatusExported  Status = "exported"
	StatusReview    Status = "review"
	StatusFailed    Status = "failed"
)

var allStatuses = []Status{
	StatusExtracted,
	StatusRecorded,
	StatusSplit,
	StatusArchived,
	StatusExported,
	StatusReview,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns every known order status in pipeline order.
func AllStatuses() []Status {
	return append([]Status(nil), allStatuses...)
}

// ParseStatus converts a user-provided status string into a Status.
func ParseStatus(value string) (Status, bool) {
	status := Status(strings.ToLower(strings.TrimSpace(value)))
	_, ok := statusSet[status]
	return status, ok
}

// RunStatus is the outcome of a pipeline run.
type RunStatus string

const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// Run is one pipeline invocation against a main directory.
type Run struct {
	ID           string
	MainDir      string
	Batch        string
	Status       RunStatus
	StartedAt    time.Time
	FinishedAt   *time.Time
	Orders       int
	Records      int
	LedgerAdded  int
	ExportPath   string
	ErrorMessage string
}

// RunOutcome carries the totals recorded when a run finishes.
type RunOutcome struct {
	Orders      int
	Records     int
	LedgerAdded int
	ExportPath  string
}

// Order is the journal entry for one order directory within a batch.
type Order struct {
	OrderID      string
	Batch        string
	RunID        string
	Status       Status
	Documents    int
	ErrorMessage string
	UpdatedAt    time.Time
}

// IsSubOrder reports whether the order was split out of a multi-document order.
func (o Order) IsSubOrder() bool {
	return strings.Contains(o.OrderID, ".")
}

// OrderFilter narrows Orders results. Empty fields match everything.
type OrderFilter struct {
	RunID    string
	Batch    string
	Statuses []Status
}
