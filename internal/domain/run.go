package domain

import "time"

// RunStatus is the outcome of one dispatch cycle.
type RunStatus string

const (
	RunSent    RunStatus = "sent"
	RunNobody  RunStatus = "nobody"
	RunFailed  RunStatus = "failed"
	RunSkipped RunStatus = "skipped"
)

// DispatchRun is a journal record of one dispatch cycle. It is informational;
// only the optional daily dedupe reads it back.
type DispatchRun struct {
	ID          int64
	Day         string // YYYY-MM-DD in the bot timezone
	Destination int64
	Test        bool
	Entries     int
	Status      RunStatus
	Error       string
	CreatedAt   time.Time // UTC
}
