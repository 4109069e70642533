package domain

import "time"

// DigestRunStatus enumerates the outcome states of a digest run.
type DigestRunStatus string

const (
	DigestRunCompleted DigestRunStatus = "completed"
	DigestRunFailed    DigestRunStatus = "failed"
)

// DigestMessage is one composed digest email, consumed once by the mail
// transport and then discarded.
type DigestMessage struct {
	RecipientEmail string `json:"recipient_email"`
	RecipientName  string `json:"recipient_name"`
	Subject        string `json:"subject"`
	Body           string `json:"body"`
	HTMLBody       string `json:"html_body,omitempty"`
}

// DigestRunReport summarizes one full pass over the user list.
// Failed counts recipients whose digest could not be delivered; a failed
// recipient never aborts the run.
type DigestRunReport struct {
	RunID      string          `json:"run_id"`
	StartedAt  time.Time       `json:"started_at"`
	FinishedAt time.Time       `json:"finished_at"`
	Status     DigestRunStatus `json:"status"`
	Total      int             `json:"total"`
	Sent       int             `json:"sent"`
	Skipped    int             `json:"skipped"`
	Failed     int             `json:"failed"`
}
