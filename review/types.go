package review

import "time"

type Status string

const (
	StatusDraft     Status = "draft"
	StatusReviewing Status = "reviewing"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusScheduled Status = "scheduled"
	StatusPublished Status = "published"
)

type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ContentDraft is a unit of generated content awaiting a publish decision.
// DraftID, Kind, Body and CreatedAt are immutable once written; the Review
// workflow is the sole writer of Status.
type ContentDraft struct {
	DraftID       string            `json:"draft_id"`
	Kind          string            `json:"kind"`
	Body          Content           `json:"content"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Status        Status            `json:"status"`
	CreatedAt     time.Time         `json:"created_at"`
	ScheduledTime *time.Time        `json:"scheduled_time,omitempty"`
}

// ReviewSession is an immutable record of one approve/reject decision.
// A pending decision is the absence of a session, never a stored record.
type ReviewSession struct {
	ReviewID   string    `json:"review_id"`
	DraftID    string    `json:"draft_id"`
	Decision   Decision  `json:"decision"`
	Notes      string    `json:"notes"`
	ReviewedAt time.Time `json:"reviewed_at"`
}

// PublishRecord links a draft to the platform-assigned identifiers it
// produced, in thread order (length 1 for a single post).
type PublishRecord struct {
	PublishID   string    `json:"publish_id"`
	DraftID     string    `json:"draft_id"`
	PostIDs     []string  `json:"post_ids"`
	PublishedAt time.Time `json:"published_at"`
}

// HistoryEntry is a review session enriched with the reviewed draft's kind.
type HistoryEntry struct {
	ReviewSession
	Kind string `json:"kind"`
}

// Preview carries the derived fields shown before a decision. Err is set
// instead of returning a Go error when the draft id is unknown, so callers
// can branch without error plumbing.
type Preview struct {
	DraftID      string    `json:"draft_id"`
	Kind         string    `json:"kind"`
	Body         Content   `json:"content"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	ThreadLength int       `json:"thread_length,omitempty"`
	TotalChars   int       `json:"total_chars,omitempty"`
	CharCount    int       `json:"char_count,omitempty"`
	LengthOk     bool      `json:"length_ok"`
	Err          string    `json:"error,omitempty"`
}

type Stats struct {
	TotalDrafts       int     `json:"total_drafts"`
	PendingReviews    int     `json:"pending_reviews"`
	ApprovedContent   int     `json:"approved_content"`
	PublishedContent  int     `json:"published_content"`
	TotalReviews      int     `json:"total_reviews"`
	TotalPublications int     `json:"total_publications"`
	ApprovalRate      float64 `json:"approval_rate"`
}
