package review

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/soletta-dev/postpilot/logger"
	"github.com/soletta-dev/postpilot/store"
)

// MaxPostLength is the platform's per-post character limit.
const MaxPostLength = 280

const (
	draftsCollection       = "drafts"
	reviewsCollection      = "reviews"
	publicationsCollection = "publications"
)

// System owns the draft lifecycle: creation, preview, submission,
// approval/rejection, scheduling and marking-published. It is the sole
// writer of draft status and the sole creator of review sessions and
// publish records.
type System struct {
	store store.Store
	now   func() time.Time
}

func NewSystem(st store.Store) *System {
	return &System{
		store: st,
		now:   time.Now,
	}
}

// NewSystemWithClock lets tests pin the clock used for ids and timestamps.
func NewSystemWithClock(st store.Store, now func() time.Time) *System {
	return &System{store: st, now: now}
}

func (s *System) draftID(kind string, drafts map[string]json.RawMessage) string {
	id := fmt.Sprintf("%s_%s", kind, s.now().UTC().Format("20060102_150405"))
	// Two drafts of the same kind within one second collide; disambiguate.
	if _, exists := drafts[id]; exists {
		id = fmt.Sprintf("%s_%s", id, uuid.NewString()[:8])
	}
	return id
}

// CreateDraft allocates an id and stores the draft with status "draft".
func (s *System) CreateDraft(kind string, body Content, metadata map[string]string) (string, error) {
	var draftID string

	err := s.store.Update(draftsCollection, func(drafts map[string]json.RawMessage) error {
		draftID = s.draftID(kind, drafts)
		draft := ContentDraft{
			DraftID:   draftID,
			Kind:      kind,
			Body:      body,
			Metadata:  metadata,
			Status:    StatusDraft,
			CreatedAt: s.now().UTC(),
		}
		data, err := json.Marshal(draft)
		if err != nil {
			return err
		}
		drafts[draftID] = data
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to create draft: %w", err)
	}

	logger.Logger.Printf("Created draft %s", draftID)
	return draftID, nil
}

// GetDraft returns the draft, or nil when the id is unknown.
func (s *System) GetDraft(draftID string) (*ContentDraft, error) {
	drafts, err := s.store.Load(draftsCollection)
	if err != nil {
		return nil, err
	}
	data, ok := drafts[draftID]
	if !ok {
		return nil, nil
	}
	var draft ContentDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", draftID, err)
	}
	return &draft, nil
}

// GetPendingReviews returns all drafts awaiting a decision, oldest first.
func (s *System) GetPendingReviews() ([]ContentDraft, error) {
	return s.draftsByStatus(StatusDraft, StatusReviewing)
}

// GetApprovedContent returns all approved drafts, oldest first.
func (s *System) GetApprovedContent() ([]ContentDraft, error) {
	return s.draftsByStatus(StatusApproved)
}

func (s *System) draftsByStatus(statuses ...Status) ([]ContentDraft, error) {
	drafts, err := s.store.Load(draftsCollection)
	if err != nil {
		return nil, err
	}

	var matched []ContentDraft
	for id, data := range drafts {
		var draft ContentDraft
		if err := json.Unmarshal(data, &draft); err != nil {
			return nil, fmt.Errorf("failed to decode draft %s: %w", id, err)
		}
		for _, status := range statuses {
			if draft.Status == status {
				matched = append(matched, draft)
				break
			}
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.Before(matched[j].CreatedAt)
	})
	return matched, nil
}

// PreviewContent computes the derived length fields for a draft. An unknown
// id yields a Preview with Err set rather than a Go error; storage failures
// are still returned as errors.
func (s *System) PreviewContent(draftID string) (Preview, error) {
	draft, err := s.GetDraft(draftID)
	if err != nil {
		return Preview{}, err
	}
	if draft == nil {
		return Preview{Err: "not found"}, nil
	}

	preview := Preview{
		DraftID:   draft.DraftID,
		Kind:      draft.Kind,
		Body:      draft.Body,
		Status:    draft.Status,
		CreatedAt: draft.CreatedAt,
	}

	if draft.Body.IsThread() {
		items := draft.Body.Items()
		preview.ThreadLength = len(items)
		preview.LengthOk = true
		for _, item := range items {
			preview.TotalChars += len([]rune(item))
			if len([]rune(item)) > MaxPostLength {
				preview.LengthOk = false
			}
		}
	} else {
		preview.CharCount = len([]rune(draft.Body.Text()))
		preview.LengthOk = preview.CharCount <= MaxPostLength
	}

	return preview, nil
}

// SubmitForReview moves a draft into the reviewing state. Returns false when
// the draft is absent or already past the decision point.
func (s *System) SubmitForReview(draftID string) (bool, error) {
	var ok bool
	err := s.store.Update(draftsCollection, func(drafts map[string]json.RawMessage) error {
		data, exists := drafts[draftID]
		if !exists {
			return nil
		}
		var draft ContentDraft
		if err := json.Unmarshal(data, &draft); err != nil {
			return fmt.Errorf("failed to decode draft %s: %w", draftID, err)
		}
		switch draft.Status {
		case StatusReviewing:
			ok = true // idempotent
			return nil
		case StatusDraft:
			draft.Status = StatusReviewing
		default:
			return nil
		}
		updated, err := json.Marshal(draft)
		if err != nil {
			return err
		}
		drafts[draftID] = updated
		ok = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if ok {
		logger.Logger.Printf("Draft %s submitted for review", draftID)
	}
	return ok, nil
}

// ApproveContent records an approval session and transitions the draft.
func (s *System) ApproveContent(draftID, notes string) (string, error) {
	return s.reviewContent(draftID, DecisionApproved, notes)
}

// RejectContent records a rejection session and transitions the draft.
func (s *System) RejectContent(draftID, reason string) (string, error) {
	return s.reviewContent(draftID, DecisionRejected, reason)
}

// reviewContent applies a decision regardless of the draft's prior status.
// An operator may approve content still nominally in draft; that override
// is intentional and supports the automated fast path.
func (s *System) reviewContent(draftID string, decision Decision, notes string) (string, error) {
	reviewID := fmt.Sprintf("review_%s_%s", draftID, s.now().UTC().Format("150405"))

	session := ReviewSession{
		ReviewID:   reviewID,
		DraftID:    draftID,
		Decision:   decision,
		Notes:      notes,
		ReviewedAt: s.now().UTC(),
	}

	err := s.store.Update(reviewsCollection, func(reviews map[string]json.RawMessage) error {
		if _, exists := reviews[reviewID]; exists {
			reviewID = fmt.Sprintf("%s_%s", reviewID, uuid.NewString()[:8])
			session.ReviewID = reviewID
		}
		data, err := json.Marshal(session)
		if err != nil {
			return err
		}
		reviews[reviewID] = data
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to record review: %w", err)
	}

	err = s.store.Update(draftsCollection, func(drafts map[string]json.RawMessage) error {
		data, exists := drafts[draftID]
		if !exists {
			return nil
		}
		var draft ContentDraft
		if err := json.Unmarshal(data, &draft); err != nil {
			return fmt.Errorf("failed to decode draft %s: %w", draftID, err)
		}
		if decision == DecisionApproved {
			draft.Status = StatusApproved
		} else {
			draft.Status = StatusRejected
		}
		updated, err := json.Marshal(draft)
		if err != nil {
			return err
		}
		drafts[draftID] = updated
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to update draft status: %w", err)
	}

	logger.Logger.Printf("Review %s recorded: %s -> %s", reviewID, draftID, decision)
	return reviewID, nil
}

// ScheduleContent sets a publish time. Only legal from the approved state.
func (s *System) ScheduleContent(draftID string, when time.Time) (bool, error) {
	var ok bool
	err := s.store.Update(draftsCollection, func(drafts map[string]json.RawMessage) error {
		data, exists := drafts[draftID]
		if !exists {
			return nil
		}
		var draft ContentDraft
		if err := json.Unmarshal(data, &draft); err != nil {
			return fmt.Errorf("failed to decode draft %s: %w", draftID, err)
		}
		if draft.Status != StatusApproved {
			return nil
		}
		when := when.UTC()
		draft.Status = StatusScheduled
		draft.ScheduledTime = &when
		updated, err := json.Marshal(draft)
		if err != nil {
			return err
		}
		drafts[draftID] = updated
		ok = true
		return nil
	})
	if err != nil {
		return false, err
	}
	if ok {
		logger.Logger.Printf("Draft %s scheduled for %s", draftID, when.UTC().Format(time.RFC3339))
	}
	return ok, nil
}

// MarkAsPublished creates a publish record and sets the draft's status to
// published. Legal from any prior status; callers must not invoke it twice
// for the same draft.
func (s *System) MarkAsPublished(draftID string, postIDs []string) (string, error) {
	publishID := fmt.Sprintf("pub_%s_%s", draftID, s.now().UTC().Format("150405"))

	record := PublishRecord{
		PublishID:   publishID,
		DraftID:     draftID,
		PostIDs:     postIDs,
		PublishedAt: s.now().UTC(),
	}

	err := s.store.Update(publicationsCollection, func(pubs map[string]json.RawMessage) error {
		if _, exists := pubs[publishID]; exists {
			publishID = fmt.Sprintf("%s_%s", publishID, uuid.NewString()[:8])
			record.PublishID = publishID
		}
		data, err := json.Marshal(record)
		if err != nil {
			return err
		}
		pubs[publishID] = data
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to record publication: %w", err)
	}

	err = s.store.Update(draftsCollection, func(drafts map[string]json.RawMessage) error {
		data, exists := drafts[draftID]
		if !exists {
			return nil
		}
		var draft ContentDraft
		if err := json.Unmarshal(data, &draft); err != nil {
			return fmt.Errorf("failed to decode draft %s: %w", draftID, err)
		}
		draft.Status = StatusPublished
		updated, err := json.Marshal(draft)
		if err != nil {
			return err
		}
		drafts[draftID] = updated
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to update draft status: %w", err)
	}

	logger.Logger.Printf("Marked %s as published (%d posts)", draftID, len(postIDs))
	return publishID, nil
}

// GetReviewHistory returns sessions from the trailing window, newest first,
// enriched with each draft's kind.
func (s *System) GetReviewHistory(days int) ([]HistoryEntry, error) {
	reviews, err := s.store.Load(reviewsCollection)
	if err != nil {
		return nil, err
	}
	drafts, err := s.store.Load(draftsCollection)
	if err != nil {
		return nil, err
	}

	cutoff := s.now().UTC().Add(-time.Duration(days) * 24 * time.Hour)
	var history []HistoryEntry

	for id, data := range reviews {
		var session ReviewSession
		if err := json.Unmarshal(data, &session); err != nil {
			return nil, fmt.Errorf("failed to decode review %s: %w", id, err)
		}
		if session.ReviewedAt.Before(cutoff) {
			continue
		}

		entry := HistoryEntry{ReviewSession: session}
		if draftData, ok := drafts[session.DraftID]; ok {
			var draft ContentDraft
			if err := json.Unmarshal(draftData, &draft); err == nil {
				entry.Kind = draft.Kind
			}
		}
		history = append(history, entry)
	}

	sort.Slice(history, func(i, j int) bool {
		return history[i].ReviewedAt.After(history[j].ReviewedAt)
	})
	return history, nil
}

// GetStats summarizes the three collections. ApprovalRate is a percentage
// rounded to one decimal, 0.0 when no sessions exist.
func (s *System) GetStats() (Stats, error) {
	drafts, err := s.store.Load(draftsCollection)
	if err != nil {
		return Stats{}, err
	}
	reviews, err := s.store.Load(reviewsCollection)
	if err != nil {
		return Stats{}, err
	}
	pubs, err := s.store.Load(publicationsCollection)
	if err != nil {
		return Stats{}, err
	}

	stats := Stats{
		TotalDrafts:       len(drafts),
		TotalReviews:      len(reviews),
		TotalPublications: len(pubs),
	}

	for id, data := range drafts {
		var draft ContentDraft
		if err := json.Unmarshal(data, &draft); err != nil {
			return Stats{}, fmt.Errorf("failed to decode draft %s: %w", id, err)
		}
		switch draft.Status {
		case StatusDraft, StatusReviewing:
			stats.PendingReviews++
		case StatusApproved:
			stats.ApprovedContent++
		case StatusPublished:
			stats.PublishedContent++
		}
	}

	approved := 0
	for id, data := range reviews {
		var session ReviewSession
		if err := json.Unmarshal(data, &session); err != nil {
			return Stats{}, fmt.Errorf("failed to decode review %s: %w", id, err)
		}
		if session.Decision == DecisionApproved {
			approved++
		}
	}

	if stats.TotalReviews > 0 {
		rate := float64(approved) / float64(stats.TotalReviews) * 100
		stats.ApprovalRate = float64(int(rate*10+0.5)) / 10
	}

	return stats, nil
}
