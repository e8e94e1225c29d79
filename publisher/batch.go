package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/soletta-dev/postpilot/logger"
)

// DraftCreation reports the outcome of creating one draft.
type DraftCreation struct {
	DraftID string `json:"draft_id,omitempty"`
	Kind    string `json:"kind"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// DraftBatch reports a full draft-creation run.
type DraftBatch struct {
	Message string          `json:"message"`
	Drafts  []DraftCreation `json:"drafts"`
}

// PublishOutcome reports the publish attempt for one approved draft.
type PublishOutcome struct {
	DraftID string   `json:"draft_id"`
	Type    string   `json:"type"`
	PostIDs []string `json:"post_ids,omitempty"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
}

// PublishBatch reports a full publish-approved run.
type PublishBatch struct {
	Message   string           `json:"message"`
	Published int              `json:"published"`
	Total     int              `json:"total"`
	Results   []PublishOutcome `json:"results"`
}

// CreateContentDraftsForReview generates one draft per daily content kind
// and stores them for review. Sundays add the weekly recap. One kind
// failing never blocks the others.
func (p *DailyPublisher) CreateContentDraftsForReview() DraftBatch {
	logger.Logger.Printf("Creating daily content drafts")

	kinds := []string{"headlines", "thread", "focus"}
	if p.now().UTC().Weekday() == time.Sunday {
		kinds = append(kinds, "weekly")
	}

	var batch DraftBatch
	succeeded := 0

	for _, kind := range kinds {
		creation := DraftCreation{Kind: kind}

		content, err := p.source.Generate(kind)
		if err != nil {
			creation.Error = err.Error()
			logger.Logger.Printf("Failed to generate %s draft: %v", kind, err)
			batch.Drafts = append(batch.Drafts, creation)
			continue
		}

		metadata := map[string]string{
			"generated_at": p.now().UTC().Format(time.RFC3339),
			"content_type": kind,
		}
		draftID, err := p.reviews.CreateDraft(kind, content, metadata)
		if err != nil {
			creation.Error = err.Error()
			logger.Logger.Printf("Failed to store %s draft: %v", kind, err)
			batch.Drafts = append(batch.Drafts, creation)
			continue
		}

		creation.DraftID = draftID
		creation.Success = true
		succeeded++
		batch.Drafts = append(batch.Drafts, creation)
	}

	batch.Message = fmt.Sprintf("created %d/%d drafts", succeeded, len(kinds))
	logger.Logger.Printf("Draft creation complete: %s", batch.Message)
	return batch
}

// PublishApprovedContent publishes every approved draft, oldest first.
// Each draft is attempted independently; a draft is marked published only
// when every one of its posts went out.
func (p *DailyPublisher) PublishApprovedContent(ctx context.Context) (PublishBatch, error) {
	approved, err := p.reviews.GetApprovedContent()
	if err != nil {
		return PublishBatch{}, fmt.Errorf("failed to load approved content: %w", err)
	}

	if len(approved) == 0 {
		logger.Logger.Printf("No approved content waiting")
		return PublishBatch{Message: "no approved content to publish"}, nil
	}

	batch := PublishBatch{Total: len(approved)}

	for _, draft := range approved {
		outcome := PublishOutcome{DraftID: draft.DraftID}

		if draft.Body.IsThread() {
			outcome.Type = "thread"
			threadResult := p.threads.CreateThread(ctx, draft.Body.Items(), p.postDelay)
			outcome.PostIDs = threadResult.PostIDs

			if threadResult.Success && threadResult.ErrorMessage == "" {
				outcome.Success = true
			} else {
				outcome.Error = threadResult.ErrorMessage
			}

			if outcome.Success {
				p.recordPublish(draft.DraftID, draft.Kind, threadResult.PostIDs, threadResult.ThreadURL, &outcome)
			} else {
				logger.Logger.Printf("Thread publish failed for %s: %s", draft.DraftID, outcome.Error)
				if p.notifier != nil {
					p.notifier.NotifyFailure(TaskPublishApproved, fmt.Errorf("%s: %s", draft.DraftID, outcome.Error))
				}
			}
		} else {
			outcome.Type = "single"
			postID, err := p.client.CreatePost(ctx, draft.Body.Text())
			if err != nil {
				outcome.Error = err.Error()
				logger.Logger.Printf("Publish failed for %s: %v", draft.DraftID, err)
				if p.notifier != nil {
					p.notifier.NotifyFailure(TaskPublishApproved, fmt.Errorf("%s: %w", draft.DraftID, err))
				}
			} else {
				outcome.Success = true
				outcome.PostIDs = []string{postID}
				p.recordPublish(draft.DraftID, draft.Kind, outcome.PostIDs, "", &outcome)
			}
		}

		if outcome.Success {
			batch.Published++
		}
		batch.Results = append(batch.Results, outcome)
	}

	batch.Message = fmt.Sprintf("published %d/%d drafts", batch.Published, batch.Total)
	logger.Logger.Printf("Publish run complete: %s", batch.Message)
	return batch, nil
}

// recordPublish does the post-success bookkeeping: workflow transition,
// archive row, notification. A bookkeeping failure downgrades the outcome
// so the operator sees the draft needs attention, but the posts stay up.
func (p *DailyPublisher) recordPublish(draftID, kind string, postIDs []string, threadURL string, outcome *PublishOutcome) {
	if _, err := p.reviews.MarkAsPublished(draftID, postIDs); err != nil {
		outcome.Success = false
		outcome.Error = fmt.Sprintf("published but failed to record: %v", err)
		logger.Logger.Printf("Failed to mark %s published: %v", draftID, err)
		return
	}
	if p.archive != nil {
		p.archive.RecordPublication(draftID, kind, postIDs, threadURL)
	}
	if p.notifier != nil {
		p.notifier.NotifyPublished(kind, draftID, threadURL, len(postIDs))
	}
	logger.Logger.Printf("Published %s (%d posts)", draftID, len(postIDs))
}
