package thread

import (
	"context"
	"fmt"
	"time"

	"github.com/soletta-dev/postpilot/logger"
)

// MaxPostLength is the platform's per-post character limit.
const MaxPostLength = 280

// Poster is the slice of the platform client the thread creator needs.
type Poster interface {
	CreatePost(ctx context.Context, text string) (string, error)
	CreateReply(ctx context.Context, parentID, text string) (string, error)
}

// Result reports how far a thread got. Success means at least the root post
// went out; a non-empty ErrorMessage alongside Success marks a partial chain
// that the caller must not treat as a full publish.
type Result struct {
	Success      bool
	PostIDs      []string
	ThreadURL    string
	ErrorMessage string
}

func (r Result) String() string {
	if r.Success && r.ErrorMessage == "" {
		return fmt.Sprintf("thread created: %d posts, %s", len(r.PostIDs), r.ThreadURL)
	}
	if r.Success {
		return fmt.Sprintf("thread partially created: %s", r.ErrorMessage)
	}
	return fmt.Sprintf("thread failed: %s", r.ErrorMessage)
}

// Creator publishes an ordered list of posts as a reply chain: the first as
// a root post, each subsequent one as a reply to the previous.
type Creator struct {
	poster     Poster
	profileURL string
}

func NewCreator(poster Poster, profileURL string) *Creator {
	return &Creator{poster: poster, profileURL: profileURL}
}

// truncate enforces the platform limit with a visible ellipsis marker.
// Posting a shortened element keeps the rest of the thread available
// instead of failing the whole chain over one oversized post.
func truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= MaxPostLength {
		return text
	}
	return string(runes[:MaxPostLength-3]) + "..."
}

// CreateThread posts each element in order, replying to the most recently
// posted id so the chain is linear. On the first failure it stops and
// returns the partial state; already-published posts are never rolled back
// here — deleting them is a separate decision left to the caller.
func (c *Creator) CreateThread(ctx context.Context, posts []string, delay time.Duration) Result {
	if len(posts) == 0 {
		return Result{ErrorMessage: "thread content is empty"}
	}

	logger.Logger.Printf("Creating thread of %d posts", len(posts))

	rootID, err := c.poster.CreatePost(ctx, truncate(posts[0]))
	if err != nil {
		logger.Logger.Printf("Root post failed: %v", err)
		return Result{ErrorMessage: fmt.Sprintf("root post failed: %v", err)}
	}

	postIDs := []string{rootID}
	lastID := rootID

	for _, text := range posts[1:] {
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				logger.Logger.Printf("Thread cancelled after %d/%d posts", len(postIDs), len(posts))
				return c.partial(postIDs, len(posts), rootID)
			}
		}

		replyID, err := c.poster.CreateReply(ctx, lastID, truncate(text))
		if err != nil {
			logger.Logger.Printf("Reply %d/%d failed: %v", len(postIDs)+1, len(posts), err)
			return c.partial(postIDs, len(posts), rootID)
		}

		postIDs = append(postIDs, replyID)
		lastID = replyID
	}

	logger.Logger.Printf("Thread complete: %d posts, root %s", len(postIDs), rootID)
	return Result{
		Success:   true,
		PostIDs:   postIDs,
		ThreadURL: c.threadURL(rootID),
	}
}

func (c *Creator) partial(postIDs []string, intended int, rootID string) Result {
	return Result{
		Success:      len(postIDs) > 0,
		PostIDs:      postIDs,
		ThreadURL:    c.threadURL(rootID),
		ErrorMessage: fmt.Sprintf("published only %d/%d posts", len(postIDs), intended),
	}
}

func (c *Creator) threadURL(rootID string) string {
	return fmt.Sprintf("%s/status/%s", c.profileURL, rootID)
}
