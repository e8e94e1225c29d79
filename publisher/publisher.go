package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/soletta-dev/postpilot/logger"
	"github.com/soletta-dev/postpilot/platform"
	"github.com/soletta-dev/postpilot/review"
	"github.com/soletta-dev/postpilot/thread"
)

// Task names, used in log entries and the --task flag.
const (
	TaskMorningHeadlines = "morning_headlines"
	TaskMiddayThread     = "midday_thread"
	TaskAfternoonFocus   = "afternoon_focus"
	TaskCuratedRetweet   = "curated_retweet"
	TaskWeeklyRecap      = "weekly_recap"
	TaskCreateDrafts     = "create_drafts"
	TaskPublishApproved  = "publish_approved"
)

// ContentSource produces the material the publisher sends out.
type ContentSource interface {
	Generate(kind string) (review.Content, error)
	QuoteComment() string
	SearchQuery() string
}

// ThreadCreator publishes multi-post content as a reply chain.
type ThreadCreator interface {
	CreateThread(ctx context.Context, posts []string, delay time.Duration) thread.Result
}

// Notifier announces publish outcomes. May be nil.
type Notifier interface {
	NotifyPublished(kind, draftID, threadURL string, postCount int)
	NotifyFailure(task string, err error)
}

// Archiver records platform post ids durably. May be nil.
type Archiver interface {
	RecordPublication(draftID, kind string, postIDs []string, threadURL string)
}

// TaskResult is one entry in the per-day publish log.
type TaskResult struct {
	Task      string    `json:"task"`
	Time      time.Time `json:"time"`
	Success   bool      `json:"success"`
	Skipped   bool      `json:"skipped,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Content   string    `json:"content,omitempty"`
	PostIDs   []string  `json:"post_ids,omitempty"`
	ThreadURL string    `json:"thread_url,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// DailyPublisher runs the scheduled content tasks. Direct-mode tasks
// generate and post immediately; review-mode tasks go through the draft
// workflow in batch.go.
type DailyPublisher struct {
	reviews   *review.System
	source    ContentSource
	threads   ThreadCreator
	client    platform.Client
	notifier  Notifier
	archive   Archiver
	log       *dayLog
	postDelay time.Duration
	now       func() time.Time
}

func NewDailyPublisher(reviews *review.System, source ContentSource, threads ThreadCreator, client platform.Client, logDir string, postDelay time.Duration) *DailyPublisher {
	return &DailyPublisher{
		reviews:   reviews,
		source:    source,
		threads:   threads,
		client:    client,
		log:       newDayLog(logDir),
		postDelay: postDelay,
		now:       time.Now,
	}
}

// WithNotifier attaches a notification sink.
func (p *DailyPublisher) WithNotifier(n Notifier) *DailyPublisher {
	p.notifier = n
	return p
}

// WithArchiver attaches a durable publish archive.
func (p *DailyPublisher) WithArchiver(a Archiver) *DailyPublisher {
	p.archive = a
	return p
}

// WithClock is used by tests to pin dates in log entries and the
// weekly-recap weekday gate.
func (p *DailyPublisher) WithClock(now func() time.Time) *DailyPublisher {
	p.now = now
	return p
}

// Run dispatches a task by name.
func (p *DailyPublisher) Run(ctx context.Context, task string) (TaskResult, error) {
	switch task {
	case TaskMorningHeadlines:
		return p.PublishMorningHeadlines(ctx), nil
	case TaskMiddayThread:
		return p.PublishMiddayThread(ctx), nil
	case TaskAfternoonFocus:
		return p.PublishAfternoonFocus(ctx), nil
	case TaskCuratedRetweet:
		return p.PublishCuratedRetweet(ctx), nil
	case TaskWeeklyRecap:
		return p.PublishWeeklyRecap(ctx), nil
	default:
		return TaskResult{}, fmt.Errorf("unknown task: %s", task)
	}
}

// PublishMorningHeadlines generates and posts the day's headlines.
func (p *DailyPublisher) PublishMorningHeadlines(ctx context.Context) TaskResult {
	return p.publishSingle(ctx, TaskMorningHeadlines, "headlines")
}

// PublishAfternoonFocus generates and posts the daily focus piece.
func (p *DailyPublisher) PublishAfternoonFocus(ctx context.Context) TaskResult {
	return p.publishSingle(ctx, TaskAfternoonFocus, "focus")
}

func (p *DailyPublisher) publishSingle(ctx context.Context, task, kind string) TaskResult {
	logger.Logger.Printf("Running task %s", task)
	result := TaskResult{Task: task, Time: p.now().UTC()}

	content, err := p.source.Generate(kind)
	if err != nil {
		result.Error = err.Error()
		return p.finish(task, result)
	}
	result.Content = content.Text()

	postID, err := p.client.CreatePost(ctx, content.Text())
	if err != nil {
		result.Error = err.Error()
		return p.finish(task, result)
	}

	result.Success = true
	result.PostIDs = []string{postID}
	if p.archive != nil {
		p.archive.RecordPublication("", kind, result.PostIDs, "")
	}
	return p.finish(task, result)
}

// PublishMiddayThread generates and posts the midday thread.
func (p *DailyPublisher) PublishMiddayThread(ctx context.Context) TaskResult {
	logger.Logger.Printf("Running task %s", TaskMiddayThread)
	result := TaskResult{Task: TaskMiddayThread, Time: p.now().UTC()}

	content, err := p.source.Generate("thread")
	if err != nil {
		result.Error = err.Error()
		return p.finish(TaskMiddayThread, result)
	}

	threadResult := p.threads.CreateThread(ctx, content.Items(), p.postDelay)
	result.Success = threadResult.Success
	result.PostIDs = threadResult.PostIDs
	result.ThreadURL = threadResult.ThreadURL
	result.Error = threadResult.ErrorMessage

	if threadResult.Success && p.archive != nil {
		p.archive.RecordPublication("", "thread", threadResult.PostIDs, threadResult.ThreadURL)
	}
	return p.finish(TaskMiddayThread, result)
}

// PublishCuratedRetweet searches for a quote-worthy post and quotes it.
// Finding nothing is an off-day, not a failure worth alerting on.
func (p *DailyPublisher) PublishCuratedRetweet(ctx context.Context) TaskResult {
	logger.Logger.Printf("Running task %s", TaskCuratedRetweet)
	result := TaskResult{Task: TaskCuratedRetweet, Time: p.now().UTC()}

	posts, err := p.client.Search(ctx, p.source.SearchQuery())
	if err != nil {
		result.Error = err.Error()
		return p.finish(TaskCuratedRetweet, result)
	}

	target := pickQuoteTarget(posts)
	if target == nil {
		result.Skipped = true
		result.Success = true
		result.Reason = "no suitable quote target found"
		logger.Logger.Printf("No suitable quote target found")
		return p.logOnly(result)
	}

	comment := p.source.QuoteComment()
	result.Content = comment

	quoteID, err := p.client.QuotePost(ctx, target.ID, comment)
	if err != nil {
		result.Error = err.Error()
		return p.finish(TaskCuratedRetweet, result)
	}

	result.Success = true
	result.PostIDs = []string{quoteID}
	if p.archive != nil {
		p.archive.RecordPublication("", "retweet", result.PostIDs, "")
	}
	return p.finish(TaskCuratedRetweet, result)
}

// pickQuoteTarget wants substantive posts, not one-liners.
func pickQuoteTarget(posts []platform.FoundPost) *platform.FoundPost {
	for i := range posts {
		if len(posts[i].Text) > 50 {
			return &posts[i]
		}
	}
	return nil
}

// PublishWeeklyRecap posts the weekly recap, but only on Sundays (UTC).
// Other days log a skipped entry and count as success.
func (p *DailyPublisher) PublishWeeklyRecap(ctx context.Context) TaskResult {
	result := TaskResult{Task: TaskWeeklyRecap, Time: p.now().UTC()}

	if p.now().UTC().Weekday() != time.Sunday {
		result.Success = true
		result.Skipped = true
		result.Reason = "not sunday"
		logger.Logger.Printf("Skipping weekly recap, not sunday")
		return p.logOnly(result)
	}

	logger.Logger.Printf("Running task %s", TaskWeeklyRecap)

	content, err := p.source.Generate("weekly")
	if err != nil {
		result.Error = err.Error()
		return p.finish(TaskWeeklyRecap, result)
	}
	result.Content = content.Text()

	postID, err := p.client.CreatePost(ctx, content.Text())
	if err != nil {
		result.Error = err.Error()
		return p.finish(TaskWeeklyRecap, result)
	}

	result.Success = true
	result.PostIDs = []string{postID}
	if p.archive != nil {
		p.archive.RecordPublication("", "weekly", result.PostIDs, "")
	}
	return p.finish(TaskWeeklyRecap, result)
}

// finish logs the entry and fires notifications for decided outcomes.
func (p *DailyPublisher) finish(task string, result TaskResult) TaskResult {
	if result.Success {
		logger.Logger.Printf("Task %s succeeded (%d posts)", task, len(result.PostIDs))
		if p.notifier != nil {
			p.notifier.NotifyPublished(task, "", result.ThreadURL, len(result.PostIDs))
		}
	} else {
		logger.Logger.Printf("Task %s failed: %s", task, result.Error)
		if p.notifier != nil {
			p.notifier.NotifyFailure(task, fmt.Errorf("%s", result.Error))
		}
	}
	return p.logOnly(result)
}

func (p *DailyPublisher) logOnly(result TaskResult) TaskResult {
	p.log.append(result)
	return result
}

// Status reports what ran on a given date ("" means today, UTC).
func (p *DailyPublisher) Status(date string) (DayStatus, error) {
	if date == "" {
		date = p.now().UTC().Format("2006-01-02")
	}
	return p.log.status(date)
}
