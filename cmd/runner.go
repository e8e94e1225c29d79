package cmd

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/soletta-dev/postpilot/config"
	"github.com/soletta-dev/postpilot/db"
	"github.com/soletta-dev/postpilot/db/repository"
	"github.com/soletta-dev/postpilot/db/service"
	"github.com/soletta-dev/postpilot/generator"
	"github.com/soletta-dev/postpilot/logger"
	"github.com/soletta-dev/postpilot/notifications"
	"github.com/soletta-dev/postpilot/platform"
	"github.com/soletta-dev/postpilot/publisher"
	"github.com/soletta-dev/postpilot/review"
	"github.com/soletta-dev/postpilot/scheduler"
	"github.com/soletta-dev/postpilot/store"
	"github.com/soletta-dev/postpilot/thread"
)

// Runner wires the full pipeline: content source, platform client, review
// workflow, publisher and scheduler.
type Runner struct {
	cfg       *config.Config
	Reviews   *review.System
	Publisher *publisher.DailyPublisher
	scheduler *scheduler.Scheduler
	database  *db.Database
	notifier  *notifications.NotificationService
}

// NewRunner builds the pipeline. The publish archive is optional: if the
// database cannot be opened the pipeline still runs, it just loses the
// durable post-id history.
func NewRunner(cfg *config.Config, creds *config.Credentials) (*Runner, error) {
	fileStore, err := store.NewFileStore(filepath.Join(cfg.Options.DataDir, "review"))
	if err != nil {
		return nil, err
	}
	reviews := review.NewSystem(fileStore)

	source := generator.New(generator.DefaultPool(), time.Now().UnixNano())

	client := platform.NewHTTPClient(cfg.Platform, creds)
	probeCtx, cancel := context.WithTimeout(context.Background(), cfg.Platform.RequestTimeout())
	defer cancel()
	client.Probe(probeCtx)

	threads := thread.NewCreator(client, cfg.Options.ProfileURL)

	pub := publisher.NewDailyPublisher(
		reviews,
		source,
		threads,
		client,
		filepath.Join(cfg.Options.DataDir, "logs", "daily_publisher"),
		cfg.Options.PostDelay(),
	)
	notifier := notifications.NewNotificationService(cfg)
	pub.WithNotifier(notifier)

	database, dbErr := db.NewDatabase(cfg.Options.DataDir)
	if dbErr != nil {
		logger.Logger.Printf("Error initializing publish archive, continuing without it: %v", dbErr)
		database = nil
	} else {
		repo := repository.NewPublishedPostRepository(database.DB)
		pub.WithArchiver(service.NewArchiveService(repo))
	}

	r := &Runner{
		cfg:       cfg,
		Reviews:   reviews,
		Publisher: pub,
		database:  database,
		notifier:  notifier,
	}
	return r, nil
}

// StartScheduler registers the timetable and starts dispatching. In review
// mode the schedule is draft creation plus periodic publishing of approved
// content; in direct mode each content task posts at its own hour.
func (r *Runner) StartScheduler() error {
	sched := scheduler.NewScheduler(logger.Logger, r.cfg.Platform.RequestTimeout()*10)
	sched.OnSkip = func(name string) {
		r.notifier.NotifyFailure(name, errors.New("previous run still in progress, tick skipped"))
	}

	if r.cfg.Options.ReviewMode {
		hour, minute, err := config.ParseClock(r.cfg.Schedule.DraftCreation)
		if err != nil {
			return err
		}
		sched.AddJob(publisher.TaskCreateDrafts, scheduler.DailyAt{Hour: hour, Minute: minute}, func(ctx context.Context) {
			r.Publisher.CreateContentDraftsForReview()
		})

		interval := time.Duration(r.cfg.Schedule.PublishIntervalHours) * time.Hour
		sched.AddJob(publisher.TaskPublishApproved, scheduler.Interval{Every: interval}, func(ctx context.Context) {
			if _, err := r.Publisher.PublishApprovedContent(ctx); err != nil {
				logger.Logger.Printf("Publish run failed: %v", err)
			}
		})
	} else {
		daily := []struct {
			task string
			at   string
			run  func(ctx context.Context)
		}{
			{publisher.TaskMorningHeadlines, r.cfg.Schedule.MorningHeadlines, func(ctx context.Context) { r.Publisher.PublishMorningHeadlines(ctx) }},
			{publisher.TaskMiddayThread, r.cfg.Schedule.MiddayThread, func(ctx context.Context) { r.Publisher.PublishMiddayThread(ctx) }},
			{publisher.TaskAfternoonFocus, r.cfg.Schedule.AfternoonFocus, func(ctx context.Context) { r.Publisher.PublishAfternoonFocus(ctx) }},
			{publisher.TaskCuratedRetweet, r.cfg.Schedule.CuratedRetweet, func(ctx context.Context) { r.Publisher.PublishCuratedRetweet(ctx) }},
		}
		for _, j := range daily {
			hour, minute, err := config.ParseClock(j.at)
			if err != nil {
				return err
			}
			sched.AddJob(j.task, scheduler.DailyAt{Hour: hour, Minute: minute}, j.run)
		}

		hour, minute, err := config.ParseClock(r.cfg.Schedule.WeeklyRecap)
		if err != nil {
			return err
		}
		sunday := time.Sunday
		sched.AddJob(publisher.TaskWeeklyRecap, scheduler.DailyAt{Hour: hour, Minute: minute, Weekday: &sunday}, func(ctx context.Context) {
			r.Publisher.PublishWeeklyRecap(ctx)
		})
	}

	sched.Start()
	r.scheduler = sched
	logger.Logger.Printf("Scheduler started (review_mode=%v)", r.cfg.Options.ReviewMode)
	return nil
}

// Shutdown stops the scheduler and closes the archive.
func (r *Runner) Shutdown() {
	if r.scheduler != nil {
		r.scheduler.Stop()
	}
	if r.database != nil {
		if err := r.database.Close(); err != nil {
			logger.Logger.Printf("Error closing database: %v", err)
		}
	}
}
