package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/soletta-dev/postpilot/cmd"
	"github.com/soletta-dev/postpilot/config"
	"github.com/soletta-dev/postpilot/generator"
	"github.com/soletta-dev/postpilot/logger"
	"github.com/soletta-dev/postpilot/publisher"
	"github.com/soletta-dev/postpilot/review"
	"github.com/soletta-dev/postpilot/store"
	"github.com/soletta-dev/postpilot/ui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
)

const version = "v0.3.1"

func main() {
	flags, subcommand := cmd.ParseFlags()

	if flags.Version {
		fmt.Printf("PostPilot version %s\n", version)
		return
	}

	configPath := config.GetConfigPath()
	if err := config.EnsureConfigExists(configPath); err != nil {
		log.Fatal(err)
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.InitLogger(cfg); err != nil {
		log.Fatal(err)
	}
	logger.Logger.Printf("Starting PostPilot version %s", version)

	if subcommand == "service" {
		cmd.RunService()
		return
	}

	// The --run path installs its own handler so the scheduler can drain.
	if !flags.Run {
		signalChan := make(chan os.Signal, 1)
		signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-signalChan
			fmt.Println("Received interrupt signal. Shutting down...")
			os.Exit(0)
		}()
	}

	fileStore, err := store.NewFileStore(filepath.Join(cfg.Options.DataDir, "review"))
	if err != nil {
		log.Fatal(err)
	}
	reviews := review.NewSystem(fileStore)

	switch {
	case flags.Generate != "":
		runGenerate(flags.Generate)
	case flags.ListPending:
		runListPending(reviews)
	case flags.Stats:
		runStats(reviews)
	case flags.History > 0:
		runHistory(reviews, flags.History)
	case flags.BatchApprove:
		runBatchApprove(reviews)
	case flags.CreateDrafts:
		runCreateDrafts(reviews)
	case flags.PublishApproved:
		runner := mustRunner(cfg)
		defer runner.Shutdown()
		runPublishApproved(runner)
	case flags.Task != "":
		runner := mustRunner(cfg)
		defer runner.Shutdown()
		runTask(runner, flags.Task)
	case flags.Status != "" || subcommand == "status":
		runner := mustRunner(cfg)
		defer runner.Shutdown()
		runStatus(runner, flags.Status)
	case flags.Run:
		runner := mustRunner(cfg)
		runScheduler(runner)
	default:
		runInteractive(reviews)
	}
}

// mustRunner builds the full pipeline, requiring platform credentials.
// Missing credentials abort immediately rather than failing mid-publish.
func mustRunner(cfg *config.Config) *cmd.Runner {
	creds, err := config.LoadCredentials(cfg.Platform.GeneratorURL != "")
	if err != nil {
		color.Red("Credential error: %v", err)
		logger.Logger.Printf("Credential error: %v", err)
		os.Exit(1)
	}
	runner, err := cmd.NewRunner(cfg, creds)
	if err != nil {
		color.Red("Failed to build pipeline: %v", err)
		os.Exit(1)
	}
	return runner
}

func runGenerate(kind string) {
	source := generator.New(generator.DefaultPool(), time.Now().UnixNano())
	content, err := source.Generate(kind)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
	if content.IsThread() {
		for i, item := range content.Items() {
			fmt.Printf("%d. %s (%d chars)\n", i+1, item, len([]rune(item)))
		}
	} else {
		fmt.Printf("%s\n(%d chars)\n", content.Text(), len([]rune(content.Text())))
	}
}

func runListPending(reviews *review.System) {
	pending, err := reviews.GetPendingReviews()
	if err != nil {
		color.Red("Failed to load pending drafts: %v", err)
		os.Exit(1)
	}
	if len(pending) == 0 {
		color.Green("No drafts awaiting review.")
		return
	}
	fmt.Printf("%d drafts awaiting review:\n\n", len(pending))
	for _, d := range pending {
		fmt.Printf("  %s  %-10s  %-10s  %s\n",
			d.DraftID, d.Kind, d.Status, humanize.Time(d.CreatedAt))
	}
}

func runStats(reviews *review.System) {
	stats, err := reviews.GetStats()
	if err != nil {
		color.Red("Failed to load stats: %v", err)
		os.Exit(1)
	}
	fmt.Printf("Drafts:        %d\n", stats.TotalDrafts)
	fmt.Printf("Pending:       %d\n", stats.PendingReviews)
	fmt.Printf("Approved:      %d\n", stats.ApprovedContent)
	fmt.Printf("Published:     %d\n", stats.PublishedContent)
	fmt.Printf("Reviews:       %d\n", stats.TotalReviews)
	fmt.Printf("Publications:  %d\n", stats.TotalPublications)
	fmt.Printf("Approval rate: %.1f%%\n", stats.ApprovalRate)
}

func runHistory(reviews *review.System, days int) {
	history, err := reviews.GetReviewHistory(days)
	if err != nil {
		color.Red("Failed to load history: %v", err)
		os.Exit(1)
	}
	if len(history) == 0 {
		fmt.Printf("No reviews in the last %d days.\n", days)
		return
	}
	for _, entry := range history {
		decision := color.GreenString(string(entry.Decision))
		if entry.Decision == review.DecisionRejected {
			decision = color.RedString(string(entry.Decision))
		}
		fmt.Printf("%s  %-10s  %s  %s\n",
			entry.ReviewedAt.UTC().Format("2006-01-02 15:04"), entry.Kind, decision, entry.Notes)
	}
}

func runBatchApprove(reviews *review.System) {
	pending, err := reviews.GetPendingReviews()
	if err != nil {
		color.Red("Failed to load pending drafts: %v", err)
		os.Exit(1)
	}
	if len(pending) == 0 {
		color.Green("No drafts to approve.")
		return
	}

	bar := progressbar.Default(int64(len(pending)), "approving")
	approved, skipped := 0, 0
	for _, d := range pending {
		preview, err := reviews.PreviewContent(d.DraftID)
		if err != nil || preview.Err != "" || !preview.LengthOk {
			skipped++
			_ = bar.Add(1)
			continue
		}
		if _, err := reviews.ApproveContent(d.DraftID, "batch approved"); err != nil {
			logger.Logger.Printf("Failed to approve %s: %v", d.DraftID, err)
		} else {
			approved++
		}
		_ = bar.Add(1)
	}
	color.Green("Approved %d/%d drafts (%d skipped over the character limit).", approved, len(pending), skipped)
}

func runCreateDrafts(reviews *review.System) {
	source := generator.New(generator.DefaultPool(), time.Now().UnixNano())
	pub := publisher.NewDailyPublisher(reviews, source, nil, nil, "", 0)
	batch := pub.CreateContentDraftsForReview()
	fmt.Println(batch.Message)
	for _, d := range batch.Drafts {
		if d.Success {
			color.Green("  %s -> %s", d.Kind, d.DraftID)
		} else {
			color.Red("  %s failed: %s", d.Kind, d.Error)
		}
	}
}

func runPublishApproved(runner *cmd.Runner) {
	batch, err := runner.Publisher.PublishApprovedContent(context.Background())
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
	fmt.Println(batch.Message)
	for _, r := range batch.Results {
		if r.Success {
			color.Green("  %s (%s): %v", r.DraftID, r.Type, r.PostIDs)
		} else {
			color.Red("  %s (%s) failed: %s", r.DraftID, r.Type, r.Error)
		}
	}
	if batch.Published < batch.Total {
		os.Exit(1)
	}
}

func runTask(runner *cmd.Runner, task string) {
	result, err := runner.Publisher.Run(context.Background(), task)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
	switch {
	case result.Skipped:
		color.Yellow("Task %s skipped: %s", result.Task, result.Reason)
	case result.Success:
		color.Green("Task %s succeeded: %v", result.Task, result.PostIDs)
	default:
		color.Red("Task %s failed: %s", result.Task, result.Error)
		os.Exit(1)
	}
}

func runStatus(runner *cmd.Runner, date string) {
	status, err := runner.Publisher.Status(date)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
	if !status.HasLogs {
		fmt.Printf("No publish log for %s.\n", status.Date)
		return
	}
	fmt.Printf("Publish log for %s: %d/%d tasks succeeded\n\n", status.Date, status.SuccessfulTasks, status.TotalTasks)
	for _, t := range status.Tasks {
		mark := color.GreenString("ok")
		switch {
		case t.Skipped:
			mark = color.YellowString("skipped")
		case !t.Success:
			mark = color.RedString("failed")
		}
		fmt.Printf("  %s  %-18s  %s\n", t.Time.UTC().Format("15:04"), t.Task, mark)
		if t.Error != "" {
			fmt.Printf("      %s\n", t.Error)
		}
	}
}

func runScheduler(runner *cmd.Runner) {
	if err := runner.StartScheduler(); err != nil {
		color.Red("Failed to start scheduler: %v", err)
		os.Exit(1)
	}
	fmt.Println("Scheduler running. Press Ctrl+C to stop.")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	fmt.Println("Stopping scheduler...")
	runner.Shutdown()
}

func runInteractive(reviews *review.System) {
	model := ui.NewReviewModel(reviews)
	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Logger.Printf("Error: %v", err)
		os.Exit(1)
	}
}
