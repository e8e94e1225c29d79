package cmd

import (
	"flag"
)

type Flags struct {
	Generate        string
	Interactive     bool
	ListPending     bool
	BatchApprove    bool
	Stats           bool
	History         int
	CreateDrafts    bool
	PublishApproved bool
	Run             bool
	Task            string
	Status          string
	Version         bool
}

func ParseFlags() (Flags, string) {
	flags := Flags{}

	flag.StringVar(&flags.Generate, "g", "", "Generate content of a kind: headlines, thread, focus, or weekly")
	flag.StringVar(&flags.Generate, "generate", "", "Generate content of a kind: headlines, thread, focus, or weekly")
	flag.BoolVar(&flags.Interactive, "i", false, "Review pending drafts interactively")
	flag.BoolVar(&flags.Interactive, "interactive", false, "Review pending drafts interactively")
	flag.BoolVar(&flags.ListPending, "l", false, "List drafts awaiting review")
	flag.BoolVar(&flags.ListPending, "list-pending", false, "List drafts awaiting review")
	flag.BoolVar(&flags.BatchApprove, "batch-approve", false, "Approve every pending draft")
	flag.BoolVar(&flags.Stats, "stats", false, "Show workflow statistics")
	flag.IntVar(&flags.History, "history", 0, "Show review history for the last N days")
	flag.BoolVar(&flags.CreateDrafts, "create-drafts", false, "Generate the daily draft batch for review")
	flag.BoolVar(&flags.PublishApproved, "publish-approved", false, "Publish all approved drafts")
	flag.BoolVar(&flags.Run, "run", false, "Run the scheduler in the foreground")
	flag.StringVar(&flags.Task, "task", "", "Run one publish task by name")
	flag.StringVar(&flags.Status, "status", "", "Show the publish log for a date (YYYY-MM-DD, empty for today)")
	flag.BoolVar(&flags.Version, "v", false, "Display version information")
	flag.BoolVar(&flags.Version, "version", false, "Display version information")

	flag.Parse()

	args := flag.Args()
	var subcommand string
	if len(args) > 0 {
		subcommand = args[0]
	}

	return flags, subcommand
}
