package cli

import (
	"flag"
	"fmt"
	"os"
)

// StatsCommand prints row counts for the local store.
type StatsCommand struct {
	DatabasePath string
}

func NewStatsCommand() *StatsCommand {
	return &StatsCommand{}
}

func (cmd *StatsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the export database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s stats [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Show row counts of the local export store.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *StatsCommand) Run() error {
	svc, cleanup, err := buildOfflineService(cmd.DatabasePath, "")
	if err != nil {
		return err
	}
	defer cleanup()

	jiraStats, confluenceStats, err := svc.Stats()
	if err != nil {
		return err
	}

	fmt.Println("JIRA")
	fmt.Printf("  Projects: %d\n", jiraStats.Projects)
	fmt.Printf("  Issues:   %d\n", jiraStats.Issues)
	fmt.Printf("  Comments: %d\n", jiraStats.Comments)
	fmt.Printf("  Links:    %d\n", jiraStats.Links)
	fmt.Println("Confluence")
	fmt.Printf("  Spaces:   %d\n", confluenceStats.Spaces)
	fmt.Printf("  Pages:    %d\n", confluenceStats.Pages)
	fmt.Printf("  Comments: %d\n", confluenceStats.Comments)

	return nil
}
