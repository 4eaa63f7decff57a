package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
)

// ValidateCommand checks the configured credentials against both APIs.
type ValidateCommand struct {
	DatabasePath string
}

func NewValidateCommand() *ValidateCommand {
	return &ValidateCommand{}
}

func (cmd *ValidateCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("validate", flag.ExitOnError)
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the export database")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s validate [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Validate the configured Atlassian credentials.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ValidateCommand) Run() error {
	svc, cleanup, err := buildService(cmd.DatabasePath, "")
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()

	jiraUser, err := svc.ValidateJiraCredentials(ctx)
	if err != nil {
		return fmt.Errorf("JIRA credential check failed: %w", err)
	}
	fmt.Printf("JIRA: connected as %s (%s)\n", jiraUser.DisplayName, jiraUser.AccountType)

	confluenceUser, err := svc.ValidateConfluenceCredentials(ctx)
	if err != nil {
		return fmt.Errorf("Confluence credential check failed: %w", err)
	}
	fmt.Printf("Confluence: connected as %s\n", confluenceUser.DisplayName)

	return nil
}
