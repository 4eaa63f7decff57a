package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
)

// ProjectsCommand lists JIRA projects or Confluence spaces available for
// export.
type ProjectsCommand struct {
	DatabasePath string
	Spaces       bool
}

func NewProjectsCommand() *ProjectsCommand {
	return &ProjectsCommand{}
}

func (cmd *ProjectsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("projects", flag.ExitOnError)
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the export database")
	fs.BoolVar(&cmd.Spaces, "spaces", false, "List Confluence spaces instead of JIRA projects")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s projects [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "List accessible JIRA projects (or Confluence spaces with -spaces).\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ProjectsCommand) Run() error {
	svc, cleanup, err := buildService(cmd.DatabasePath, "")
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := context.Background()

	if cmd.Spaces {
		spaces, err := svc.ListSpaces(ctx)
		if err != nil {
			return err
		}
		for _, space := range spaces {
			fmt.Printf("%-12s %-40s %s\n", space.Key, space.Name, space.Type)
		}
		fmt.Printf("\n%d spaces\n", len(spaces))
		return nil
	}

	projects, err := svc.ListProjects(ctx)
	if err != nil {
		return err
	}
	for _, project := range projects {
		fmt.Printf("%-12s %-40s %-12s %s\n", project.Key, project.Name, project.Type, project.Lead)
	}
	fmt.Printf("\n%d projects\n", len(projects))
	return nil
}
