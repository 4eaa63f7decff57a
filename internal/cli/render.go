package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/atlas-export/internal/services"
)

// RenderCommand renders the local store into export files.
type RenderCommand struct {
	DatabasePath string
	OutputDir    string
	Format       string
	ProjectKey   string
}

func NewRenderCommand() *RenderCommand {
	return &RenderCommand{}
}

func (cmd *RenderCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	fs.StringVar(&cmd.DatabasePath, "db", "", "Path to the export database")
	fs.StringVar(&cmd.OutputDir, "output", "", "Output directory for export files")
	fs.StringVar(&cmd.Format, "format", string(services.FormatCSV), "Export format: csv, jira_csv or json")
	fs.StringVar(&cmd.ProjectKey, "project", "", "Restrict the export to one project key")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s render -format <format> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Render the local store into export files.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *RenderCommand) Run() error {
	svc, cleanup, err := buildOfflineService(cmd.DatabasePath, cmd.OutputDir)
	if err != nil {
		return err
	}
	defer cleanup()

	files, err := svc.RenderExport(services.Format(cmd.Format), cmd.ProjectKey)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Println("No issues to export.")
		return nil
	}
	for _, file := range files {
		fmt.Println(file)
	}
	return nil
}
