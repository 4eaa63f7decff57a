package config

import (
	"strings"

	"github.com/spf13/viper"
)

type (
	Config struct {
		Atlassian
		Database
		Export
		Jira
	}

	Atlassian struct {
		Domain   string // Tenant subdomain, e.g. "mycompany"
		Email    string
		APIToken string
	}
	Database struct {
		Path string
	}
	Export struct {
		Dir string // Directory for rendered export files
	}
	Jira struct {
		StoryPointsField string // Custom field consulted for story points
	}
)

// NormalizeDomain strips protocol and the atlassian.net host suffix from
// user-supplied domain input, leaving the bare tenant subdomain.
func NormalizeDomain(domain string) string {
	domain = strings.TrimSpace(domain)
	domain = strings.TrimPrefix(domain, "https://")
	domain = strings.TrimPrefix(domain, "http://")
	domain = strings.ReplaceAll(domain, ".atlassian.net", "")
	return strings.Trim(domain, "/")
}

func NewConfig() *Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("export_dir", DefaultExportDir)
	v.SetDefault("jira_story_points_field", DefaultStoryPointsField)

	return &Config{
		Atlassian: Atlassian{
			Domain:   NormalizeDomain(v.GetString("ATLASSIAN_DOMAIN")),
			Email:    v.GetString("ATLASSIAN_EMAIL"),
			APIToken: v.GetString("ATLASSIAN_API_TOKEN"),
		},
		Database: Database{
			Path: v.GetString("DATABASE_PATH"),
		},
		Export: Export{
			Dir: v.GetString("EXPORT_DIR"),
		},
		Jira: Jira{
			StoryPointsField: v.GetString("JIRA_STORY_POINTS_FIELD"),
		},
	}
}
