package config

const (
	// DefaultDatabasePath is the default path for the export database
	DefaultDatabasePath = "./jira_export.db"

	// DefaultExportDir is the default directory for rendered export files
	DefaultExportDir = "./exports"

	// DefaultStoryPointsField is the custom field commonly holding story
	// points on JIRA cloud tenants; override per environment.
	DefaultStoryPointsField = "customfield_10016"
)
