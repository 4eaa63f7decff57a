package entities

import "time"

// Project is an exported JIRA project. The primary key is the immutable
// API ID; the human-readable key is unique but may be renamed upstream.
type Project struct {
	ID          string    `gorm:"primaryKey;size:32" json:"id"`
	Key         string    `gorm:"uniqueIndex;size:64" json:"key"`
	Name        string    `gorm:"size:512" json:"name"`
	Type        string    `gorm:"size:64" json:"type,omitempty"`
	LeadName    string    `gorm:"size:256" json:"lead_name,omitempty"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}

// Issue is an exported JIRA issue. The description is held twice: Description
// is the extracted plain text, DescriptionRaw the original ADF document as
// JSON. RawJSON retains the complete API payload.
type Issue struct {
	ID             string `gorm:"primaryKey;size:32" json:"id"`
	Key            string `gorm:"uniqueIndex;size:64" json:"key"`
	ProjectKey     string `gorm:"index;size:64" json:"project_key"`
	Summary        string `gorm:"size:1024" json:"summary"`
	Description    string `gorm:"type:text" json:"description,omitempty"`
	DescriptionRaw string `gorm:"type:text" json:"description_raw,omitempty"`

	IssueType      string `gorm:"size:64" json:"issue_type,omitempty"`
	Status         string `gorm:"size:64" json:"status,omitempty"`
	StatusCategory string `gorm:"size:64" json:"status_category,omitempty"`
	Priority       string `gorm:"size:64" json:"priority,omitempty"`

	AssigneeName  string `gorm:"size:256" json:"assignee_name,omitempty"`
	AssigneeEmail string `gorm:"size:256" json:"assignee_email,omitempty"`
	ReporterName  string `gorm:"size:256" json:"reporter_name,omitempty"`
	ReporterEmail string `gorm:"size:256" json:"reporter_email,omitempty"`
	CreatorName   string `gorm:"size:256" json:"creator_name,omitempty"`
	CreatorEmail  string `gorm:"size:256" json:"creator_email,omitempty"`

	// Multi-value fields serialized as JSON arrays of strings.
	Labels          string `gorm:"type:text" json:"labels,omitempty"`
	Components      string `gorm:"type:text" json:"components,omitempty"`
	FixVersions     string `gorm:"type:text" json:"fix_versions,omitempty"`
	AffectsVersions string `gorm:"type:text" json:"affects_versions,omitempty"`

	Resolution     string `gorm:"size:128" json:"resolution,omitempty"`
	ResolutionDate string `gorm:"size:64" json:"resolution_date,omitempty"`
	Created        string `gorm:"size:64" json:"created,omitempty"`
	Updated        string `gorm:"size:64" json:"updated,omitempty"`
	DueDate        string `gorm:"size:64" json:"due_date,omitempty"`

	// Parent is a soft reference; the parent issue may not exist locally.
	ParentKey string `gorm:"index;size:64" json:"parent_key,omitempty"`

	TimeOriginalEstimate int64   `json:"time_original_estimate,omitempty"`
	TimeSpent            int64   `json:"time_spent,omitempty"`
	TimeRemaining        int64   `json:"time_remaining,omitempty"`
	StoryPoints          float64 `json:"story_points,omitempty"`
	Sprint               string  `gorm:"type:text" json:"sprint,omitempty"`

	// CustomFields maps resolved field names to values, as a JSON object.
	CustomFields string `gorm:"type:text" json:"custom_fields,omitempty"`
	RawJSON      string `gorm:"type:text" json:"raw_json,omitempty"`
}

// Comment is an exported JIRA issue comment with the same dual
// plain/raw body pattern as Issue.
type Comment struct {
	ID          string `gorm:"primaryKey;size:32" json:"id"`
	IssueKey    string `gorm:"index;size:64" json:"issue_key"`
	AuthorName  string `gorm:"size:256" json:"author_name,omitempty"`
	AuthorEmail string `gorm:"size:256" json:"author_email,omitempty"`
	Body        string `gorm:"type:text" json:"body,omitempty"`
	BodyRaw     string `gorm:"type:text" json:"body_raw,omitempty"`
	Created     string `gorm:"size:64" json:"created,omitempty"`
	Updated     string `gorm:"size:64" json:"updated,omitempty"`
}

// Link direction as reported by the API for a given issue.
const (
	LinkDirectionInward  = "inward"
	LinkDirectionOutward = "outward"
)

// IssueLink is a typed, directed edge between two issues. The full edge set
// for an issue is replaced on every export, so rows carry no stable API ID.
type IssueLink struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	IssueKey       string `gorm:"index;size:64" json:"issue_key"`
	LinkType       string `gorm:"size:64" json:"link_type,omitempty"`
	Direction      string `gorm:"size:16" json:"direction"`
	LinkedIssueKey string `gorm:"size:64" json:"linked_issue_key"`
}

// FieldDefinition maps an opaque field ID to its display name. Used to
// resolve custom-field names on issues.
type FieldDefinition struct {
	ID         string `gorm:"primaryKey;size:64" json:"id"`
	Name       string `gorm:"size:256" json:"name"`
	Custom     bool   `json:"custom"`
	SchemaType string `gorm:"size:64" json:"schema_type,omitempty"`
}
