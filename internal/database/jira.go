package database

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/atlas-export/internal/adf"
	"github.com/mrlokans/atlas-export/internal/entities"
	"github.com/mrlokans/atlas-export/internal/utils"
)

const customFieldPrefix = "customfield_"

// upsert replaces every column of an existing row keyed by id, or inserts.
var upsertByID = clause.OnConflict{
	Columns:   []clause.Column{{Name: "id"}},
	UpdateAll: true,
}

// safeJSON serializes v, or returns "" for nil values and marshal failures.
func safeJSON(v any) string {
	if v == nil {
		return ""
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}

func userName(user map[string]any) string {
	return utils.GetString(user, "displayName")
}

func userEmail(user map[string]any) string {
	return utils.GetString(user, "emailAddress")
}

// UpsertProject stores a project from its raw API payload. An ADF
// description is extracted to plain text.
func (d *Database) UpsertProject(project map[string]any) error {
	row := entities.Project{
		ID:          utils.GetString(project, "id"),
		Key:         utils.GetString(project, "key"),
		Name:        utils.GetString(project, "name"),
		Type:        utils.GetString(project, "projectTypeKey"),
		LeadName:    userName(utils.GetMap(project, "lead")),
		Description: adf.ExtractValue(project["description"]),
		ExportedAt:  time.Now().UTC(),
	}
	return d.db.Clauses(upsertByID).Create(&row).Error
}

// UpsertIssue stores an issue from its raw API payload. fieldMap resolves
// custom-field IDs to display names; it may be nil, in which case custom
// fields are simply not resolved. storyPointsField names the custom field
// consulted for story points when no story_points field is present.
func (d *Database) UpsertIssue(issue map[string]any, fieldMap map[string]string, storyPointsField string) error {
	fields := utils.GetMap(issue, "fields")
	key := utils.GetString(issue, "key")

	descRaw := fields["description"]
	descText := adf.ExtractValue(descRaw)
	descJSON := ""
	if _, ok := descRaw.(map[string]any); ok {
		descJSON = safeJSON(descRaw)
	}

	customFields := map[string]any{}
	for fieldID, fieldName := range fieldMap {
		if !strings.HasPrefix(fieldID, customFieldPrefix) {
			continue
		}
		if val, ok := fields[fieldID]; ok && val != nil {
			customFields[fieldName] = val
		}
	}
	customJSON := ""
	if len(customFields) > 0 {
		customJSON = safeJSON(customFields)
	}

	storyPoints := utils.GetFloat(fields, "story_points")
	if storyPoints == 0 && storyPointsField != "" {
		storyPoints = utils.GetFloat(fields, storyPointsField)
	}

	projectKey := utils.DigString(fields, "project", "key")
	if projectKey == "" {
		// Derive from the issue key, e.g. "PROJ-42" -> "PROJ".
		if idx := strings.LastIndex(key, "-"); idx > 0 {
			projectKey = key[:idx]
		}
	}

	sprintJSON := ""
	if sprint, ok := fields["sprint"]; ok && sprint != nil {
		sprintJSON = safeJSON(sprint)
	}

	row := entities.Issue{
		ID:             utils.GetString(issue, "id"),
		Key:            key,
		ProjectKey:     projectKey,
		Summary:        utils.GetString(fields, "summary"),
		Description:    descText,
		DescriptionRaw: descJSON,

		IssueType:      utils.DigString(fields, "issuetype", "name"),
		Status:         utils.DigString(fields, "status", "name"),
		StatusCategory: utils.DigString(fields, "status", "statusCategory", "name"),
		Priority:       utils.DigString(fields, "priority", "name"),

		AssigneeName:  userName(utils.GetMap(fields, "assignee")),
		AssigneeEmail: userEmail(utils.GetMap(fields, "assignee")),
		ReporterName:  userName(utils.GetMap(fields, "reporter")),
		ReporterEmail: userEmail(utils.GetMap(fields, "reporter")),
		CreatorName:   userName(utils.GetMap(fields, "creator")),
		CreatorEmail:  userEmail(utils.GetMap(fields, "creator")),

		Labels:          safeJSON(fields["labels"]),
		Components:      safeJSON(utils.StringList(utils.GetSlice(fields, "components"), "name")),
		FixVersions:     safeJSON(utils.StringList(utils.GetSlice(fields, "fixVersions"), "name")),
		AffectsVersions: safeJSON(utils.StringList(utils.GetSlice(fields, "versions"), "name")),

		Resolution:     utils.DigString(fields, "resolution", "name"),
		ResolutionDate: utils.GetString(fields, "resolutiondate"),
		Created:        utils.GetString(fields, "created"),
		Updated:        utils.GetString(fields, "updated"),
		DueDate:        utils.GetString(fields, "duedate"),

		ParentKey: utils.DigString(fields, "parent", "key"),

		TimeOriginalEstimate: int64(utils.GetFloat(fields, "timeoriginalestimate")),
		TimeSpent:            int64(utils.GetFloat(fields, "timespent")),
		TimeRemaining:        int64(utils.GetFloat(fields, "timeestimate")),
		StoryPoints:          storyPoints,
		Sprint:               sprintJSON,

		CustomFields: customJSON,
		RawJSON:      safeJSON(issue),
	}
	return d.db.Clauses(upsertByID).Create(&row).Error
}

// UpsertComment stores an issue comment from its raw API payload.
func (d *Database) UpsertComment(issueKey string, comment map[string]any) error {
	bodyRaw := comment["body"]
	bodyJSON := ""
	if _, ok := bodyRaw.(map[string]any); ok {
		bodyJSON = safeJSON(bodyRaw)
	}
	author := utils.GetMap(comment, "author")

	row := entities.Comment{
		ID:          utils.GetString(comment, "id"),
		IssueKey:    issueKey,
		AuthorName:  userName(author),
		AuthorEmail: userEmail(author),
		Body:        adf.ExtractValue(bodyRaw),
		BodyRaw:     bodyJSON,
		Created:     utils.GetString(comment, "created"),
		Updated:     utils.GetString(comment, "updated"),
	}
	return d.db.Clauses(upsertByID).Create(&row).Error
}

// ReplaceIssueLinks replaces the full link set of an issue with the set in
// the given issuelinks payloads. The API always returns the complete
// current set per issue, so stale rows never accumulate.
func (d *Database) ReplaceIssueLinks(issueKey string, links []map[string]any) error {
	rows := make([]entities.IssueLink, 0, len(links))
	for _, link := range links {
		linkType := utils.DigString(link, "type", "name")
		if inward := utils.DigString(link, "inwardIssue", "key"); inward != "" {
			rows = append(rows, entities.IssueLink{
				IssueKey:       issueKey,
				LinkType:       linkType,
				Direction:      entities.LinkDirectionInward,
				LinkedIssueKey: inward,
			})
		}
		if outward := utils.DigString(link, "outwardIssue", "key"); outward != "" {
			rows = append(rows, entities.IssueLink{
				IssueKey:       issueKey,
				LinkType:       linkType,
				Direction:      entities.LinkDirectionOutward,
				LinkedIssueKey: outward,
			})
		}
	}

	return d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("issue_key = ?", issueKey).Delete(&entities.IssueLink{}).Error; err != nil {
			return err
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

// UpsertFieldDefinitions stores the field-definition catalog.
func (d *Database) UpsertFieldDefinitions(fields []map[string]any) error {
	for _, field := range fields {
		row := entities.FieldDefinition{
			ID:         utils.GetString(field, "id"),
			Name:       utils.GetString(field, "name"),
			Custom:     utils.GetBool(field, "custom"),
			SchemaType: utils.DigString(field, "schema", "type"),
		}
		if err := d.db.Clauses(upsertByID).Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// CustomFieldMap returns a mapping of custom field ID to display name.
func (d *Database) CustomFieldMap() (map[string]string, error) {
	var defs []entities.FieldDefinition
	if err := d.db.Where("custom = ?", true).Find(&defs).Error; err != nil {
		return nil, err
	}
	fieldMap := make(map[string]string, len(defs))
	for _, def := range defs {
		fieldMap[def.ID] = def.Name
	}
	return fieldMap, nil
}

// Projects returns all exported projects ordered by key.
func (d *Database) Projects() ([]entities.Project, error) {
	var projects []entities.Project
	err := d.db.Order("key").Find(&projects).Error
	return projects, err
}

// Issues returns issues ordered by key, optionally filtered by project.
func (d *Database) Issues(projectKey string) ([]entities.Issue, error) {
	var issues []entities.Issue
	query := d.db.Order("key")
	if projectKey != "" {
		query = query.Where("project_key = ?", projectKey)
	}
	err := query.Find(&issues).Error
	return issues, err
}

// Comments returns comments ordered by issue then creation time, optionally
// filtered by issue.
func (d *Database) Comments(issueKey string) ([]entities.Comment, error) {
	var comments []entities.Comment
	query := d.db.Order("issue_key, created")
	if issueKey != "" {
		query = d.db.Where("issue_key = ?", issueKey).Order("created")
	}
	err := query.Find(&comments).Error
	return comments, err
}

// IssueLinks returns issue links, optionally filtered by issue.
func (d *Database) IssueLinks(issueKey string) ([]entities.IssueLink, error) {
	var links []entities.IssueLink
	query := d.db.Order("issue_key, id")
	if issueKey != "" {
		query = d.db.Where("issue_key = ?", issueKey).Order("id")
	}
	err := query.Find(&links).Error
	return links, err
}
