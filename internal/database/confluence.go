package database

import (
	"time"

	"github.com/mrlokans/atlas-export/internal/entities"
	"github.com/mrlokans/atlas-export/internal/utils"
	"github.com/mrlokans/atlas-export/internal/xhtml"
)

// UpsertSpace stores a Confluence space from its raw API payload.
func (d *Database) UpsertSpace(space map[string]any) error {
	row := entities.Space{
		ID:         utils.GetString(space, "id"),
		Key:        utils.GetString(space, "key"),
		Name:       utils.GetString(space, "name"),
		Type:       utils.GetString(space, "type"),
		Status:     utils.GetString(space, "status"),
		ExportedAt: time.Now().UTC(),
	}
	return d.db.Clauses(upsertByID).Create(&row).Error
}

// UpsertPage stores a Confluence page from its raw API payload together
// with its label set. The storage-format body is extracted to plain text.
func (d *Database) UpsertPage(page map[string]any, labels []map[string]any) error {
	bodyStorage := utils.DigString(page, "body", "storage", "value")

	labelNames := make([]string, 0, len(labels))
	for _, label := range labels {
		name := utils.GetString(label, "name")
		if name == "" {
			name = utils.GetString(label, "prefix")
		}
		labelNames = append(labelNames, name)
	}

	row := entities.Page{
		ID:            utils.GetString(page, "id"),
		SpaceID:       utils.GetString(page, "spaceId"),
		Title:         utils.GetString(page, "title"),
		Status:        utils.GetString(page, "status"),
		ParentID:      utils.GetString(page, "parentId"),
		AuthorID:      utils.GetString(page, "authorId"),
		BodyPlain:     xhtml.Extract(bodyStorage),
		BodyRaw:       bodyStorage,
		Labels:        safeJSON(labelNames),
		Created:       utils.GetString(page, "createdAt"),
		Updated:       utils.DigString(page, "version", "createdAt"),
		VersionNumber: int(utils.GetFloat(utils.GetMap(page, "version"), "number")),
		RawJSON:       safeJSON(page),
	}
	return d.db.Clauses(upsertByID).Create(&row).Error
}

// UpsertPageComment stores a page footer comment from its raw API payload.
func (d *Database) UpsertPageComment(pageID string, comment map[string]any) error {
	bodyStorage := utils.DigString(comment, "body", "storage", "value")

	row := entities.PageComment{
		ID:        utils.GetString(comment, "id"),
		PageID:    pageID,
		AuthorID:  utils.GetString(comment, "authorId"),
		BodyPlain: xhtml.Extract(bodyStorage),
		BodyRaw:   bodyStorage,
		Created:   utils.GetString(comment, "createdAt"),
		Updated:   utils.DigString(comment, "version", "createdAt"),
	}
	return d.db.Clauses(upsertByID).Create(&row).Error
}

// Spaces returns all exported spaces ordered by key.
func (d *Database) Spaces() ([]entities.Space, error) {
	var spaces []entities.Space
	err := d.db.Order("key").Find(&spaces).Error
	return spaces, err
}

// Pages returns pages ordered by space then title, optionally filtered by
// space.
func (d *Database) Pages(spaceID string) ([]entities.Page, error) {
	var pages []entities.Page
	query := d.db.Order("space_id, title")
	if spaceID != "" {
		query = d.db.Where("space_id = ?", spaceID).Order("title")
	}
	err := query.Find(&pages).Error
	return pages, err
}

// PageComments returns page comments ordered by page then creation time,
// optionally filtered by page.
func (d *Database) PageComments(pageID string) ([]entities.PageComment, error) {
	var comments []entities.PageComment
	query := d.db.Order("page_id, created")
	if pageID != "" {
		query = d.db.Where("page_id = ?", pageID).Order("created")
	}
	err := query.Find(&comments).Error
	return comments, err
}
