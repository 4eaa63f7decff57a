package entities

import "time"

// Space is an exported Confluence space.
type Space struct {
	ID         string    `gorm:"primaryKey;size:32" json:"id"`
	Key        string    `gorm:"uniqueIndex;size:64" json:"key"`
	Name       string    `gorm:"size:512" json:"name"`
	Type       string    `gorm:"size:64" json:"type,omitempty"`
	Status     string    `gorm:"size:64" json:"status,omitempty"`
	ExportedAt time.Time `json:"exported_at"`
}

// Page is an exported Confluence page. BodyPlain holds the extracted text,
// BodyRaw the original storage-format markup.
type Page struct {
	ID            string `gorm:"primaryKey;size:32" json:"id"`
	SpaceID       string `gorm:"index;size:32" json:"space_id"`
	Title         string `gorm:"size:1024" json:"title"`
	Status        string `gorm:"size:64" json:"status,omitempty"`
	ParentID      string `gorm:"size:32" json:"parent_id,omitempty"`
	AuthorID      string `gorm:"size:64" json:"author_id,omitempty"`
	BodyPlain     string `gorm:"type:text" json:"body_plain,omitempty"`
	BodyRaw       string `gorm:"type:text" json:"body_raw,omitempty"`
	Labels        string `gorm:"type:text" json:"labels,omitempty"`
	Created       string `gorm:"size:64" json:"created,omitempty"`
	Updated       string `gorm:"size:64" json:"updated,omitempty"`
	VersionNumber int    `json:"version_number,omitempty"`
	RawJSON       string `gorm:"type:text" json:"raw_json,omitempty"`
}

// PageComment is a footer comment on a Confluence page.
type PageComment struct {
	ID        string `gorm:"primaryKey;size:32" json:"id"`
	PageID    string `gorm:"index;size:32" json:"page_id"`
	AuthorID  string `gorm:"size:64" json:"author_id,omitempty"`
	BodyPlain string `gorm:"type:text" json:"body_plain,omitempty"`
	BodyRaw   string `gorm:"type:text" json:"body_raw,omitempty"`
	Created   string `gorm:"size:64" json:"created,omitempty"`
	Updated   string `gorm:"size:64" json:"updated,omitempty"`
}
