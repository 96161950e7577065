package models

import (
	"time"

	"github.com/google/uuid"
)

// Tender represents an uploaded tender-specification document with its
// extracted text. PDF parsing happens once at upload; the analysis pipeline
// only ever sees the extracted text.
type Tender struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	TenantID  uuid.UUID `db:"tenant_id"  json:"tenant_id"`
	FileName  string    `db:"file_name"  json:"file_name"`
	FileSize  int64     `db:"file_size"  json:"file_size"`
	PageCount int       `db:"page_count" json:"page_count"`
	Text      string    `db:"text"       json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
