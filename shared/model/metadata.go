package model

import (
	"time"

	"tourdesk/shared/constant"
)

type Metadata struct {
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	ModifiedAt time.Time `db:"modified_at" json:"modified_at"`
	CreatedBy  string    `db:"created_by"  json:"created_by"`
	ModifiedBy string    `db:"modified_by" json:"modified_by"`
}

// NewMetadata stamps both creation and modification with the same actor and time.
func NewMetadata(actor string, now time.Time) Metadata {
	return Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		CreatedBy:  actor,
		ModifiedBy: actor,
	}
}

// Touch records who changed a row and when on a column update map.
func Touch(fields map[string]any, actor string, now time.Time) map[string]any {
	if fields == nil {
		fields = make(map[string]any)
	}

	fields[constant.FieldModifiedAt] = now
	fields[constant.FieldModifiedBy] = actor

	return fields
}
