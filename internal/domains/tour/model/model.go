package model

import "tourdesk/shared/model"

const (
	TableName  = "tours"
	EntityName = "tour"

	FieldID           = "id"
	FieldCode         = "code"
	FieldName         = "name"
	FieldDurationDays = "duration_days"
	FieldDescription  = "description"
	FieldCoverImage   = "cover_image"
	FieldActive       = "active"
)

type Tour struct {
	ID           string `db:"id"`
	Code         string `db:"code"`
	Name         string `db:"name"`
	DurationDays int    `db:"duration_days"`
	Description  string `db:"description"`
	CoverImage   string `db:"cover_image"`
	Active       bool   `db:"active"`
	model.Metadata
}
