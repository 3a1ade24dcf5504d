package dto

import (
	"tourdesk/shared/constant"
	"tourdesk/shared/model"
	"tourdesk/shared/timezone"
)

// Metadata is the audit trail rendered on every resource response.
type Metadata struct {
	CreatedAt  string `json:"created_at"`
	ModifiedAt string `json:"modified_at,omitempty"`
	CreatedBy  string `json:"created_by"`
	ModifiedBy string `json:"modified_by,omitempty"`
}

// FromModel formats audit timestamps in the app timezone. Rows synced
// before audit columns existed carry a zero modified_at, which is left blank.
func (m *Metadata) FromModel(meta model.Metadata) {
	m.CreatedAt = timezone.Format(meta.CreatedAt, constant.DateFormat)
	m.CreatedBy = meta.CreatedBy
	m.ModifiedBy = meta.ModifiedBy

	if !meta.ModifiedAt.IsZero() {
		m.ModifiedAt = timezone.Format(meta.ModifiedAt, constant.DateFormat)
	}
}
