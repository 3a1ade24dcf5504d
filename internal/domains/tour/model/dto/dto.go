package dto

import (
	"mime/multipart"
	"strings"

	"tourdesk/internal/domains/tour/model"
	"tourdesk/shared"
	gDto "tourdesk/shared/dto"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"

	"github.com/google/uuid"
)

// CreateTourRequest is bound from a multipart form.
type CreateTourRequest struct {
	Code         string                `json:"code"          validate:"required,max=30"`
	Name         string                `json:"name"          validate:"required,max=150"`
	DurationDays int                   `json:"duration_days" validate:"required,min=1,max=60"`
	Description  string                `json:"description"   validate:"omitempty,max=5000"`
	Cover        *multipart.FileHeader `json:"cover"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	CoverFile    multipart.File        `json:"-"`
	Active       *bool                 `json:"active"        validate:"omitempty"`
}

func (c *CreateTourRequest) ToModel(actor, coverURL string) model.Tour {
	active := true
	if c.Active != nil {
		active = *c.Active
	}

	return model.Tour{
		ID:           uuid.NewString(),
		Code:         strings.ToUpper(strings.TrimSpace(c.Code)),
		Name:         strings.TrimSpace(c.Name),
		DurationDays: c.DurationDays,
		Description:  c.Description,
		CoverImage:   coverURL,
		Active:       active,
		Metadata:     gModel.NewMetadata(actor, timezone.Now()),
	}
}

type UpdateTourRequest struct {
	Name         string                `db:"name"          json:"name"          validate:"omitempty,max=150"`
	DurationDays *int                  `db:"duration_days" json:"duration_days" validate:"omitempty,min=1,max=60"`
	Description  *string               `db:"description"   json:"description"   validate:"omitempty,max=5000"`
	Cover        *multipart.FileHeader `json:"cover"         validate:"omitempty,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
	CoverFile    multipart.File        `json:"-"`
	Active       *bool                 `db:"active"        json:"active"        validate:"omitempty"`
}

func (u *UpdateTourRequest) IsEmpty() bool {
	return u.Name == "" && u.DurationDays == nil && u.Description == nil && u.Cover == nil && u.Active == nil
}

// UpdateCoverRequest carries the cover as a base64 data URI.
type UpdateCoverRequest struct {
	Cover string `json:"cover" validate:"required,mimetypes=image/png image/jpg image/jpeg image/webp,maxfilesize=2"`
}

type UpdateCoverResponse struct {
	CoverImage string `json:"cover_image"`
}

type TourResponse struct {
	ID           string `json:"id"`
	Code         string `json:"code"`
	Name         string `json:"name"`
	DurationDays int    `json:"duration_days"`
	Description  string `json:"description"`
	CoverImage   string `json:"cover_image"`
	Active       bool   `json:"active"`
	gDto.Metadata
}

func (r *TourResponse) FromModel(model model.Tour) {
	r.ID = model.ID
	r.Code = model.Code
	r.Name = model.Name
	r.DurationDays = model.DurationDays
	r.Description = model.Description
	r.CoverImage = model.CoverImage
	r.Active = model.Active
	r.Metadata.FromModel(model.Metadata)
}

type GetToursResponse struct {
	Tours     []TourResponse `json:"tours"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetToursResponse) FromModels(models []model.Tour, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Tours = make([]TourResponse, len(models))
	for i, mod := range models {
		r.Tours[i].FromModel(mod)
	}
}
