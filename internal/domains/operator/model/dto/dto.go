package dto

import (
	"strings"

	"tourdesk/internal/domains/operator/model"
	"tourdesk/shared"
	"tourdesk/shared/constant"
	gDto "tourdesk/shared/dto"
	gModel "tourdesk/shared/model"
	"tourdesk/shared/timezone"

	"github.com/google/uuid"
)

type CreateOperatorRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	Password string `json:"password"  validate:"required,min=8,max=72"`
	FullName string `json:"full_name" validate:"required,max=100"`
	Role     string `json:"role"      validate:"omitempty,oneof=superadmin admin agent"`
}

func (r *CreateOperatorRequest) ToModel(actor, hashedPassword string) model.Operator {
	role := r.Role
	if role == "" {
		role = constant.RoleAgent
	}

	return model.Operator{
		ID:       uuid.NewString(),
		Email:    strings.ToLower(strings.TrimSpace(r.Email)),
		Password: hashedPassword,
		FullName: strings.TrimSpace(r.FullName),
		Role:     role,
		Active:   true,
		Metadata: gModel.NewMetadata(actor, timezone.Now()),
	}
}

type UpdateOperatorRequest struct {
	FullName *string `db:"full_name" json:"full_name,omitempty" validate:"omitempty,max=100"`
	Role     *string `db:"role"      json:"role,omitempty"      validate:"omitempty,oneof=superadmin admin agent"`
	Active   *bool   `db:"active"    json:"active,omitempty"`
}

type OperatorResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	Active    bool    `json:"active"`
	LastLogin *string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *OperatorResponse) FromModel(model model.Operator) {
	r.ID = model.ID
	r.Email = model.Email
	r.FullName = model.FullName
	r.Role = model.Role
	r.Active = model.Active
	r.LastLogin = nil

	if model.LastLogin != nil {
		lastLogin := timezone.Format(*model.LastLogin, constant.DateFormat)
		r.LastLogin = &lastLogin
	}

	r.Metadata.FromModel(model.Metadata)
}

type GetOperatorsResponse struct {
	Operators []OperatorResponse `json:"operators"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetOperatorsResponse) FromModels(models []model.Operator, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Operators = make([]OperatorResponse, len(models))
	for i, mod := range models {
		r.Operators[i].FromModel(mod)
	}
}
