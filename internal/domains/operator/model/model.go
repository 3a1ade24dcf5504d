package model

import (
	"time"

	"tourdesk/shared/model"
)

const (
	TableName  = "operators"
	EntityName = "operator"

	FieldID        = "id"
	FieldEmail     = "email"
	FieldPassword  = "password"
	FieldFullName  = "full_name"
	FieldRole      = "role"
	FieldActive    = "active"
	FieldLastLogin = "last_login"
)

// Operator is a back-office account. Role drives RBAC.
type Operator struct {
	ID        string     `db:"id"`
	Email     string     `db:"email"`
	Password  string     `db:"password"`
	FullName  string     `db:"full_name"`
	Role      string     `db:"role"`
	Active    bool       `db:"active"`
	LastLogin *time.Time `db:"last_login"`
	model.Metadata
}
