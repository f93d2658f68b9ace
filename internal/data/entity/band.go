package entity

import "github.com/google/uuid"

// Band is managed by exactly one user
type Band struct {
	Base
	Name      string    `db:"name"`
	ManagerID uuid.UUID `db:"manager_id"`
	IsDeleted bool      `db:"is_deleted"`
}
