package domain

import "time"

// User — запись пользователя CRM (источник правды — Postgres).
type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Никогда не отправляем на фронт
	Role         string    `json:"role"`
	DepartmentID *int64    `json:"department_id"`
	TeamID       *int64    `json:"team_id"`
	IsAdmin      bool      `json:"is_admin"`
	IsDeleted    bool      `json:"is_deleted"` // Soft-delete: такие записи не аутентифицируются
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
