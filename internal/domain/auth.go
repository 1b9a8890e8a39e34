package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims — полезная нагрузка access-токена.
// Subject (sub) всегда равен строковому ID пользователя,
// остальные поля копируются из записи пользователя при выдаче.
type AccessClaims struct {
	ID           int64  `json:"id"`
	Role         string `json:"role"`
	DepartmentID *int64 `json:"department_id,omitempty"`
	TeamID       *int64 `json:"team_id,omitempty"`
	IsAdmin      bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// Secure Token Issuing
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"` // Всегда "bearer"
}

// CurrentUser — личность, восстановленная из валидного токена.
// Создается заново на каждый запрос, нигде не кэшируется.
type CurrentUser struct {
	ID           int64  `json:"id"`
	Role         string `json:"role"`
	DepartmentID *int64 `json:"department_id"`
	TeamID       *int64 `json:"team_id"`
	IsAdmin      bool   `json:"is_admin"`
}
