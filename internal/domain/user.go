package domain

import "github.com/google/uuid"

type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash string `json:"-"`
	BirthYear    int
	IsAdmin      bool
}
