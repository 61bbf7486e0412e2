package storage

import "time"

type dbAccount struct {
	ID             string
	Email          string
	Name           string
	PasswordHashed string
	Role           string
	CreatedAt      time.Time
}

type dbCategory struct {
	ID        string
	Name      string
	OwnerID   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type dbExpense struct {
	ID         string
	OwnerID    string
	CategoryID string
	Amount     float64
	Currency   string
	Date       time.Time
	Note       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
