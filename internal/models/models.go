package models

import (
	"time"
)

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string  `gorm:"not null"                  json:"name"`
	Category    string  `gorm:"index;not null"            json:"category"`
	Price       float64 `gorm:"not null"                  json:"price"`
	Image       string  `json:"image"`
	Specs       string  `json:"specs"`
	Description string  `json:"description"`
	Stock       uint    `json:"stock"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name         string `gorm:"not null"                  json:"name"`
	Email        string `gorm:"unique;not null"           json:"email"`
	PasswordHash string `gorm:"not null"                  json:"-"`
	Role         string `gorm:"not null;default:customer" json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	Role      string `json:"role"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

// Rental lifecycle statuses. The admin dashboard may move a rental to any
// of these; ProcessReturn additionally requires StatusApproved.
const (
	StatusAwaiting  = "awaiting"
	StatusApproved  = "approved"
	StatusCompleted = "completed"
	StatusPending   = "pending"
	StatusCanceled  = "canceled"
	StatusReturned  = "returned"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusAwaiting, StatusApproved, StatusCompleted, StatusPending, StatusCanceled, StatusReturned:
		return true
	}
	return false
}

type Rental struct {
	ID          uint         `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string       `gorm:"not null"                  json:"name"`
	Email       string       `gorm:"not null"                  json:"email"`
	Phone       string       `json:"phone"`
	StartDate   string       `gorm:"not null"                  json:"start_date"`
	EndDate     string       `gorm:"not null"                  json:"end_date"`
	TotalPrice  float64      `json:"total_price"`
	Status      string       `gorm:"not null;default:awaiting" json:"status"`
	ReturnDate  *time.Time   `json:"return_date,omitempty"`
	ReturnNotes string       `json:"return_notes,omitempty"`
	CreatedAt   int64        `json:"created_at"`
	Items       []RentalItem `gorm:"foreignKey:RentalID"       json:"items,omitempty"`
}

// RentalItem keeps a price snapshot so later product edits don't change
// what an existing rental was charged.
type RentalItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	RentalID  uint    `gorm:"index;not null"           json:"rental_id"`
	ProductID uint    `gorm:"not null"                 json:"product_id"`
	Category  string  `json:"category"`
	Price     float64 `gorm:"not null"                 json:"price"`
}

type PaymentTransaction struct {
	ID          uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	RentalID    uint    `gorm:"index;not null"           json:"rental_id"`
	OrderRef    string  `gorm:"unique;not null"          json:"order_ref"`
	GrossAmount float64 `gorm:"not null"                 json:"gross_amount"`
	Token       string  `gorm:"unique;not null"          json:"token"`
	Status      string  `gorm:"not null;default:pending" json:"status"`
	CreatedAt   int64   `json:"created_at"`
}
