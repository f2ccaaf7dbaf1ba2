package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	StatusPending  = "pending"
	StatusResolved = "resolved"
)

// Inquiry is a contact-form submission. Status moves between pending and
// resolved; there is no other lifecycle.
type Inquiry struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	Name      string       `gorm:"not null" json:"name"`
	Email     string       `gorm:"not null" json:"email"`
	Subject   string       `gorm:"not null" json:"subject"`
	Message   string       `gorm:"not null" json:"message"`
	Status    string       `gorm:"not null;default:pending" json:"status"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Inquiry) TableName() string { return "contact_us" }

type CreateInquiryRequest struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type Service interface {
	Create(ctx context.Context, req CreateInquiryRequest) (Inquiry, error)
	List(ctx context.Context) ([]Inquiry, error)
	GetByID(ctx context.Context, id string) (Inquiry, error)
	UpdateStatus(ctx context.Context, id, status string) (Inquiry, error)
	Delete(ctx context.Context, id string) error
}

var (
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidSubject = errors.New("invalid_subject")
	ErrInvalidMessage = errors.New("invalid_message")
	ErrInvalidStatus  = errors.New("invalid_status")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)
