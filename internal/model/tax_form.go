package model

import (
	"time"

	"github.com/google/uuid"
)

// TaxForm status enum constants
const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
	StatusSubmitted = "submitted"
)

// TaxForm is a draft or finished filing assembled by the wizard
type TaxForm struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      *string   `gorm:"type:varchar(255);index" json:"userId"` // nil for anonymous forms
	CountryCode string    `gorm:"type:varchar(3);not null;index" json:"countryCode"`
	FormType    string    `gorm:"type:varchar(50);not null" json:"formType"`
	TaxYear     int       `gorm:"not null" json:"taxYear"`
	FormData    FormData  `gorm:"type:jsonb;not null" json:"formData"`
	Status      string    `gorm:"type:varchar(20);not null;default:'draft'" json:"status"`
	Language    string    `gorm:"type:varchar(5);not null;default:'en'" json:"language"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false;index" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false" json:"updatedAt"`
}

// Clone returns a deep copy so callers never share FormData with the store.
func (f TaxForm) Clone() TaxForm {
	out := f
	out.FormData = f.FormData.Clone()
	if f.UserID != nil {
		owner := *f.UserID
		out.UserID = &owner
	}
	return out
}

// IsValidStatus reports whether s is one of the three lifecycle statuses.
func IsValidStatus(s string) bool {
	return s == StatusDraft || s == StatusCompleted || s == StatusSubmitted
}

// CanTransitionStatus allows draft -> completed|submitted and keeping the current status.
func CanTransitionStatus(from, to string) bool {
	if from == to {
		return true
	}
	return from == StatusDraft && (to == StatusCompleted || to == StatusSubmitted)
}
