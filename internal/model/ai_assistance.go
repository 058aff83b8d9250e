package model

import (
	"time"

	"github.com/google/uuid"
)

// AiAssistanceRequest is one logged question/answer exchange tied to a form
type AiAssistanceRequest struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FormID    string    `gorm:"type:varchar(255);not null;index" json:"formId"` // Not a foreign key: any form id string is accepted
	Question  string    `gorm:"type:text;not null" json:"question"`
	Response  *string   `gorm:"type:text" json:"response"`
	Language  string    `gorm:"type:varchar(5);not null" json:"language"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;index" json:"createdAt"`
}
