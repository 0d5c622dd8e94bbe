package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InterviewRun is one completed analysis, persisted after the engine
// has frozen its result. Rows are immutable once created. Mode holds
// one of the dto analysis mode values.
type InterviewRun struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Mode         string         `gorm:"size:16;not null" json:"mode"`
	Provider     string         `gorm:"size:64" json:"provider"`
	JobPosition  string         `gorm:"size:255" json:"job_position"`
	Question     string         `gorm:"type:text" json:"question"`
	Reference    string         `gorm:"type:text;not null" json:"reference"`
	Report       string         `gorm:"type:text" json:"report"`
	Score        float64        `gorm:"not null" json:"score"`
	CosineScore  float64        `gorm:"not null" json:"cosine_score"`
	RougeScore   float64        `gorm:"not null" json:"rouge_score"`
	Grade        string         `gorm:"size:2;not null" json:"grade"`
	Transcripts  datatypes.JSON `json:"transcripts"`
	Levels       datatypes.JSON `json:"levels"`
	HireDecision datatypes.JSON `json:"hire_decision"`
	CreatedAt    time.Time      `json:"created_at"`
}

// BeforeCreate assigns the run identifier when the caller did not.
func (r *InterviewRun) BeforeCreate(_ *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
