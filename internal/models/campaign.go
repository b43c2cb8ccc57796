package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// Campaign is the read-only task configuration owned by the campaign service.
type Campaign struct {
	ID                   string `json:"id" gorm:"primaryKey;size:100"`
	Title                string `json:"title" gorm:"not null;size:200"`
	MinimumActiveSeconds int    `json:"minimum_active_seconds" gorm:"not null;default:30"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Questions []CampaignQuestion `json:"questions" gorm:"foreignKey:CampaignID"`
}

func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignQuestion is the stored form of a Question.
type CampaignQuestion struct {
	ID            string         `json:"id" gorm:"primaryKey;size:100"`
	CampaignID    string         `json:"campaign_id" gorm:"not null;index;size:100"`
	Position      int            `json:"position" gorm:"not null"`
	Kind          QuestionKind   `json:"kind" gorm:"not null;size:30"`
	Text          string         `json:"text" gorm:"type:text;not null"`
	Options       datatypes.JSON `json:"options" gorm:"type:jsonb"` // []string
	CorrectAnswer *string        `json:"correct_answer" gorm:"size:500"`
	MinChars      int            `json:"min_chars" gorm:"default:0"`
}

func (CampaignQuestion) TableName() string {
	return "campaign_questions"
}

// ToQuestion converts the stored row into a Question. Undecodable options are
// treated as absent.
func (cq CampaignQuestion) ToQuestion() Question {
	q := Question{
		ID:            cq.ID,
		Kind:          cq.Kind,
		Text:          cq.Text,
		CorrectAnswer: cq.CorrectAnswer,
		MinChars:      cq.MinChars,
	}
	if len(cq.Options) > 0 {
		var options []string
		if err := json.Unmarshal(cq.Options, &options); err == nil {
			q.Options = options
		}
	}
	return q
}

// QuestionSet returns the campaign questions in display order.
func (c Campaign) QuestionSet() QuestionSet {
	qs := make(QuestionSet, 0, len(c.Questions))
	for _, cq := range c.Questions {
		qs = append(qs, cq.ToQuestion())
	}
	return qs
}
