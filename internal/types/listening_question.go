package types

import (
	"time"
)

// Proficiency levels accepted for a question.
var LevelOptions = []string{"HSK1", "HSK2", "HSK3", "HSK4", "HSK5", "HSK6", "HSK7-9"}

// Provenance categories accepted for a question.
var SourceOptions = []string{"real_exam", "mock_exam", "self_authored"}

func IsValidLevel(level string) bool {
	for _, l := range LevelOptions {
		if l == level {
			return true
		}
	}
	return false
}

func IsValidSource(source string) bool {
	for _, s := range SourceOptions {
		if s == source {
			return true
		}
	}
	return false
}

// ListeningQuestion is the one persisted entity: a single uploaded clip
// plus its metadata. Rows are insert-only; nothing updates or deletes them.
type ListeningQuestion struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	AudioPath    string    `gorm:"column:audio_path;not null" json:"audio_path"`
	QuestionText string    `gorm:"column:question_text;type:text;not null" json:"question_text"`
	Answer       string    `gorm:"column:answer;type:text;not null" json:"answer"`
	Level        string    `gorm:"column:level;not null;index" json:"level"`
	Source       string    `gorm:"column:source;not null;index" json:"source"`
	UploadTime   time.Time `gorm:"column:upload_time;not null;autoCreateTime;index" json:"upload_time"`
}

func (ListeningQuestion) TableName() string { return "listening_questions" }
