package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Challenge is a reusable take-home prompt assigned to interview records.
// The lifecycle only reads it; editing happens through the challenge CRUD.
type Challenge struct {
	ID                string     `gorm:"primaryKey" json:"id"`
	Title             string     `gorm:"not null" json:"title"`
	Description       string     `gorm:"type:text" json:"description"`
	Instructions      string     `gorm:"type:text" json:"instructions"`
	Difficulty        string     `json:"difficulty"`
	Category          string     `json:"category"`
	EstimatedDuration int        `gorm:"not null" json:"estimated_duration"` // minutes
	TechStack         StringList `gorm:"type:text" json:"tech_stack"`
	StarterCodeZipURL string     `json:"starter_code_zip_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Duration returns the challenge time budget as a duration.
func (c *Challenge) Duration() time.Duration {
	return time.Duration(c.EstimatedDuration) * time.Minute
}

// StringList stores a list of strings as a JSON column.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	return string(b), err
}

func (l *StringList) Scan(value interface{}) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
}
