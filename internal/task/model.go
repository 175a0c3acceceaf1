package task

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"
)

// Defaults applied on creation
const (
	DefaultStatus   = "Not Started"
	DefaultPriority = "Normal"
	DefaultType     = "Normal"
)

// Task belongs to exactly one project. Status, priority and type are free
// form strings; only their defaults are fixed.
type Task struct {
	ID          string    `json:"_id"`
	ProjectID   string    `json:"projectId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Progress    Progress  `json:"progress"`
	Priority    string    `json:"priority"`
	Type        string    `json:"type"`
	Assignee    string    `json:"assignee,omitempty"`
	Responsable string    `json:"responsable"`
	StartDate   string    `json:"startDate,omitempty"`
	EndDate     string    `json:"endDate,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Update lists the fields to change. Nil fields are left untouched.
type Update struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Status      *string   `json:"status"`
	Progress    *Progress `json:"progress"`
	Priority    *string   `json:"priority"`
	Type        *string   `json:"type"`
	Assignee    *string   `json:"assignee"`
	Responsable *string   `json:"responsable"`
	StartDate   *string   `json:"startDate"`
	EndDate     *string   `json:"endDate"`
}

// Progress bounds
const (
	MinProgress = 0
	MaxProgress = 100
)

// Progress is a completion percentage. It decodes from a JSON number or a
// numeric string; an empty string decodes to zero. NaN and infinities are
// rejected at decode time since they cannot be encoded back.
type Progress float64

// InRange reports whether p lies within MinProgress..MaxProgress
func (p Progress) InRange() bool {
	return p >= MinProgress && p <= MaxProgress
}

func (p *Progress) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*p = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("progress %q is not a number", s)
		}
		*p = Progress(v)
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = Progress(v)
	return nil
}
