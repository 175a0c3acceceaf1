package project

import "time"

// Management methods a project can be run with
const (
	MethodKanban    = "Kanban"
	MethodScrum     = "Scrum"
	MethodWaterfall = "Waterfall"
)

// DefaultManagementMethod is applied when none is given
const DefaultManagementMethod = MethodKanban

// Project is owned by one user and groups tasks. Members holds user ids
// with set semantics.
type Project struct {
	ID               string    `json:"_id"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	OwnerID          string    `json:"ownerId"`
	Members          []string  `json:"members"`
	ManagementMethod string    `json:"managementMethod"`
	StartDate        string    `json:"startDate,omitempty"`
	EndDate          string    `json:"endDate,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Update lists the fields to change. Nil fields are left untouched.
type Update struct {
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	ManagementMethod *string `json:"managementMethod"`
	StartDate        *string `json:"startDate"`
	EndDate          *string `json:"endDate"`
}

// ValidManagementMethod reports whether m is a known management method
func ValidManagementMethod(m string) bool {
	switch m {
	case MethodKanban, MethodScrum, MethodWaterfall:
		return true
	}
	return false
}
