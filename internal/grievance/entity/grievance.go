package entity

import "time"

// Grievance is a short text entry tagged with a mood and severity.
type Grievance struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      string    `json:"mood"`
	Severity  string    `json:"severity"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// Author is the embedded owner projection returned by listings. Never
	// carries the password hash.
	Author *Author `json:"user,omitempty"`
}

// Author is the slice of the owning user embedded in grievance listings.
type Author struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
