package models

import "time"

// Teacher represents a teaching staff account.
type Teacher struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	Name         string    `json:"name"`
	Experience   int       `json:"experience"`
	Department   string    `json:"department"`
	WorkingHour  int       `json:"workingHour"`
	CreatedAt    time.Time `json:"createdAt"`
}
