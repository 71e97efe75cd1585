package models

import "time"

// Student represents a student account. SelectedCourses is the append-only
// list of course-selection sets the student has submitted, oldest first.
type Student struct {
	ID              string           `json:"id"`
	Username        string           `json:"username"`
	PasswordHash    string           `json:"-"` // Never expose this to the client
	Age             int              `json:"age"`
	Gender          string           `json:"gender"`
	Program         string           `json:"program"`
	Feedback        string           `json:"feedback"`
	SelectedCourses []SelectedCourse `json:"selectedCourses"`
	CreatedAt       time.Time        `json:"createdAt"`
}
