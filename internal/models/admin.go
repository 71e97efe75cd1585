package models

import "time"

// College holds the institutional profile an admin can attach to their account.
type College struct {
	CollegeUniqueID    string   `json:"collegeUniqueId"`
	CoursesOffered     []string `json:"coursesOffered"`
	ProgramsOffered    []string `json:"programsOffered"`
	ClassroomOccupancy int      `json:"classroomOccupancy"`
	LabOccupancy       int      `json:"labOccupancy"`
}

// Admin represents an administrator account.
type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	College      *College  `json:"college"`
	CreatedAt    time.Time `json:"createdAt"`
}
