package models

import "time"

// InstructorRef is the populated instructor summary attached to course listings.
type InstructorRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// Course represents a course offered by the college. Instructor references a
// teacher record and must exist when the course is created.
type Course struct {
	ID             string         `json:"id"`
	CourseName     string         `json:"courseName"`
	CourseCode     string         `json:"courseCode"`
	Description    string         `json:"description"`
	Credits        int            `json:"credits"`
	Instructor     string         `json:"instructor"`
	InstructorInfo *InstructorRef `json:"instructorInfo,omitempty"`
	CreatedAt      time.Time      `json:"createdAt"`
}
