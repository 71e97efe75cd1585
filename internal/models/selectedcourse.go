package models

import "time"

// SelectedCourse is one course-selection set submitted by a student.
type SelectedCourse struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	Major1    string    `json:"major1"`
	Major2    string    `json:"major2"`
	Minor1    string    `json:"minor1"`
	Minor2    string    `json:"minor2"`
	Lab1      string    `json:"lab1"`
	Lab2      string    `json:"lab2"`
	CreatedAt time.Time `json:"createdAt"`
}
