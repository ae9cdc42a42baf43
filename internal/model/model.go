package model

import "time"

type Admin struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type School struct {
	ID           string
	Name         string
	Email        string
	Phone        string
	Address      string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Teacher struct {
	ID        string
	SchoolID  string
	Name      string
	Email     string
	Phone     string
	Subject   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Student struct {
	ID        string
	SchoolID  string
	Name      string
	Email     string
	Phone     string
	Class     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// SchoolStats backs the dashboard counters for a single school.
type SchoolStats struct {
	SchoolID     string `json:"schoolId"`
	TeacherCount int64  `json:"teacherCount"`
	StudentCount int64  `json:"studentCount"`
}
