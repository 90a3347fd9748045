package browser

import "errors"

var (
	// ErrInvalidCourse is returned when a subject or course code is missing.
	ErrInvalidCourse = errors.New("subject and course code are required")
	// ErrDuplicateCourse is returned when the course is already in the list.
	ErrDuplicateCourse = errors.New("course already in list")
	// ErrUnknownCourse is returned when the loaded catalog lacks the course.
	ErrUnknownCourse = errors.New("course not found in catalog")
	// ErrNoCourses is returned when generation is requested with an empty list.
	ErrNoCourses = errors.New("add at least one course")
	// ErrSessionNotFound is returned by Manager for unknown session ids.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSuperseded is returned when a newer generation request replaced this one.
	ErrSuperseded = errors.New("generation superseded by a newer request")
)
