package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUsernameTaken      = errors.New("username already exists")
	ErrCourseNotFound     = errors.New("course not found")
	ErrCourseExists       = errors.New("course with this name already exists for user")
	ErrPlanNotFound       = errors.New("study plan not found")
	ErrQuestionNotFound   = errors.New("question not found")
	ErrDayLocked          = errors.New("day is not unlocked yet")
	ErrDayCompleted       = errors.New("day is completed and immutable")
	ErrDayNotCompleted    = errors.New("day must be completed to view review")
	ErrMaxAttemptsReached = errors.New("max answer attempts reached for question")
	ErrInvalidDuration    = errors.New("duration days must be a positive integer")
	ErrInvalidDayNumber   = errors.New("day number out of course range")
	ErrInvalidNumQuestion = errors.New("question count must be between 1 and 20")
)
