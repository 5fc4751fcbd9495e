package service

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrAlreadyRegistered   = errors.New("user already registered")
	ErrNoMaterials         = errors.New("course has no materials")
	ErrMaterialNotFound    = errors.New("material not found")
	ErrCourseNotFound      = errors.New("course not found")
	ErrFirstLesson         = errors.New("already at first lesson")
	ErrAlreadyBookmarked   = errors.New("material already bookmarked")
	ErrInvalidRating       = errors.New("rating must be between 1 and 5")
	ErrUnsupportedContent  = errors.New("content type not supported")
	ErrSponsorNotFound     = errors.New("sponsor not found")
	ErrAchievementNotFound = errors.New("achievement not found")
)
