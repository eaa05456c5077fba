package services

import "errors"

var (
	ErrEmptyJobDescription = errors.New("job description cannot be empty")
	ErrNoResumes           = errors.New("at least one resume must be provided")
	ErrEmptyResumeText     = errors.New("resume text cannot be empty")
	ErrEmptyQuestion       = errors.New("question cannot be empty")
	ErrNoValidResumes      = errors.New("no valid resumes could be processed")
)
