package domain

import "errors"

var (
	ErrMissingUserID       = errors.New("userId is required")
	ErrInvalidPeriod       = errors.New("invalid fiscal period")
	ErrInvalidFrequency    = errors.New("invalid tax frequency")
	ErrInvalidCountry      = errors.New("invalid country code")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrReportUnreadable    = errors.New("tax report could not be read")
	ErrUploadFailed        = errors.New("report archive to storage failed")
	ErrPersistenceFailed   = errors.New("storing transactions failed")
	ErrQueryFailed         = errors.New("loading transactions failed")
)
