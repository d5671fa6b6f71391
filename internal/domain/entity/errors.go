package entity

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidImage          = errors.New("invalid image")
	ErrNotFound              = errors.New("not found")
	ErrNoFace                = errors.New("no face found")
	ErrMultipleFaces         = errors.New("more than one face found")
	ErrNoEmployees           = errors.New("no registered employees")
	ErrFaceNotRecognized     = errors.New("face not recognized")
	ErrDuplicateRegistration = errors.New("registration number already in use")
	ErrNotAvailable          = errors.New("gocv build tag is not enabled")
	ErrCameraDisabled        = errors.New("camera is not configured")
	ErrCameraClosed          = errors.New("camera is closed")
)
