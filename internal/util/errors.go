package util

import "errors"

var (
	ErrCaseNotFound            = errors.New("case not found")
	ErrCollectionNotFound      = errors.New("collection not found")
	ErrSessionNotFound         = errors.New("session not found")
	ErrAnswerNotFound          = errors.New("answer not found")
	ErrCaseAlreadyInCollection = errors.New("case already in collection")
	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrSessionSubmitted        = errors.New("session already submitted")
	ErrNoUpdatableFields       = errors.New("no updatable fields in request")
)
