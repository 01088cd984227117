package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound        = errors.New("entity not found")
	ErrInvalidArgument = errors.New("invalid argument")

	// Session errors
	ErrNoSession    = errors.New("no admin session")
	ErrEmptyToken   = errors.New("admin token is empty")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotConfirmed = errors.New("action not confirmed")

	// Remote code API errors
	ErrUpstreamStatus      = errors.New("code api returned non-success status")
	ErrUpstreamUnavailable = errors.New("code api unreachable")
	ErrUpstreamDecode      = errors.New("code api returned an unreadable body")

	// Offline cache errors
	ErrCacheMiss     = errors.New("cache miss")
	ErrInstallFailed = errors.New("offline cache install failed")
)
