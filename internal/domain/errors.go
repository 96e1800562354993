package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrValidation      = errors.New("validation failed")
	ErrPersist         = errors.New("persist failed")
	ErrDuplicate       = errors.New("already exists")
	ErrExpired         = errors.New("time already passed")
	ErrNothingToImport = errors.New("no importable rows found")
	ErrNothingToExport = errors.New("no reviews to export")
	ErrNotConfigured   = errors.New("not configured")
)
