package config

import "errors"

var (
	// ErrKeyNotFound is returned when a non-section key is read before being set.
	ErrKeyNotFound = errors.New("configuration key not found")
	// ErrSectionValue is returned when a section key is assigned a non-section value.
	ErrSectionValue = errors.New("section keys require Config values")
	// ErrReservedName is returned when a key collides with a predeclared identifier.
	ErrReservedName = errors.New("configuration key shadows a predeclared identifier")
	// ErrEmptyPath is returned when a dotted path contains no usable segments.
	ErrEmptyPath = errors.New("empty configuration path")
)
