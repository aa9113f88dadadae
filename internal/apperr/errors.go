// Package apperr holds the sentinel errors shared across the wiki packages.
package apperr

import "errors"

var (
	ErrInvalidName       = errors.New("invalid page name")
	ErrPageNotFound      = errors.New("page not found")
	ErrStructural        = errors.New("structural inconsistency")
	ErrAlreadyExists     = errors.New("already exists")
	ErrDirectoryNotEmpty = errors.New("directory not empty")
	ErrInvalidPosition   = errors.New("invalid position")
	ErrInvalidMove       = errors.New("invalid move")
)
