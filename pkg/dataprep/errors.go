package dataprep

import "errors"

var (
	// ErrSplit marks a stratified train/test split that cannot be performed.
	ErrSplit = errors.New("stratified split infeasible")

	// ErrTransform marks a fitted transform applied to columns it was not
	// fit on, or to values it has never seen.
	ErrTransform = errors.New("transform mismatch")
)
