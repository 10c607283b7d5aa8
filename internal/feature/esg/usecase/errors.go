// Package usecase implements the business logic for the ESG dashboard:
// dataset memoization, the filter engine and the presentation model.
package usecase

import "errors"

var (
	// ErrUnknownColumn is returned when a filter constraint names a column
	// that is not a string column of the dataset schema.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrDatasetUnavailable is returned when the dataset could not be loaded.
	ErrDatasetUnavailable = errors.New("dataset unavailable")

	// ErrCompanyNotFound is returned when a gauge is requested for a company
	// that is not part of the filtered subset.
	ErrCompanyNotFound = errors.New("company not found in filtered subset")

	// ErrInvalidRecord is returned for source rows that cannot be stored.
	ErrInvalidRecord = errors.New("invalid record")
)
