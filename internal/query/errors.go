package query

import "fmt"

// EmptyInputError is returned when a query has no input to select a winner
// from.
type EmptyInputError struct {
	Query string
	Input string
}

func (e *EmptyInputError) Error() string {
	return fmt.Sprintf("%s: no %s to evaluate", e.Query, e.Input)
}

// NotFoundError is returned when a selected id has no matching record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.Kind, e.ID)
}
