package types

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrCyclicDependency is returned when seed relations do not form a DAG.
	ErrCyclicDependency = errors.New("cyclic dependency detected in seed relations")

	// ErrMissingTable is returned when a configured table does not exist.
	ErrMissingTable = errors.New("table does not exist")

	// ErrUnknownGenerator is reported when a column names an unregistered generator.
	ErrUnknownGenerator = errors.New("unknown generator")

	// ErrEmptyTable is returned when a table has no rows to anonymize.
	ErrEmptyTable = errors.New("table has no rows")

	// ErrPersistence wraps any failure talking to the database.
	ErrPersistence = errors.New("persistence failure")

	// ErrNoPrimaryKey is returned for tables without a primary key.
	ErrNoPrimaryKey = errors.New("table has no primary key")

	// ErrCompositePrimaryKey is returned for tables whose primary key spans several columns.
	ErrCompositePrimaryKey = errors.New("composite primary keys are not supported")
)

// CycleError lists the tables that could not be ordered.
type CycleError struct {
	Tables []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: unresolved tables: %s", ErrCyclicDependency, strings.Join(e.Tables, ", "))
}

func (e *CycleError) Is(target error) bool {
	return target == ErrCyclicDependency
}

type UnknownGeneratorError struct {
	Column    string
	Generator string
}

func (e *UnknownGeneratorError) Error() string {
	return fmt.Sprintf("%s %q for column %s", ErrUnknownGenerator, e.Generator, e.Column)
}

func (e *UnknownGeneratorError) Is(target error) bool {
	return target == ErrUnknownGenerator
}

// TableError ties a failure to the table it happened on. Kind is one of the
// sentinels above; Err is the underlying cause and may be nil.
type TableError struct {
	Table string
	Kind  error
	Err   error
}

func NewTableError(table string, kind, err error) *TableError {
	return &TableError{Table: table, Kind: kind, Err: err}
}

func (e *TableError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("table %s: %s", e.Table, e.Kind)
	}
	return fmt.Sprintf("table %s: %s: %v", e.Table, e.Kind, e.Err)
}

func (e *TableError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}
