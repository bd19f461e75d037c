package refdb

import "errors"

var (
	// ErrEmptyTable is returned when a reference table has no header row.
	ErrEmptyTable = errors.New("reference table is empty")

	// ErrMissingColumn is returned when a schema column is not in the table header.
	ErrMissingColumn = errors.New("missing column")

	// ErrUnsupportedEncoding is returned when a table is neither UTF-8 nor CP949.
	ErrUnsupportedEncoding = errors.New("unsupported table encoding")
)
