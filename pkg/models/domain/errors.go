package domain

import "errors"

var (
	// ErrConnection means the warehouse could not be reached
	ErrConnection = errors.New("warehouse connection failed")
	// ErrQuery means a query failed or returned rows of an unexpected shape
	ErrQuery = errors.New("warehouse query failed")
	// ErrRender means the document could not be filled or written
	ErrRender = errors.New("report render failed")
	// ErrInputParse means caller supplied dates are malformed
	ErrInputParse = errors.New("invalid report dates")
)
