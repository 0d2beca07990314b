package shared

import "fmt"

var (
	ErrNotImplemented = fmt.Errorf("not implemented")

	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Selection and upload errors
	ErrInvalidFileType = fmt.Errorf("not a ZIP archive")
	ErrNoFileSelected  = fmt.Errorf("no file selected")
	ErrAlreadyInFlight = fmt.Errorf("an upload is already in flight")

	// API and transport errors
	ErrAPIRequest        = fmt.Errorf("API request failed")
	ErrNetwork           = fmt.Errorf("network error")
	ErrMalformedResponse = fmt.Errorf("malformed response body")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrMissingArgument = fmt.Errorf("missing required argument")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
