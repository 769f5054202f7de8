package services

import "errors"

// Domain errors. The HTTP boundary maps them to status codes with errors.Is.
var (
	ErrMissingParameter = errors.New("missing required parameter")
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrInvalidLanguage  = errors.New("invalid language tag")
	ErrUnknownFolder    = errors.New("unsupported folder")
	ErrMethodNotAllowed = errors.New("method not allowed")
	ErrUnsupportedModel = errors.New("unsupported model ID for summarization")
	ErrModelRefusal     = errors.New("model response indicates refusal")
)
