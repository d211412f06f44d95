package llmconfig

import "errors"

var (
	ErrNotFound     = errors.New("llm configuration not found")
	ErrInvalidInput = errors.New("invalid llm configuration")
)
