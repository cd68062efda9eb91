package domain

import "errors"

var (
	ErrTemplateNotFound = errors.New("template not found")
	ErrNameRequired     = errors.New("template name is required")
	ErrInvalidImport    = errors.New("import payload must be a JSON array")
	ErrCorruptData      = errors.New("stored templates are not valid JSON")
)
