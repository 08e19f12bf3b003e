package document

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks the required fields in order: name, content, parent folder.
// The first missing or blank field is reported as a badRequest error.
func Validate(doc *Document) error {
	if doc == nil {
		doc = &Document{}
	}
	fields := []struct {
		value   string
		message string
	}{
		{doc.Name, "Document name is required"},
		{doc.Content, "Document content is required"},
		{doc.ParentFolder, "Document parent folder is required"},
	}
	for _, f := range fields {
		if err := validation.Validate(strings.TrimSpace(f.value), validation.Required.Error(f.message)); err != nil {
			return NewActionError(CodeBadRequest, err.Error())
		}
	}
	return nil
}
