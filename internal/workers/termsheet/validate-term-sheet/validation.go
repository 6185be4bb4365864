package validatetermsheet

import (
	"termsheet-workers/internal/common/validation"
	"termsheet-workers/internal/termsheet"
)

func GetInputSchema() validation.JSONSchema {
	types := make([]string, 0, len(termsheet.DocumentTypes))
	for _, dt := range termsheet.DocumentTypes {
		types = append(types, string(dt))
	}

	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"documentText", "documentName"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"documentText": {
				Type:        "string",
				Description: "Plain text extracted from the term sheet",
			},
			"documentName": {
				Type:        "string",
				Description: "Original file name of the term sheet",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(255),
			},
			"documentType": {
				Type:        "string",
				Description: "Document type reported by intake; derived from the name when absent",
				Enum:        types,
			},
		},
	}
}

func intPtr(i int) *int {
	return &i
}
