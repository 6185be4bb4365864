package extractdocumenttext

import "termsheet-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"documentName", "documentContent"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"documentName": {
				Type:        "string",
				Description: "Original file name; the extension selects the document type",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(255),
			},
			"documentContent": {
				Type:        "string",
				Description: "Base64-encoded file bytes",
			},
		},
	}
}

func intPtr(i int) *int {
	return &i
}
