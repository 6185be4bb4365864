package generatesamplereport

import "termsheet-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"documentName"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"documentName": {
				Type:        "string",
				Description: "Name stamped on the demo report",
				MaxLength:   intPtr(255),
			},
		},
	}
}

func intPtr(i int) *int {
	return &i
}
