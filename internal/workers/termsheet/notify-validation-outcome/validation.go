package notifyvalidationoutcome

import (
	"termsheet-workers/internal/common/validation"
	"termsheet-workers/internal/termsheet"
)

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"documentName", "validationStatus"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"documentName": {
				Type:        "string",
				Description: "File name the outcome refers to",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(255),
			},
			"validationStatus": {
				Type:        "string",
				Description: "Outcome of the validation run",
				Enum:        []string{string(termsheet.StatusSuccess), string(termsheet.StatusError)},
			},
			"validationResult": {
				Type:        "object",
				Description: "Full report; absent when the run could not happen",
			},
			"errorMessage": {
				Type:        "string",
				Description: "Reason the run could not happen",
				MaxLength:   intPtr(2000),
			},
		},
	}
}

func intPtr(i int) *int {
	return &i
}
