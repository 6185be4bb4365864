package exportvalidationreport

import (
	"termsheet-workers/internal/common/validation"
	"termsheet-workers/internal/export"
)

func GetInputSchema() validation.JSONSchema {
	formats := make([]string, 0, len(export.Formats))
	for _, f := range export.Formats {
		formats = append(formats, string(f))
	}

	return validation.JSONSchema{
		Type:                 "object",
		Required:             []string{"validationResult"},
		AdditionalProperties: true,
		Properties: map[string]validation.Property{
			"validationResult": {
				Type:        "object",
				Description: "Report produced by the validate worker",
				Required:    []string{"documentName", "fields"},
				Properties: map[string]validation.Property{
					"documentName": {Type: "string"},
					"fields":       {Type: "array"},
				},
			},
			"format": {
				Type:        "string",
				Description: "Export format; the worker default applies when absent",
				Enum:        formats,
			},
		},
	}
}
