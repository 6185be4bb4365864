package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var taskTypes = []string{
	"document.text.extract",
	"termsheet.document.validate",
	"termsheet.report.export",
	"termsheet.outcome.notify",
	"termsheet.sample.generate",
}

func validRegistry() *ActivityRegistry {
	return &ActivityRegistry{
		Version: "1.0.0",
		Activities: []Activity{
			{ID: "validate-term-sheet", DisplayName: "Validate", Category: "termsheet",
				TaskType: "termsheet.document.validate", ImplementationStatus: StatusCompleted, Timeout: "30s"},
			{ID: "export-validation-report", DisplayName: "Export", Category: "termsheet",
				TaskType: "termsheet.report.export"},
		},
	}
}

func TestShippedRegistry(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	require.NoError(t, reg.Validate())

	assert.Empty(t, reg.Missing(taskTypes))
	assert.Len(t, reg.Activities, len(taskTypes))

	a, ok := reg.FindByTaskType("termsheet.outcome.notify")
	require.True(t, ok)
	assert.Equal(t, 3, a.Retries)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *ActivityRegistry)
		wantErr string
	}{
		{name: "valid", mutate: func(*ActivityRegistry) {}},
		{name: "empty", mutate: func(r *ActivityRegistry) { r.Activities = nil }, wantErr: "no activities"},
		{name: "duplicate id", mutate: func(r *ActivityRegistry) { r.Activities[1].ID = r.Activities[0].ID }, wantErr: "duplicate activity ID"},
		{name: "duplicate task type", mutate: func(r *ActivityRegistry) { r.Activities[1].TaskType = r.Activities[0].TaskType }, wantErr: "duplicate task type"},
		{name: "bad task type", mutate: func(r *ActivityRegistry) { r.Activities[0].TaskType = "validate-term-sheet" }, wantErr: "domain.subdomain.action"},
		{name: "missing category", mutate: func(r *ActivityRegistry) { r.Activities[0].Category = "" }, wantErr: "Category"},
		{name: "unknown status", mutate: func(r *ActivityRegistry) { r.Activities[0].ImplementationStatus = "done" }, wantErr: "unknown status"},
		{name: "bad timeout", mutate: func(r *ActivityRegistry) { r.Activities[0].Timeout = "soon" }, wantErr: "invalid timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := validRegistry()
			tt.mutate(reg)
			err := reg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestUpdateFieldAndSave(t *testing.T) {
	reg := validRegistry()
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, reg.UpdateField("export-validation-report", "status", StatusVerified, now))
	require.NoError(t, reg.UpdateField("export-validation-report", "retries", "2", now))
	assert.Equal(t, "2024-06-01T08:00:00Z", reg.LastUpdated)

	assert.Error(t, reg.UpdateField("export-validation-report", "status", "shipped", now))
	assert.Error(t, reg.UpdateField("export-validation-report", "retries", "many", now))
	assert.Error(t, reg.UpdateField("export-validation-report", "taskType", "x.y.z", now))
	assert.Error(t, reg.UpdateField("nope", "status", StatusVerified, now))

	path := filepath.Join(t.TempDir(), "nested", "registry.json")
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	a, ok := loaded.FindByID("export-validation-report")
	require.True(t, ok)
	assert.Equal(t, StatusVerified, a.ImplementationStatus)
	assert.Equal(t, 2, a.Retries)
}

func TestMissing(t *testing.T) {
	assert.Equal(t,
		[]string{"document.text.extract", "termsheet.outcome.notify"},
		validRegistry().Missing([]string{"document.text.extract", "termsheet.document.validate", "termsheet.outcome.notify"}),
	)
}
