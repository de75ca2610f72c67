package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobDefinitionValidate(t *testing.T) {
	tests := []struct {
		name    string
		def     JobDefinition
		wantErr string
	}{
		{"complete", JobDefinition{Name: "news", URL: "example.com", Selector: "h1"}, ""},
		{"missing name", JobDefinition{URL: "example.com", Selector: "h1"}, "name"},
		{"blank url", JobDefinition{Name: "news", URL: "   ", Selector: "h1"}, "url"},
		{"all missing", JobDefinition{}, "name, url, selector"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.def.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrValidation))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestJobSpecRoundTrip(t *testing.T) {
	def := JobDefinition{Name: "prices", URL: "https://shop.example", Selector: ".price"}
	assert.Equal(t, def, def.Spec().Definition("prices"))
}
