package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is returned when a caller passes empty or missing required fields.
// Check with errors.Is(err, models.ErrValidation).
var ErrValidation = errors.New("validation failed")

// JobDefinition is a named scrape job. Name is the job's identity.
type JobDefinition struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Selector string `json:"selector"`
}

// JobSpec is the persisted value of a job, keyed by name in the store file.
type JobSpec struct {
	URL      string `json:"url"`
	Selector string `json:"selector"`
}

// Spec returns the persisted part of the definition.
func (j JobDefinition) Spec() JobSpec {
	return JobSpec{URL: j.URL, Selector: j.Selector}
}

// Definition rebuilds a JobDefinition from its stored value.
func (s JobSpec) Definition(name string) JobDefinition {
	return JobDefinition{Name: name, URL: s.URL, Selector: s.Selector}
}

// Validate checks that every field is non-empty
func (j JobDefinition) Validate() error {
	var missing []string
	if strings.TrimSpace(j.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(j.URL) == "" {
		missing = append(missing, "url")
	}
	if strings.TrimSpace(j.Selector) == "" {
		missing = append(missing, "selector")
	}
	if len(missing) > 0 {
		return RequiredFieldsError(missing...)
	}
	return nil
}

// RequiredFieldsError builds a validation error naming the empty fields.
func RequiredFieldsError(fields ...string) error {
	return fmt.Errorf("%w: %s cannot be empty", ErrValidation, strings.Join(fields, ", "))
}
