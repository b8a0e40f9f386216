// Package errors provides standardized error handling for the health assistant.
package errors

import (
	"fmt"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Fatal startup errors
	ErrCodeArtifactLoadFailed ErrorCode = "ARTIFACT_LOAD_FAILED"
	ErrCodeArtifactCorrupt    ErrorCode = "ARTIFACT_CORRUPT"
	ErrCodeTableLoadFailed    ErrorCode = "TABLE_LOAD_FAILED"

	// Input validation errors
	ErrCodeInvalidSymptomInput  ErrorCode = "INVALID_SYMPTOM_INPUT"
	ErrCodeUnrecognizedSymptoms ErrorCode = "UNRECOGNIZED_SYMPTOMS"
	ErrCodeInvalidChoice        ErrorCode = "INVALID_CHOICE"

	// External collaborator errors
	ErrCodeGeocodeFailed    ErrorCode = "GEOCODE_FAILED"
	ErrCodeGeocodeNoResults ErrorCode = "GEOCODE_NO_RESULTS"
	ErrCodePlacesFailed     ErrorCode = "PLACES_SEARCH_FAILED"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// ==========================
// 2. Error Constructors
// ==========================

// NewArtifactLoadFailedError creates a fatal artifact load error.
func NewArtifactLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactLoadFailed,
		Message:   "Failed to load classifier artifact",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactCorruptError creates a fatal artifact decode/validation error.
func NewArtifactCorruptError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactCorrupt,
		Message:   "Classifier artifact is corrupt",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTableLoadFailedError creates a fatal lookup-table load error.
func NewTableLoadFailedError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTableLoadFailed,
		Message:   "Failed to load lookup table",
		Details:   fmt.Sprintf("path: %s, error: %s", path, err.Error()),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidSymptomInputError flags numeric-only symptom text.
func NewInvalidSymptomInputError(input string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSymptomInput,
		Message:   "Symptom input must not be numeric",
		Details:   fmt.Sprintf("input: %s", input),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewUnrecognizedSymptomsError flags input the classifier produced no text label for.
func NewUnrecognizedSymptomsError(input string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnrecognizedSymptoms,
		Message:   "No recognizable symptoms in input",
		Details:   fmt.Sprintf("input: %s", input),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGeocodeFailedError creates a geocoding transport/API error.
func NewGeocodeFailedError(address string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeGeocodeFailed,
		Message:   "Geocoding request failed",
		Details:   fmt.Sprintf("address: %s, error: %s", address, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewGeocodeNoResultsError flags an address the geocoder could not resolve.
func NewGeocodeNoResultsError(address string) *StandardError {
	return &StandardError{
		Code:      ErrCodeGeocodeNoResults,
		Message:   "No coordinates found for address",
		Details:   fmt.Sprintf("address: %s", address),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewPlacesFailedError creates a nearby-services search error.
func NewPlacesFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodePlacesFailed,
		Message:   "Nearby services search failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}
