package config

import (
	"fmt"
	"strings"

	"github.com/opd-ai/go-devpick/internal/colorfmt"
	"github.com/opd-ai/go-devpick/internal/jwt"
)

// ValidationError represents a settings validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// ValidationResult holds the results of a settings validation.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// IsValid returns true if there are no validation errors.
func (vr *ValidationResult) IsValid() bool {
	return len(vr.Errors) == 0
}

// Error returns a combined error message if there are errors, nil otherwise.
func (vr *ValidationResult) Error() error {
	if len(vr.Errors) == 0 {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	for _, e := range vr.Errors {
		messages = append(messages, e.Error())
	}
	return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(messages, "; "))
}

// AddError adds a validation error.
func (vr *ValidationResult) AddError(field, message string) {
	vr.Errors = append(vr.Errors, ValidationError{Field: field, Message: message})
}

// AddWarning adds a validation warning.
func (vr *ValidationResult) AddWarning(field, message string) {
	vr.Warnings = append(vr.Warnings, ValidationError{Field: field, Message: message})
}

// Validate checks every field of s.
func (s *Settings) Validate() *ValidationResult {
	result := &ValidationResult{}

	if s.PixelsPerPoint < MinPixelsPerPoint || s.PixelsPerPoint > MaxPixelsPerPoint {
		result.AddError("pixels_per_point",
			fmt.Sprintf("must be between %.2f and %.2f, got %g", MinPixelsPerPoint, MaxPixelsPerPoint, s.PixelsPerPoint))
	} else if s.PixelsPerPoint > 3 {
		result.AddWarning("pixels_per_point", fmt.Sprintf("unusually large scale %g", s.PixelsPerPoint))
	}

	validateFormat("color_display_format", s.ColorDisplayFormat, s.CustomFormats, false, result)
	validateFormat("color_clipboard_format", s.ColorClipboardFormat, s.CustomFormats, true, result)

	for name, script := range s.CustomFormats {
		field := "custom_formats." + name
		if strings.TrimSpace(name) == "" {
			result.AddError("custom_formats", "format name must not be empty")
		}
		if strings.TrimSpace(script) == "" {
			result.AddError(field, "script must not be empty")
		} else if !strings.Contains(script, "return") {
			result.AddWarning(field, "script has no return statement")
		}
	}

	switch s.Theme {
	case ThemeDark, ThemeLight, ThemeSystem:
	default:
		result.AddError("theme", fmt.Sprintf("must be dark, light or system, got %q", s.Theme))
	}

	if _, err := jwt.ParseAlgorithm(string(s.JWTAlgorithm)); err != nil {
		result.AddError("jwt_algorithm", err.Error())
	}

	if s.ZoomFactor < 1 || s.ZoomFactor > 32 {
		result.AddError("zoom_factor", fmt.Sprintf("must be between 1 and 32, got %d", s.ZoomFactor))
	}

	return result
}

func validateFormat(field string, f colorfmt.Format, custom map[string]string, optional bool, result *ValidationResult) {
	if f == "" {
		if !optional {
			result.AddError(field, "must not be empty")
		}
		return
	}
	parsed, err := colorfmt.ParseFormat(string(f))
	if err != nil {
		result.AddError(field, err.Error())
		return
	}
	if parsed.IsCustom() {
		if _, ok := custom[parsed.CustomName()]; !ok {
			result.AddError(field, fmt.Sprintf("custom format %q is not defined", parsed.CustomName()))
		}
	}
}
