// file: internal/server/validators.go
// version: 2.0.0
// guid: 9b0c1d2e-3f4a-5b6c-7d8e-9f0a1b2c3d4e

package server

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/jdfalk/asset-store/internal/models"
)

// ValidationError represents a validation error with code
type ValidationError struct {
	Field   string
	Message string
	Code    string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MaxQueryLength bounds free-text search input.
const MaxQueryLength = 200

// MaxPerPage bounds the page size callers can ask for. Adapters clamp
// further to what each provider allows.
const MaxPerPage = 80

// MaxPage bounds the page number. No provider pages this deep.
const MaxPage = 10000

var (
	hexColorPattern = regexp.MustCompile(`^#?[0-9a-fA-F]{6}$`)

	allowedOrientations = []string{"", "landscape", "portrait", "square", "squarish"}
	allowedSorts        = []string{"", "relevance", "relevant", "latest", "oldest", "popular"}
	namedColors         = []string{
		"black_and_white", "black", "white", "yellow", "orange", "red", "purple",
		"magenta", "green", "teal", "blue", "brown", "gray", "grey", "pink", "turquoise", "violet",
	}
)

// ValidateInteger validates an integer is within a range. A zero maxValue
// means no upper bound.
func ValidateInteger(value int, fieldName string, minValue int, maxValue int) error {
	if value < minValue {
		return ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be at least %d", fieldName, minValue),
			Code:    "VALUE_TOO_SMALL",
		}
	}
	if maxValue > 0 && value > maxValue {
		return ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must not exceed %d", fieldName, maxValue),
			Code:    "VALUE_TOO_LARGE",
		}
	}
	return nil
}

// ValidateStringInList validates that value is one of allowed (case-insensitive)
func ValidateStringInList(value string, fieldName string, allowed []string) error {
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return ValidationError{
		Field:   fieldName,
		Message: fmt.Sprintf("%s must be one of: %s", fieldName, strings.Join(allowed[1:], ", ")),
		Code:    "INVALID_VALUE",
	}
}

// ValidateQuery bounds search text length
func ValidateQuery(query string) error {
	if len(query) > MaxQueryLength {
		return ValidationError{
			Field:   "query",
			Message: fmt.Sprintf("query must not exceed %d characters", MaxQueryLength),
			Code:    "QUERY_TOO_LONG",
		}
	}
	return nil
}

// ValidateColor accepts a named provider color or a six-digit hex code.
func ValidateColor(color string) error {
	if color == "" || hexColorPattern.MatchString(color) {
		return nil
	}
	if err := ValidateStringInList(color, "color", append([]string{""}, namedColors...)); err != nil {
		return ValidationError{Field: "color", Message: "color must be a named color or a hex code", Code: "INVALID_COLOR"}
	}
	return nil
}

// ValidateSearchParams checks caller input before it reaches the aggregator.
func ValidateSearchParams(p models.AssetSearchParams) error {
	if err := ValidateQuery(p.Query); err != nil {
		return err
	}
	if err := ValidateInteger(p.Page, "page", 1, MaxPage); err != nil {
		return err
	}
	if err := ValidateInteger(p.PerPage, "per_page", 1, MaxPerPage); err != nil {
		return err
	}
	if err := ValidateStringInList(p.Orientation, "orientation", allowedOrientations); err != nil {
		return err
	}
	if err := ValidateStringInList(p.SortBy, "sort_by", allowedSorts); err != nil {
		return err
	}
	return ValidateColor(p.Color)
}

// ValidateConfigUpdate rejects unknown providers, unknown asset types and
// non-positive limits.
func ValidateConfigUpdate(u models.AssetStoreConfigUpdate) error {
	for name, pu := range u.Providers {
		if !models.IsKnownProvider(name) {
			return ValidationError{
				Field:   "providers",
				Message: fmt.Sprintf("unknown provider %q", name),
				Code:    "UNKNOWN_PROVIDER",
			}
		}
		if pu.RateLimit != nil {
			if err := ValidateInteger(*pu.RateLimit, "rateLimit", 1, 0); err != nil {
				return err
			}
		}
	}
	if u.DefaultAssetType != nil {
		if _, ok := models.ParseAssetType(string(*u.DefaultAssetType)); !ok || *u.DefaultAssetType == "" {
			return ValidationError{
				Field:   "defaultAssetType",
				Message: fmt.Sprintf("unknown asset type %q", *u.DefaultAssetType),
				Code:    "INVALID_VALUE",
			}
		}
	}
	if u.ResultsPerPage != nil {
		if err := ValidateInteger(*u.ResultsPerPage, "resultsPerPage", 1, MaxPerPage); err != nil {
			return err
		}
	}
	if u.CacheDurationMinutes != nil {
		if err := ValidateInteger(*u.CacheDurationMinutes, "cacheDurationMinutes", 0, 0); err != nil {
			return err
		}
	}
	return nil
}
