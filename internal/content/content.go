package content

import (
	"errors"
	"html/template"
	"regexp"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policy = bluemonday.StrictPolicy()

	displayNameRegex = regexp.MustCompile(`^[\p{L}0-9 .'-]+$`)
)

// Sanitize strips markup from remote-originated text (message bodies, bios,
// prompt answers) before it reaches the display layer.
func Sanitize(input string) string {
	return policy.Sanitize(input)
}

// Escape escapes special characters like "<" to become "&lt;". Safe for use
// in HTML attributes.
func Escape(input string) string {
	return template.HTMLEscapeString(input)
}

// ValidateDisplayName checks that a display name is non-empty and contains
// only letters, digits, spaces, and common name punctuation.
func ValidateDisplayName(name string) error {
	if name == "" {
		return errors.New("display name cannot be empty")
	}
	if !displayNameRegex.MatchString(name) {
		return errors.New("display name contains invalid characters")
	}
	return nil
}
