package services

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/language"
)

var langTagRegex = regexp.MustCompile(`^[A-Za-z]{2,3}(-[A-Za-z]{2})?$`)

// ValidateFilename strips leading slashes and rejects empty names and any
// empty, "." or ".." path segment. Backslashes count as separators.
func ValidateFilename(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("%w: filename", ErrMissingParameter)
	}
	cleaned := strings.TrimLeft(filename, "/")
	if cleaned == "" {
		return "", ErrInvalidFilename
	}
	for _, part := range strings.Split(strings.ReplaceAll(cleaned, `\`, "/"), "/") {
		switch part {
		case "", ".", "..":
			return "", ErrInvalidFilename
		}
	}
	return cleaned, nil
}

// ValidateLanguage checks a language[-REGION] tag and returns its canonical
// form, e.g. "pt-br" becomes "pt-BR".
func ValidateLanguage(tag string) (string, error) {
	if !langTagRegex.MatchString(tag) {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, tag)
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidLanguage, tag)
	}
	return parsed.String(), nil
}

// IsTruthy interprets query flags such as list=1 or list=true.
func IsTruthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
