// Package validation holds the input checks shared by the blog services.
package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxTitleLength matches the VARCHAR(255) column, which counts characters.
const maxTitleLength = 255

// ParseAge converts the signup form's age field into a non-negative integer.
func ParseAge(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, fmt.Errorf("age is required")
	}
	age, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("age must be a whole number")
	}
	if age < 0 {
		return 0, fmt.Errorf("age cannot be negative")
	}
	return age, nil
}

// Field pairs a form field name with its submitted value.
type Field struct {
	Name  string
	Value string
}

// RequireFields fails on the first field that is empty after trimming.
func RequireFields(fields ...Field) error {
	for _, f := range fields {
		if strings.TrimSpace(f.Value) == "" {
			return fmt.Errorf("%s is required", f.Name)
		}
	}
	return nil
}

// ValidatePostInput checks a post title and body before they reach the store.
func ValidatePostInput(title, content string) error {
	if err := RequireFields(Field{"title", title}, Field{"content", content}); err != nil {
		return err
	}
	if utf8.RuneCountInString(title) > maxTitleLength {
		return fmt.Errorf("title must be at most %d characters", maxTitleLength)
	}
	return nil
}
