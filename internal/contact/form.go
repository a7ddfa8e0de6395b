package contact

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	minNameLength    = 3
	minSubjectLength = 3
	minMessageLength = 10
	maxMessageLength = 500
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Form is the contact form as submitted by the visitor.
type Form struct {
	FullName string `json:"fullName"`
	Subject  string `json:"subject"`
	Email    string `json:"email"`
	Message  string `json:"message"`
}

// ValidationError maps form field names to the problem with each.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, e.Fields[name])
	}
	return "invalid contact form: " + strings.Join(parts, "; ")
}

// Validate checks every field and reports all problems at once.
func (f Form) Validate() error {
	fields := make(map[string]string)

	name := strings.TrimSpace(f.FullName)
	switch {
	case name == "":
		fields["fullName"] = "Full name is required"
	case utf8.RuneCountInString(name) < minNameLength:
		fields["fullName"] = "Full name must be at least 3 characters"
	}

	subject := strings.TrimSpace(f.Subject)
	switch {
	case subject == "":
		fields["subject"] = "Subject is required"
	case utf8.RuneCountInString(subject) < minSubjectLength:
		fields["subject"] = "Subject must be at least 3 characters"
	}

	email := strings.TrimSpace(f.Email)
	switch {
	case email == "":
		fields["email"] = "Email is required"
	case !emailPattern.MatchString(email):
		fields["email"] = "Please enter a valid email address"
	}

	message := strings.TrimSpace(f.Message)
	switch {
	case message == "":
		fields["message"] = "Message is required"
	case utf8.RuneCountInString(message) < minMessageLength:
		fields["message"] = "Message must be at least 10 characters"
	case utf8.RuneCountInString(message) > maxMessageLength:
		fields["message"] = "Message must be at most 500 characters"
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// Normalized returns the form with surrounding whitespace removed.
func (f Form) Normalized() Form {
	return Form{
		FullName: strings.TrimSpace(f.FullName),
		Subject:  strings.TrimSpace(f.Subject),
		Email:    strings.TrimSpace(f.Email),
		Message:  strings.TrimSpace(f.Message),
	}
}
