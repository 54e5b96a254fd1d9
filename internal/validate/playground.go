// Package validate holds the shared contract for playground creation input.
//
// The same rules run in two places:
//   - in the client package before submitting (advisory, for fast feedback)
//   - in the HTTP handler on the server (authoritative — the server re-checks
//     every field regardless of what the client did)
//
// Keeping the rules in one package means the two can never drift apart.
package validate

import (
	"strings"
	"unicode/utf8"

	"github.com/omk-66/playgrounds/internal/apperror"
	"github.com/omk-66/playgrounds/internal/model"
)

// Constraint bounds. Lengths count runes, not bytes, so multi-byte names are
// measured the way a user would count them.
const (
	MinNameLen        = 2
	MaxNameLen        = 50
	MinDescriptionLen = 10
	MaxDescriptionLen = 200
	MaxTags           = 5
	MinTagLen         = 1
	MaxTagLen         = 20
)

// PlaygroundInput is the raw creation request body as submitted by a client.
// Visibility and IsFeatured are pointers so "absent" is distinguishable from
// an explicit zero value — both default when absent.
type PlaygroundInput struct {
	PlaygroundName        string            `json:"playgroundName"`
	PlaygroundDescription string            `json:"playgroundDescription"`
	Visibility            *model.Visibility `json:"visibility,omitempty"`
	Tags                  []string          `json:"tags,omitempty"`
	IsFeatured            *bool             `json:"isFeatured,omitempty"`
}

// PlaygroundForm is the normalized result of a successful validation.
type PlaygroundForm struct {
	Name        string
	Description string
	Visibility  model.Visibility
	Tags        []string
	IsFeatured  bool
}

// Playground checks in against every constraint and returns either the
// normalized form or the full list of violated constraints. It never stops at
// the first problem — the caller gets one issue per violation.
func Playground(in PlaygroundInput) (*PlaygroundForm, []apperror.Issue) {
	var issues []apperror.Issue

	name := in.PlaygroundName
	switch n := utf8.RuneCountInString(name); {
	case n < MinNameLen:
		issues = append(issues, apperror.Issue{
			Field:   "playgroundName",
			Message: "Playground name must be at least 2 characters long.",
		})
	case n > MaxNameLen:
		issues = append(issues, apperror.Issue{
			Field:   "playgroundName",
			Message: "Playground name cannot exceed 50 characters.",
		})
	case strings.TrimSpace(name) == "":
		issues = append(issues, apperror.Issue{
			Field:   "playgroundName",
			Message: "Playground name cannot be empty or contain only whitespace.",
		})
	}

	desc := in.PlaygroundDescription
	switch n := utf8.RuneCountInString(desc); {
	case n < MinDescriptionLen:
		issues = append(issues, apperror.Issue{
			Field:   "playgroundDescription",
			Message: "Description must be at least 10 characters long.",
		})
	case n > MaxDescriptionLen:
		issues = append(issues, apperror.Issue{
			Field:   "playgroundDescription",
			Message: "Description cannot exceed 200 characters.",
		})
	case strings.TrimSpace(desc) == "":
		issues = append(issues, apperror.Issue{
			Field:   "playgroundDescription",
			Message: "Description cannot be empty or contain only whitespace.",
		})
	}

	// Visibility defaults to public when absent; an explicit unknown value is
	// rejected rather than silently defaulted.
	visibility := model.VisibilityPublic
	if in.Visibility != nil {
		if !in.Visibility.Valid() {
			issues = append(issues, apperror.Issue{
				Field:   "visibility",
				Message: `Visibility must be "public" or "private".`,
			})
		} else {
			visibility = *in.Visibility
		}
	}

	if len(in.Tags) > MaxTags {
		issues = append(issues, apperror.Issue{
			Field:   "tags",
			Message: "You can add up to 5 tags.",
		})
	}
	for _, tag := range in.Tags {
		if n := utf8.RuneCountInString(tag); n < MinTagLen || n > MaxTagLen {
			issues = append(issues, apperror.Issue{
				Field:   "tags",
				Message: "Each tag must be between 1 and 20 characters.",
			})
			break
		}
	}

	isFeatured := false
	if in.IsFeatured != nil {
		isFeatured = *in.IsFeatured
	}

	if len(issues) > 0 {
		return nil, issues
	}

	// Tags default to an empty list, never nil — the API always returns [].
	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	return &PlaygroundForm{
		Name:        name,
		Description: desc,
		Visibility:  visibility,
		Tags:        tags,
		IsFeatured:  isFeatured,
	}, nil
}
