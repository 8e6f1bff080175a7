package task

import (
	"errors"
	"strconv"
	"strings"
)

// Field names accepted by the task creation form.
const (
	FieldTitle          = "title"
	FieldDueDate        = "dueDate"
	FieldIsCompleted    = "isCompleted"
	FieldEstimatedHours = "estimatedHours"
	FieldDependencies   = "dependencies"
)

// Input constraints.
const (
	MaxTitleLength        = 200
	DefaultEstimatedHours = 8
	MinEstimatedHours     = 1
	MaxEstimatedHours     = 1000
)

// Task is a backend task as consumed by the form.
type Task struct {
	ID             string   `json:"id"`
	ProjectID      string   `json:"projectId,omitempty"`
	Title          string   `json:"title"`
	DueDate        string   `json:"dueDate,omitempty"`
	IsCompleted    bool     `json:"isCompleted"`
	EstimatedHours int      `json:"estimatedHours,omitempty"`
	Dependencies   []string `json:"dependencies,omitempty"`
}

// CreationInput is the user-editable content of the task creation form.
// EstimatedHours is kept as typed text until submission.
type CreationInput struct {
	Title          string   `json:"title"`
	DueDate        string   `json:"dueDate"`
	IsCompleted    bool     `json:"isCompleted"`
	EstimatedHours string   `json:"estimatedHours"`
	Dependencies   []string `json:"dependencies"`
}

// NewCreationInput returns the input a freshly opened form starts with.
func NewCreationInput() CreationInput {
	return CreationInput{
		EstimatedHours: strconv.Itoa(DefaultEstimatedHours),
		Dependencies:   []string{},
	}
}

// CreatePayload is the body sent to the backend's task creation endpoint.
// Field names and casing match the backend contract.
type CreatePayload struct {
	Title          string   `json:"title"`
	DueDate        string   `json:"dueDate,omitempty"`
	IsCompleted    bool     `json:"isCompleted"`
	EstimatedHours int      `json:"estimatedHours"`
	Dependencies   []string `json:"dependencies"`
}

// Payload converts validated input into the wire payload.
// With placeholder set, an empty dependency selection is sent as [""] for backends
// that reject an empty array.
func (in CreationInput) Payload(placeholder bool) CreatePayload {
	deps := make([]string, len(in.Dependencies))
	copy(deps, in.Dependencies)
	if len(deps) == 0 && placeholder {
		deps = []string{""}
	}
	return CreatePayload{
		Title:          strings.TrimSpace(in.Title),
		DueDate:        strings.TrimSpace(in.DueDate),
		IsCompleted:    in.IsCompleted,
		EstimatedHours: ParseEstimatedHours(in.EstimatedHours),
		Dependencies:   deps,
	}
}

// ParseEstimatedHours reads the typed hours value.
// Empty or unparsable text yields the default; parsed values are clamped to the allowed range.
func ParseEstimatedHours(s string) int {
	digits := leadingInteger(strings.TrimSpace(s))
	n, err := strconv.Atoi(digits)
	if errors.Is(err, strconv.ErrRange) {
		if strings.HasPrefix(digits, "-") {
			return MinEstimatedHours
		}
		return MaxEstimatedHours
	}
	if err != nil {
		return DefaultEstimatedHours
	}
	switch {
	case n < MinEstimatedHours:
		return MinEstimatedHours
	case n > MaxEstimatedHours:
		return MaxEstimatedHours
	default:
		return n
	}
}

// leadingInteger returns the optional sign and digits at the start of s,
// so "12.5" reads as 12 and "abc" reads as nothing.
func leadingInteger(s string) string {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return ""
	}
	return s[:end]
}

// DependencyCandidates returns the tasks that may be selected as dependencies:
// those not yet completed, in their original order.
func DependencyCandidates(tasks []Task) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsCompleted {
			out = append(out, t)
		}
	}
	return out
}

// SelectDependencies keeps the selected titles that name a candidate, preserving
// selection order and dropping duplicates.
func SelectDependencies(candidates []Task, selected []string) []string {
	allowed := make(map[string]struct{}, len(candidates))
	for _, c := range candidates {
		allowed[c.Title] = struct{}{}
	}
	out := make([]string, 0, len(selected))
	seen := make(map[string]struct{}, len(selected))
	for _, title := range selected {
		if _, ok := allowed[title]; !ok {
			continue
		}
		if _, dup := seen[title]; dup {
			continue
		}
		seen[title] = struct{}{}
		out = append(out, title)
	}
	return out
}
