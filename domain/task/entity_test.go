package task

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestParseEstimatedHours(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{in: "", want: 8},
		{in: "8", want: 8},
		{in: "40", want: 40},
		{in: " 12 ", want: 12},
		{in: "abc", want: 8},
		{in: "12.5", want: 12},
		{in: "7h", want: 7},
		{in: "0", want: 1},
		{in: "-3", want: 1},
		{in: "5000", want: 1000},
		{in: "+", want: 8},
		{in: "99999999999999999999", want: 1000},
		{in: "-99999999999999999999", want: 1},
		{in: "+99999999999999999999h", want: 1000},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParseEstimatedHours(tt.in); got != tt.want {
				t.Errorf("ParseEstimatedHours(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestDependencyCandidates(t *testing.T) {
	tasks := []Task{
		{ID: "1", Title: "Design schema", IsCompleted: true},
		{ID: "2", Title: "Write migrations"},
		{ID: "3", Title: "Ship it", IsCompleted: true},
		{ID: "4", Title: "Review"},
	}

	got := DependencyCandidates(tasks)

	if len(got) != 2 {
		t.Fatalf("len(DependencyCandidates()) = %d, want 2", len(got))
	}
	for _, c := range got {
		if c.IsCompleted {
			t.Errorf("completed task %q offered as candidate", c.Title)
		}
	}
	if got[0].ID != "2" || got[1].ID != "4" {
		t.Errorf("candidates order = [%s %s], want [2 4]", got[0].ID, got[1].ID)
	}
}

func TestSelectDependencies(t *testing.T) {
	candidates := []Task{{Title: "A"}, {Title: "B"}, {Title: "C"}}

	got := SelectDependencies(candidates, []string{"C", "unknown", "A", "C"})
	want := []string{"C", "A"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SelectDependencies() = %v, want %v", got, want)
	}
}

func TestCreationInput_Payload(t *testing.T) {
	in := CreationInput{
		Title:          "  Write docs  ",
		DueDate:        "",
		IsCompleted:    false,
		EstimatedHours: "not a number",
		Dependencies:   []string{},
	}

	t.Run("empty selection sends empty array", func(t *testing.T) {
		p := in.Payload(false)
		if p.Title != "Write docs" {
			t.Errorf("Title = %q, want %q", p.Title, "Write docs")
		}
		if p.EstimatedHours != 8 {
			t.Errorf("EstimatedHours = %d, want 8", p.EstimatedHours)
		}
		if p.Dependencies == nil || len(p.Dependencies) != 0 {
			t.Errorf("Dependencies = %#v, want empty non-nil slice", p.Dependencies)
		}

		body, err := json.Marshal(p)
		if err != nil {
			t.Fatalf("json.Marshal() error = %v", err)
		}
		want := `{"title":"Write docs","isCompleted":false,"estimatedHours":8,"dependencies":[]}`
		if string(body) != want {
			t.Errorf("payload = %s, want %s", body, want)
		}
	})

	t.Run("legacy placeholder", func(t *testing.T) {
		p := in.Payload(true)
		if !reflect.DeepEqual(p.Dependencies, []string{""}) {
			t.Errorf("Dependencies = %#v, want [\"\"]", p.Dependencies)
		}
	})

	t.Run("selected dependencies are copied", func(t *testing.T) {
		with := in
		with.Dependencies = []string{"A"}
		p := with.Payload(true)
		p.Dependencies[0] = "mutated"
		if with.Dependencies[0] != "A" {
			t.Error("Payload() shares the dependency slice with the input")
		}
	})
}
