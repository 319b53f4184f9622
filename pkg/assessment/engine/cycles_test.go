package engine

import (
	"testing"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
)

func TestDetectCircularDependencies(t *testing.T) {
	t.Run("with acyclic graph", func(t *testing.T) {
		graph := map[string][]string{
			"q1": {},
			"q2": {"q1"},
			"q3": {"q1", "q2"},
		}
		result := DetectCircularDependencies(graph)
		if result.HasCycle {
			t.Errorf("unexpected cycles: %v", result.Cycles)
		}
		if len(result.Cycles) != 0 {
			t.Errorf("cycles should be empty: %v", result.Cycles)
		}
	})

	t.Run("with mutual reference", func(t *testing.T) {
		graph := map[string][]string{
			"q1": {"q2"},
			"q2": {"q1"},
		}
		result := DetectCircularDependencies(graph)
		if !result.HasCycle {
			t.Error("should report a cycle")
			return
		}
		if len(result.Cycles) != 1 {
			t.Errorf("unexpected number of cycles: %d", len(result.Cycles))
			return
		}
		cycle := result.Cycles[0]
		if !containsID(cycle, "q1") || !containsID(cycle, "q2") {
			t.Errorf("cycle should contain both ids: %v", cycle)
		}
	})

	t.Run("with self reference", func(t *testing.T) {
		graph := map[string][]string{
			"q1": {"q1"},
		}
		result := DetectCircularDependencies(graph)
		if !result.HasCycle {
			t.Error("should report a cycle")
		}
	})

	t.Run("with edges to unknown nodes", func(t *testing.T) {
		graph := map[string][]string{
			"q1": {"does-not-exist"},
			"q2": {"q1"},
		}
		result := DetectCircularDependencies(graph)
		if result.HasCycle {
			t.Errorf("unexpected cycles: %v", result.Cycles)
		}
	})

	t.Run("with longer cycle", func(t *testing.T) {
		graph := map[string][]string{
			"q1": {"q2"},
			"q2": {"q3"},
			"q3": {"q1"},
			"q4": {"q1"},
		}
		result := DetectCircularDependencies(graph)
		if !result.HasCycle {
			t.Error("should report a cycle")
			return
		}
		cycle := result.Cycles[0]
		if len(cycle) != 4 {
			t.Errorf("unexpected cycle path: %v", cycle)
		}
		if cycle[0] != cycle[len(cycle)-1] {
			t.Errorf("cycle path should close on its start node: %v", cycle)
		}
	})

	t.Run("with empty graph", func(t *testing.T) {
		result := DetectCircularDependencies(map[string][]string{})
		if result.HasCycle {
			t.Error("should not report a cycle")
		}
	})
}

func TestDetectCircularDependenciesFromQuestions(t *testing.T) {
	questions := []types.Question{
		{ID: "q1", ShowIf: map[string]any{"questionId": "q2", "equals": "yes"}},
		{ID: "q2", ShowIf: map[string]any{"questionId": "q1", "equals": "yes"}},
	}
	result := DetectCircularDependencies(BuildDependencyGraph(questions))
	if !result.HasCycle {
		t.Error("mutual showIf references should report a cycle")
	}
}

func containsID(ids []string, id string) bool {
	for _, item := range ids {
		if item == id {
			return true
		}
	}
	return false
}
