package engine

import (
	"testing"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
)

func TestShowIfDependencies(t *testing.T) {
	t.Run("with nil rule", func(t *testing.T) {
		deps := ShowIfDependencies(nil)
		if len(deps) != 0 {
			t.Errorf("unexpected dependencies: %v", deps)
		}
	})

	t.Run("with atomic condition", func(t *testing.T) {
		deps := ShowIfDependencies(map[string]any{"questionId": "q1", "equals": "yes"})
		if len(deps) != 1 || deps[0] != "q1" {
			t.Errorf("unexpected dependencies: %v", deps)
		}
	})

	t.Run("with nested composites", func(t *testing.T) {
		rule := map[string]any{"and": []any{
			map[string]any{"questionId": "q1", "equals": "yes"},
			map[string]any{"or": []any{
				map[string]any{"questionId": "q2", "gte": float64(2)},
				map[string]any{"not": map[string]any{"questionId": "q3", "equals": "no"}},
			}},
		}}
		deps := ShowIfDependencies(rule)
		if len(deps) != 3 {
			t.Errorf("unexpected dependencies: %v", deps)
		}
	})

	t.Run("with duplicate references", func(t *testing.T) {
		rule := []any{
			map[string]any{"questionId": "q1", "equals": "a"},
			map[string]any{"questionId": "q1", "equals": "b"},
		}
		deps := ShowIfDependencies(rule)
		if len(deps) != 1 || deps[0] != "q1" {
			t.Errorf("should be deduplicated: %v", deps)
		}
	})
}

func TestBuildDependencyGraph(t *testing.T) {
	questions := []types.Question{
		{ID: "q1"},
		{ID: "q2", ShowIf: map[string]any{"questionId": "q1", "equals": "yes"}},
		{Text: "no id, skipped"},
		{ID: "q3", ShowIf: []any{
			map[string]any{"questionId": "q1", "equals": "no"},
			map[string]any{"questionId": "q2", "equals": "yes"},
		}},
	}

	graph := BuildDependencyGraph(questions)
	if len(graph) != 3 {
		t.Errorf("unexpected number of graph entries: %d", len(graph))
	}
	if len(graph["q1"]) != 0 {
		t.Errorf("q1 should have no dependencies: %v", graph["q1"])
	}
	if len(graph["q2"]) != 1 || graph["q2"][0] != "q1" {
		t.Errorf("unexpected dependencies for q2: %v", graph["q2"])
	}
	if len(graph["q3"]) != 2 {
		t.Errorf("unexpected dependencies for q3: %v", graph["q3"])
	}
}
