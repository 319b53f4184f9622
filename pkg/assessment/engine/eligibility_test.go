package engine

import "testing"

func TestEvalEligibility(t *testing.T) {
	profile := map[string]any{
		"age":     34,
		"gender":  "female",
		"country": "NL",
	}

	t.Run("with nil rules", func(t *testing.T) {
		if !EvalEligibility(nil, profile) {
			t.Error("expected eligible for nil rules")
		}
	})

	t.Run("with malformed rules", func(t *testing.T) {
		if !EvalEligibility("not an object", profile) {
			t.Error("expected eligible for malformed rules")
		}
	})

	t.Run("with legacy minAge satisfied", func(t *testing.T) {
		rules := map[string]any{"minAge": 18}
		if !EvalEligibility(rules, profile) {
			t.Error("expected eligible")
		}
	})

	t.Run("with legacy minAge not satisfied", func(t *testing.T) {
		rules := map[string]any{"minAge": 40}
		if EvalEligibility(rules, profile) {
			t.Error("expected not eligible")
		}
	})

	t.Run("with legacy minAge and missing age", func(t *testing.T) {
		rules := map[string]any{"minAge": 18}
		if EvalEligibility(rules, map[string]any{}) {
			t.Error("expected not eligible when age is unknown")
		}
	})

	t.Run("with AND conditions", func(t *testing.T) {
		rules := map[string]any{
			"operator": "AND",
			"conditions": []any{
				map[string]any{"type": "age", "value": 18},
				map[string]any{"type": "gender", "value": "Female"},
			},
		}
		if !EvalEligibility(rules, profile) {
			t.Error("expected eligible")
		}
	})

	t.Run("with AND conditions one failing", func(t *testing.T) {
		rules := map[string]any{
			"operator": "AND",
			"conditions": []any{
				map[string]any{"type": "age", "value": 18},
				map[string]any{"type": "gender", "value": "male"},
			},
		}
		if EvalEligibility(rules, profile) {
			t.Error("expected not eligible")
		}
	})

	t.Run("with OR conditions", func(t *testing.T) {
		rules := map[string]any{
			"operator": "OR",
			"conditions": []any{
				map[string]any{"type": "age", "value": 65},
				map[string]any{"type": "custom", "field": "country", "value": "NL"},
			},
		}
		if !EvalEligibility(rules, profile) {
			t.Error("expected eligible")
		}
	})

	t.Run("with OR conditions none matching", func(t *testing.T) {
		rules := map[string]any{
			"operator": "OR",
			"conditions": []any{
				map[string]any{"type": "age", "value": 65},
				map[string]any{"type": "custom", "field": "country", "value": "DE"},
			},
		}
		if EvalEligibility(rules, profile) {
			t.Error("expected not eligible")
		}
	})

	t.Run("with unknown condition type", func(t *testing.T) {
		rules := map[string]any{
			"operator": "AND",
			"conditions": []any{
				map[string]any{"type": "zodiac", "value": "aries"},
			},
		}
		if EvalEligibility(rules, profile) {
			t.Error("expected not eligible for unknown condition type")
		}
	})
}
