package engine

import (
	"testing"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
)

func TestEvalShowIf(t *testing.T) {
	answers := types.Answers{"q1": "yes", "q2": float64(3)}

	t.Run("with nil rule", func(t *testing.T) {
		if !EvalShowIf(nil, answers) {
			t.Error("should be true")
		}
	})

	t.Run("with atomic condition", func(t *testing.T) {
		rule := map[string]any{"questionId": "q1", "equals": "yes"}
		if !EvalShowIf(rule, answers) {
			t.Error("should be true")
		}
	})

	t.Run("with and composite", func(t *testing.T) {
		rule := map[string]any{"and": []any{
			map[string]any{"questionId": "q1", "equals": "yes"},
			map[string]any{"questionId": "q2", "gte": float64(2)},
		}}
		if !EvalShowIf(rule, answers) {
			t.Error("should be true")
		}

		rule = map[string]any{"and": []any{
			map[string]any{"questionId": "q1", "equals": "yes"},
			map[string]any{"questionId": "q2", "gte": float64(5)},
		}}
		if EvalShowIf(rule, answers) {
			t.Error("should be false")
		}
	})

	t.Run("with or composite", func(t *testing.T) {
		rule := map[string]any{"or": []any{
			map[string]any{"questionId": "q1", "equals": "no"},
			map[string]any{"questionId": "q2", "gte": float64(2)},
		}}
		if !EvalShowIf(rule, answers) {
			t.Error("should be true")
		}
	})

	t.Run("with not composite", func(t *testing.T) {
		rule := map[string]any{"not": map[string]any{"questionId": "q1", "equals": "yes"}}
		if EvalShowIf(rule, answers) {
			t.Error("should be false")
		}
	})

	t.Run("with bare sequence treated as or", func(t *testing.T) {
		rule := []any{
			map[string]any{"questionId": "q1", "equals": "no"},
			map[string]any{"questionId": "q2", "equals": float64(3)},
		}
		if !EvalShowIf(rule, answers) {
			t.Error("should be true")
		}
	})

	t.Run("with empty and", func(t *testing.T) {
		if !EvalShowIf(map[string]any{"and": []any{}}, answers) {
			t.Error("empty and should be vacuously true")
		}
	})

	t.Run("with empty or", func(t *testing.T) {
		if EvalShowIf(map[string]any{"or": []any{}}, answers) {
			t.Error("empty or should be false")
		}
	})

	t.Run("with deeply nested composites", func(t *testing.T) {
		rule := map[string]any{"and": []any{
			map[string]any{"or": []any{
				map[string]any{"questionId": "q1", "equals": "no"},
				map[string]any{"not": map[string]any{"questionId": "q2", "lt": float64(2)}},
			}},
			map[string]any{"questionId": "q1", "equals": "yes"},
		}}
		if !EvalShowIf(rule, answers) {
			t.Error("should be true")
		}
	})

	t.Run("with scalar rule values", func(t *testing.T) {
		if !EvalShowIf(true, answers) {
			t.Error("true literal should be true")
		}
		if EvalShowIf(false, answers) {
			t.Error("false literal should be false")
		}
		if EvalShowIf(float64(0), answers) {
			t.Error("zero should be false")
		}
	})
}

func TestEvalShowIfNotNegatesCondition(t *testing.T) {
	conditions := []map[string]any{
		{"questionId": "q1", "equals": "yes"},
		{"questionId": "q2", "gte": float64(10)},
		{"questionId": "missing", "contains": "x"},
	}
	answers := types.Answers{"q1": "yes", "q2": float64(3)}

	for _, cond := range conditions {
		direct := EvalShowIf(cond, answers)
		negated := EvalShowIf(map[string]any{"not": cond}, answers)
		if direct == negated {
			t.Errorf("not should negate the condition result for %v", cond)
		}
	}
}

func TestParseShowIfEvaluatesLikeDirectEval(t *testing.T) {
	rule := map[string]any{"or": []any{
		map[string]any{"questionId": "q1", "equals": "yes"},
		map[string]any{"and": []any{
			map[string]any{"questionId": "q2", "gte": float64(1)},
			map[string]any{"questionId": "q2", "lte": float64(5)},
		}},
	}}
	parsed := ParseShowIf(rule)

	answerSets := []types.Answers{
		{"q1": "yes"},
		{"q2": float64(3)},
		{"q2": float64(9)},
		{},
	}
	for _, answers := range answerSets {
		if parsed.Eval(answers) != EvalShowIf(rule, answers) {
			t.Errorf("parsed rule diverged from direct evaluation for %v", answers)
		}
	}
}

func TestVisibleQuestions(t *testing.T) {
	questions := []types.Question{
		{ID: "q1", Text: "Do you have trouble sleeping?", Type: types.QUESTION_TYPE_BOOLEAN},
		{ID: "q2", Text: "How often?", Type: types.QUESTION_TYPE_LIKERT, ShowIf: map[string]any{"questionId": "q1", "equals": true}},
		{ID: "q3", Text: "Anything else?", Type: types.QUESTION_TYPE_TEXTAREA},
	}

	t.Run("with no answers", func(t *testing.T) {
		visible := VisibleQuestions(questions, types.Answers{})
		if len(visible) != 2 {
			t.Errorf("unexpected number of visible questions: %d", len(visible))
			return
		}
		if visible[0].ID != "q1" || visible[1].ID != "q3" {
			t.Errorf("unexpected order: %s, %s", visible[0].ID, visible[1].ID)
		}
	})

	t.Run("with triggering answer", func(t *testing.T) {
		visible := VisibleQuestions(questions, types.Answers{"q1": true})
		if len(visible) != 3 {
			t.Errorf("unexpected number of visible questions: %d", len(visible))
			return
		}
		if visible[1].ID != "q2" {
			t.Errorf("unexpected order: %s", visible[1].ID)
		}
	})

	t.Run("with nil question slice", func(t *testing.T) {
		visible := VisibleQuestions(nil, types.Answers{})
		if visible == nil || len(visible) != 0 {
			t.Error("should be an empty slice")
		}
	})
}
