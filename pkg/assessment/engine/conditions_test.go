package engine

import (
	"testing"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
)

func evalRawCondition(raw map[string]any, answers types.Answers) bool {
	return EvalCondition(parseCondition(raw), answers)
}

func TestEvalConditionEquals(t *testing.T) {
	t.Run("with matching string ignoring case", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "equals": "Yes"}, types.Answers{"q1": "yes"})
		if !ret {
			t.Error("should be true")
		}
	})

	t.Run("with not matching string", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "equals": "yes"}, types.Answers{"q1": "no"})
		if ret {
			t.Error("should be false")
		}
	})

	t.Run("with numeric answer and string target", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "equals": "2"}, types.Answers{"q1": float64(2)})
		if !ret {
			t.Error("should be true")
		}
	})

	t.Run("with array answer containing the target", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "equals": "b"}, types.Answers{"q1": []any{"a", "b"}})
		if !ret {
			t.Error("should be true")
		}
	})

	t.Run("with array answer not containing the target", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "equals": "c"}, types.Answers{"q1": []any{"a", "b"}})
		if ret {
			t.Error("should be false")
		}
	})

	t.Run("with missing answer", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "equals": "yes"}, types.Answers{})
		if ret {
			t.Error("should be false")
		}
	})
}

func TestEvalConditionNotEquals(t *testing.T) {
	t.Run("negates the equals rule", func(t *testing.T) {
		answers := types.Answers{"q1": "yes"}
		if evalRawCondition(map[string]any{"questionId": "q1", "not_equals": "yes"}, answers) {
			t.Error("should be false")
		}
		if !evalRawCondition(map[string]any{"questionId": "q1", "not_equals": "no"}, answers) {
			t.Error("should be true")
		}
	})
}

func TestEvalConditionNumericComparisons(t *testing.T) {
	answers := types.Answers{"q1": float64(3)}

	t.Run("gte", func(t *testing.T) {
		if !evalRawCondition(map[string]any{"questionId": "q1", "gte": float64(3)}, answers) {
			t.Error("should be true")
		}
		if evalRawCondition(map[string]any{"questionId": "q1", "gte": float64(4)}, answers) {
			t.Error("should be false")
		}
	})

	t.Run("lte", func(t *testing.T) {
		if !evalRawCondition(map[string]any{"questionId": "q1", "lte": float64(3)}, answers) {
			t.Error("should be true")
		}
	})

	t.Run("gt and lt", func(t *testing.T) {
		if evalRawCondition(map[string]any{"questionId": "q1", "gt": float64(3)}, answers) {
			t.Error("should be false")
		}
		if !evalRawCondition(map[string]any{"questionId": "q1", "lt": float64(4)}, answers) {
			t.Error("should be true")
		}
	})

	t.Run("with numeric string answer", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "gte": float64(2)}, types.Answers{"q1": "3"})
		if !ret {
			t.Error("should be true")
		}
	})

	t.Run("with non numeric answer", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "gte": float64(2)}, types.Answers{"q1": "often"})
		if ret {
			t.Error("should be false")
		}
	})

	t.Run("with missing answer", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q2", "gte": float64(0)}, answers)
		if ret {
			t.Error("should be false")
		}
	})
}

func TestEvalConditionIn(t *testing.T) {
	t.Run("with scalar answer in the set", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "in": []any{"a", "b"}}, types.Answers{"q1": "a"})
		if !ret {
			t.Error("should be true")
		}
	})

	t.Run("with scalar answer not in the set", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "in": []any{"a", "b"}}, types.Answers{"q1": "c"})
		if ret {
			t.Error("should be false")
		}
	})

	t.Run("with array answer overlapping the set", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "in": []any{"a", "b"}}, types.Answers{"q1": []any{"a", "c"}})
		if !ret {
			t.Error("should be true")
		}
	})

	t.Run("with scalar target", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "in": "a"}, types.Answers{"q1": "a"})
		if !ret {
			t.Error("should be true")
		}
	})

	t.Run("with numeric values", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "in": []any{float64(1), float64(2)}}, types.Answers{"q1": float64(2)})
		if !ret {
			t.Error("should be true")
		}
	})
}

func TestEvalConditionContains(t *testing.T) {
	t.Run("with matching substring ignoring case", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "contains": "Sleep"}, types.Answers{"q1": "trouble sleeping"})
		if !ret {
			t.Error("should be true")
		}
	})

	t.Run("with no match", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "contains": "appetite"}, types.Answers{"q1": "trouble sleeping"})
		if ret {
			t.Error("should be false")
		}
	})

	t.Run("with array answer", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "contains": "sleep"}, types.Answers{"q1": []any{"appetite", "poor sleep"}})
		if !ret {
			t.Error("should be true")
		}
	})
}

func TestEvalConditionOperatorPrecedence(t *testing.T) {
	t.Run("equals wins over gte", func(t *testing.T) {
		// equals fails, gte would pass - equals is checked first and wins
		raw := map[string]any{"questionId": "q1", "equals": "5", "gte": float64(1)}
		ret := evalRawCondition(raw, types.Answers{"q1": float64(3)})
		if ret {
			t.Error("should be false")
		}
	})
}

func TestEvalConditionEdgeCases(t *testing.T) {
	t.Run("with nil condition", func(t *testing.T) {
		if !EvalCondition(nil, types.Answers{}) {
			t.Error("should be true")
		}
	})

	t.Run("without recognized operator", func(t *testing.T) {
		ret := evalRawCondition(map[string]any{"questionId": "q1", "matches": "x"}, types.Answers{"q1": "x"})
		if ret {
			t.Error("should be false")
		}
	})
}
