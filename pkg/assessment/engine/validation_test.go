package engine

import (
	"reflect"
	"strings"
	"testing"
)

func minimalQuestion(id string) map[string]any {
	return map[string]any{
		"id":   id,
		"text": "Question " + id,
		"type": "text",
	}
}

func validSchema() map[string]any {
	return map[string]any{
		"questions": []any{
			minimalQuestion("q1"),
			minimalQuestion("q2"),
		},
	}
}

func hasErrorContaining(errors []string, fragment string) bool {
	for _, e := range errors {
		if strings.Contains(e, fragment) {
			return true
		}
	}
	return false
}

func TestValidateSchemaRoot(t *testing.T) {
	t.Run("with non object root", func(t *testing.T) {
		result := ValidateSchema("not an object")
		if result.Valid {
			t.Error("should be invalid")
		}
		if !hasErrorContaining(result.Errors, "must be an object") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with missing questions", func(t *testing.T) {
		result := ValidateSchema(map[string]any{})
		if result.Valid || !hasErrorContaining(result.Errors, "at least one question") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with empty questions", func(t *testing.T) {
		result := ValidateSchema(map[string]any{"questions": []any{}})
		if result.Valid || !hasErrorContaining(result.Errors, "at least one question") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with valid minimal schema", func(t *testing.T) {
		result := ValidateSchema(validSchema())
		if !result.Valid {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})
}

func TestValidateSchemaQuestions(t *testing.T) {
	t.Run("with missing id", func(t *testing.T) {
		schema := map[string]any{"questions": []any{
			map[string]any{"text": "abc", "type": "text"},
		}}
		result := ValidateSchema(schema)
		if result.Valid || !hasErrorContaining(result.Errors, "missing or empty id") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with duplicate id", func(t *testing.T) {
		schema := map[string]any{"questions": []any{
			minimalQuestion("q1"),
			minimalQuestion("q1"),
		}}
		result := ValidateSchema(schema)
		if result.Valid || !hasErrorContaining(result.Errors, "duplicate question id") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with unknown type", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["type"] = "dropdown"
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if result.Valid || !hasErrorContaining(result.Errors, "unknown type") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with radio and a single option", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["type"] = "radio"
		q["options"] = []any{
			map[string]any{"value": "a", "label": "A"},
		}
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if result.Valid || !hasErrorContaining(result.Errors, "at least 2 options") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with option missing value or label", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["type"] = "checkbox"
		q["options"] = []any{
			map[string]any{"label": "A"},
			map[string]any{"value": "b"},
		}
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if result.Valid {
			t.Error("should be invalid")
		}
		if !hasErrorContaining(result.Errors, "missing a value") || !hasErrorContaining(result.Errors, "invalid label") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with numeric bounds inverted", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["type"] = "numeric"
		q["min"] = float64(10)
		q["max"] = float64(1)
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if result.Valid || !hasErrorContaining(result.Errors, "min must not be greater than max") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with non numeric step", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["type"] = "numeric"
		q["step"] = "one"
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if result.Valid || !hasErrorContaining(result.Errors, "step must be a number") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with invalid maxLength", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["maxLength"] = float64(0)
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if result.Valid || !hasErrorContaining(result.Errors, "maxLength must be a positive number") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with critical question missing helpText", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["isCritical"] = true
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if result.Valid || !hasErrorContaining(result.Errors, "helpText") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with critical question and helpText", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["isCritical"] = true
		q["helpText"] = "If you need immediate help, call the crisis line."
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if !result.Valid {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})
}

func TestValidateSchemaShowIf(t *testing.T) {
	t.Run("with invalid showIf shape", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["showIf"] = "q2 == yes"
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if result.Valid || !hasErrorContaining(result.Errors, "showIf must be an object or an array") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with unknown reference", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["showIf"] = map[string]any{"questionId": "q99", "equals": "yes"}
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if result.Valid || !hasErrorContaining(result.Errors, "unknown question id") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with unknown reference inside composite", func(t *testing.T) {
		q1 := minimalQuestion("q1")
		q2 := minimalQuestion("q2")
		q2["showIf"] = map[string]any{"and": []any{
			map[string]any{"questionId": "q1", "equals": "yes"},
			map[string]any{"questionId": "ghost", "equals": "yes"},
		}}
		result := ValidateSchema(map[string]any{"questions": []any{q1, q2}})
		if result.Valid || !hasErrorContaining(result.Errors, `"ghost"`) {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with circular dependency", func(t *testing.T) {
		q1 := minimalQuestion("q1")
		q1["showIf"] = map[string]any{"questionId": "q2", "equals": "yes"}
		q2 := minimalQuestion("q2")
		q2["showIf"] = map[string]any{"questionId": "q1", "equals": "yes"}
		result := ValidateSchema(map[string]any{"questions": []any{q1, q2}})
		if result.Valid {
			t.Error("should be invalid")
		}
		if !hasErrorContaining(result.Errors, "circular showIf dependency") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
		if !hasErrorContaining(result.Warnings, "circular showIf dependency") {
			t.Errorf("cycle should also be warned about: %v", result.Warnings)
		}
		if !hasErrorContaining(result.Errors, " -> ") {
			t.Errorf("cycle path should be arrow joined: %v", result.Errors)
		}
	})
}

func TestValidateSchemaWarnings(t *testing.T) {
	t.Run("with non numeric order", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["order"] = "first"
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if !result.Valid {
			t.Errorf("warnings must not invalidate: %v", result.Errors)
		}
		if !hasErrorContaining(result.Warnings, "order should be a number") {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
	})

	t.Run("with duplicate order values", func(t *testing.T) {
		q1 := minimalQuestion("q1")
		q1["order"] = float64(1)
		q2 := minimalQuestion("q2")
		q2["order"] = float64(1)
		result := ValidateSchema(map[string]any{"questions": []any{q1, q2}})
		if !result.Valid {
			t.Errorf("warnings must not invalidate: %v", result.Errors)
		}
		if !hasErrorContaining(result.Warnings, "used by multiple questions") {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
	})

	t.Run("with non boolean required and isCritical", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["required"] = "yes"
		q["isCritical"] = "no"
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if !result.Valid {
			t.Errorf("warnings must not invalidate: %v", result.Errors)
		}
		if !hasErrorContaining(result.Warnings, "required should be a boolean") {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
		if !hasErrorContaining(result.Warnings, "isCritical should be a boolean") {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
	})

	t.Run("with non string helpText", func(t *testing.T) {
		q := minimalQuestion("q1")
		q["helpText"] = float64(42)
		result := ValidateSchema(map[string]any{"questions": []any{q}})
		if !result.Valid {
			t.Errorf("warnings must not invalidate: %v", result.Errors)
		}
		if !hasErrorContaining(result.Warnings, "helpText should be a string") {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
	})
}

func TestValidateScoringRules(t *testing.T) {
	questionIDs := []string{"q1", "q2"}

	t.Run("with nil rules", func(t *testing.T) {
		result := ValidateScoringRules(nil, questionIDs)
		if !result.Valid {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with valid rules", func(t *testing.T) {
		rules := map[string]any{
			"type":  "sum",
			"items": []any{"q1", "q2"},
			"bands": []any{
				map[string]any{"min": float64(0), "max": float64(4), "label": "Low"},
			},
		}
		result := ValidateScoringRules(rules, questionIDs)
		if !result.Valid {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with unknown type", func(t *testing.T) {
		rules := map[string]any{"type": "average", "items": []any{"q1"}, "bands": []any{}}
		result := ValidateScoringRules(rules, questionIDs)
		if result.Valid || !hasErrorContaining(result.Errors, "type must be") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with unknown item", func(t *testing.T) {
		rules := map[string]any{"type": "sum", "items": []any{"q9"}, "bands": []any{}}
		result := ValidateScoringRules(rules, questionIDs)
		if result.Valid || !hasErrorContaining(result.Errors, "does not match any question") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with invalid weights", func(t *testing.T) {
		rules := map[string]any{
			"type":    "weighted_sum",
			"items":   []any{"q1"},
			"weights": map[string]any{"q9": float64(2), "q1": "heavy"},
			"bands":   []any{},
		}
		result := ValidateScoringRules(rules, questionIDs)
		if result.Valid {
			t.Error("should be invalid")
		}
		if !hasErrorContaining(result.Errors, "unknown question id") || !hasErrorContaining(result.Errors, "must be a number") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with malformed band", func(t *testing.T) {
		rules := map[string]any{
			"type":  "sum",
			"items": []any{"q1"},
			"bands": []any{
				map[string]any{"min": float64(5), "max": float64(1), "label": "Broken"},
			},
		}
		result := ValidateScoringRules(rules, questionIDs)
		if result.Valid || !hasErrorContaining(result.Errors, "band at index 0") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})
}

func TestValidateRiskRules(t *testing.T) {
	questionIDs := []string{"q1", "q9"}

	t.Run("with nil rules", func(t *testing.T) {
		result := ValidateRiskRules(nil, questionIDs)
		if !result.Valid {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with valid trigger", func(t *testing.T) {
		rules := map[string]any{"triggers": []any{
			map[string]any{"questionId": "q9", "gte": float64(2), "flag": "suicidal_ideation"},
		}}
		result := ValidateRiskRules(rules, questionIDs)
		if !result.Valid {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with unknown question reference", func(t *testing.T) {
		rules := map[string]any{"triggers": []any{
			map[string]any{"questionId": "ghost", "gte": float64(2), "flag": "f"},
		}}
		result := ValidateRiskRules(rules, questionIDs)
		if result.Valid || !hasErrorContaining(result.Errors, "unknown question id") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with missing operator and flag", func(t *testing.T) {
		rules := map[string]any{"triggers": []any{
			map[string]any{"questionId": "q1"},
		}}
		result := ValidateRiskRules(rules, questionIDs)
		if result.Valid {
			t.Error("should be invalid")
		}
		if !hasErrorContaining(result.Errors, "no recognized operator") || !hasErrorContaining(result.Errors, "needs a flag") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with unsupported condition operator", func(t *testing.T) {
		rules := map[string]any{"triggers": []any{
			map[string]any{"questionId": "q1", "lt": float64(3), "flag": "low_mood"},
		}}
		result := ValidateRiskRules(rules, questionIDs)
		if !result.Valid || len(result.Errors) != 0 {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
		if !hasErrorContaining(result.Warnings, "can never fire") {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
	})
}

func TestValidateEligibilityRules(t *testing.T) {
	t.Run("with nil rules", func(t *testing.T) {
		result := ValidateEligibilityRules(nil)
		if !result.Valid {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with legacy minAge shape", func(t *testing.T) {
		result := ValidateEligibilityRules(map[string]any{"minAge": float64(18)})
		if !result.Valid {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with negative minAge", func(t *testing.T) {
		result := ValidateEligibilityRules(map[string]any{"minAge": float64(-1)})
		if result.Valid || !hasErrorContaining(result.Errors, "non-negative") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with new shape", func(t *testing.T) {
		rules := map[string]any{
			"operator": "AND",
			"conditions": []any{
				map[string]any{"type": "age", "operator": "gte", "value": float64(18)},
				map[string]any{"type": "gender", "value": "female"},
			},
		}
		result := ValidateEligibilityRules(rules)
		if !result.Valid {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with empty conditions", func(t *testing.T) {
		rules := map[string]any{"operator": "OR", "conditions": []any{}}
		result := ValidateEligibilityRules(rules)
		if result.Valid || !hasErrorContaining(result.Errors, "non-empty array") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with unknown condition type", func(t *testing.T) {
		rules := map[string]any{
			"operator":   "AND",
			"conditions": []any{map[string]any{"type": "height"}},
		}
		result := ValidateEligibilityRules(rules)
		if result.Valid || !hasErrorContaining(result.Errors, "unknown type") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})
}

func TestValidateTestData(t *testing.T) {
	t.Run("with missing title", func(t *testing.T) {
		result := ValidateTestData(map[string]any{"schemaJson": validSchema()})
		if result.Valid || !hasErrorContaining(result.Errors, "title is required") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with missing schemaJson", func(t *testing.T) {
		result := ValidateTestData(map[string]any{"title": "PHQ-9"})
		if result.Valid || !hasErrorContaining(result.Errors, "schemaJson is required") {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with broken schema skips referential rule checks", func(t *testing.T) {
		testData := map[string]any{
			"title":      "PHQ-9",
			"schemaJson": map[string]any{"questions": []any{}},
			"scoringRules": map[string]any{
				"type":  "sum",
				"items": []any{"q1"},
				"bands": []any{},
			},
		}
		result := ValidateTestData(testData)
		if result.Valid {
			t.Error("should be invalid")
		}
		// q1 cannot be checked against a broken schema, so no item error
		if hasErrorContaining(result.Errors, "does not match any question") {
			t.Errorf("referential check should be skipped: %v", result.Errors)
		}
	})

	t.Run("with complete valid definition", func(t *testing.T) {
		testData := map[string]any{
			"title":      "PHQ-9",
			"schemaJson": validSchema(),
			"scoringRules": map[string]any{
				"type":  "sum",
				"items": []any{"q1", "q2"},
				"bands": []any{
					map[string]any{"min": float64(0), "max": float64(4), "label": "Minimal"},
				},
			},
			"riskRules": map[string]any{"triggers": []any{
				map[string]any{"questionId": "q2", "gte": float64(2), "flag": "risk"},
			}},
			"eligibilityRules": map[string]any{"minAge": float64(18)},
		}
		result := ValidateTestData(testData)
		if !result.Valid {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
	})

	t.Run("with inert risk trigger surfaces the warning", func(t *testing.T) {
		testData := map[string]any{
			"title":      "PHQ-9",
			"schemaJson": validSchema(),
			"riskRules": map[string]any{"triggers": []any{
				map[string]any{"questionId": "q1", "lt": float64(3), "flag": "low_mood"},
			}},
		}
		result := ValidateTestData(testData)
		if !result.Valid {
			t.Errorf("unexpected errors: %v", result.Errors)
		}
		if !hasErrorContaining(result.Warnings, "can never fire") {
			t.Errorf("unexpected warnings: %v", result.Warnings)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		testData := map[string]any{
			"title": "PHQ-9",
			"schemaJson": map[string]any{"questions": []any{
				map[string]any{"id": "q1", "text": "t", "type": "radio", "order": "x"},
			}},
		}
		first := ValidateTestData(testData)
		second := ValidateTestData(testData)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("results differ: %v vs %v", first, second)
		}
	})
}
