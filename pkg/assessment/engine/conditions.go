package engine

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
)

const (
	OPERATOR_EQUALS     = "equals"
	OPERATOR_NOT_EQUALS = "not_equals"
	OPERATOR_GTE        = "gte"
	OPERATOR_LTE        = "lte"
	OPERATOR_GT         = "gt"
	OPERATOR_LT         = "lt"
	OPERATOR_IN         = "in"
	OPERATOR_CONTAINS   = "contains"
)

// conditionOperatorOrder is the operator precedence: the first operator field
// present on a condition object wins, the rest is ignored.
var conditionOperatorOrder = []string{
	OPERATOR_EQUALS,
	OPERATOR_NOT_EQUALS,
	OPERATOR_GTE,
	OPERATOR_LTE,
	OPERATOR_GT,
	OPERATOR_LT,
	OPERATOR_IN,
	OPERATOR_CONTAINS,
}

// Condition is the parsed form of an atomic visibility predicate. The raw
// object sources the comparison value from a field named after the operator,
// e.g. {"questionId": "q1", "equals": "yes"}.
type Condition struct {
	QuestionID string
	Operator   string
	Value      any
}

func parseCondition(raw map[string]any) *Condition {
	cond := &Condition{}
	if id, ok := raw["questionId"].(string); ok {
		cond.QuestionID = id
	}
	for _, op := range conditionOperatorOrder {
		if v, ok := raw[op]; ok {
			cond.Operator = op
			cond.Value = v
			break
		}
	}
	return cond
}

// EvalCondition evaluates one atomic condition against the current answers.
// A nil condition poses no restriction. A condition without a recognized
// operator field evaluates to false. Missing answers are tolerated, the
// comparison then works on the absent value.
func EvalCondition(cond *Condition, answers types.Answers) bool {
	if cond == nil {
		return true
	}
	answer := answers[cond.QuestionID]

	switch cond.Operator {
	case OPERATOR_EQUALS:
		return equalsRule(answer, cond.Value)
	case OPERATOR_NOT_EQUALS:
		return !equalsRule(answer, cond.Value)
	case OPERATOR_GTE, OPERATOR_LTE, OPERATOR_GT, OPERATOR_LT:
		return compareRule(cond.Operator, answer, cond.Value)
	case OPERATOR_IN:
		return inRule(answer, cond.Value)
	case OPERATOR_CONTAINS:
		return containsRule(answer, cond.Value)
	default:
		return false
	}
}

// equalsRule dispatches on the answer shape: array answers match when they
// contain the string form of the target, numeric pairs compare numerically,
// everything else compares as lower-cased strings.
func equalsRule(answer any, target any) bool {
	if isArrayValue(answer) {
		targetStr := stringify(target)
		for _, el := range answerAsArray(answer) {
			if stringify(el) == targetStr {
				return true
			}
		}
		return false
	}
	answerNum := answerAsNumber(answer)
	targetNum := answerAsNumber(target)
	if answerNum != nil && targetNum != nil {
		return *answerNum == *targetNum
	}
	return answerAsLowerString(answer) == answerAsLowerString(target)
}

func compareRule(operator string, answer any, target any) bool {
	answerNum := answerAsNumber(answer)
	if answerNum == nil {
		return false
	}
	targetNum := answerAsNumber(target)
	if targetNum == nil {
		return false
	}
	switch operator {
	case OPERATOR_GTE:
		return *answerNum >= *targetNum
	case OPERATOR_LTE:
		return *answerNum <= *targetNum
	case OPERATOR_GT:
		return *answerNum > *targetNum
	case OPERATOR_LT:
		return *answerNum < *targetNum
	}
	return false
}

// inRule checks membership of the answer (or any of its elements) in the
// allowed value set, comparing string forms.
func inRule(answer any, target any) bool {
	allowed := map[string]bool{}
	for _, el := range answerAsArray(target) {
		allowed[stringify(el)] = true
	}
	if isArrayValue(answer) {
		for _, el := range answerAsArray(answer) {
			if allowed[stringify(el)] {
				return true
			}
		}
		return false
	}
	return allowed[stringify(answer)]
}

// containsRule is a case-insensitive substring test.
func containsRule(answer any, target any) bool {
	needle := answerAsLowerString(target)
	if isArrayValue(answer) {
		for _, el := range answerAsArray(answer) {
			if strings.Contains(answerAsLowerString(el), needle) {
				return true
			}
		}
		return false
	}
	return strings.Contains(answerAsLowerString(answer), needle)
}

func isArrayValue(v any) bool {
	switch v.(type) {
	case []any, primitive.A, []string:
		return true
	default:
		return false
	}
}
