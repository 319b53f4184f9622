package engine

// EvalEligibility decides if a participant profile satisfies the eligibility
// rules of a test. The profile is a flat attribute map, "age" and "gender"
// are the well-known keys, custom conditions look up their own field.
//
// Missing or malformed rules degrade to eligible, the same permissive default
// the branching evaluator uses for missing showIf rules.
func EvalEligibility(eligibilityRules any, profile map[string]any) bool {
	if eligibilityRules == nil {
		return true
	}

	rules, ok := asRawObject(eligibilityRules)
	if !ok {
		return true
	}

	// legacy shape
	if minAgeRaw, present := rules["minAge"]; present {
		minAge, ok := asRawNumber(minAgeRaw)
		if !ok {
			return true
		}
		age := answerAsNumber(profile["age"])
		return age != nil && *age >= minAge
	}

	conditions, ok := asRawArray(rules["conditions"])
	if !ok || len(conditions) == 0 {
		return true
	}

	operator, _ := rules["operator"].(string)
	isOr := operator == "OR"

	for _, conditionRaw := range conditions {
		matched := evalEligibilityCondition(conditionRaw, profile)
		if isOr && matched {
			return true
		}
		if !isOr && !matched {
			return false
		}
	}
	return !isOr
}

func evalEligibilityCondition(conditionRaw any, profile map[string]any) bool {
	condition, ok := asRawObject(conditionRaw)
	if !ok {
		return false
	}

	conditionType, _ := condition["type"].(string)
	switch conditionType {
	case "age":
		// value is the minimum age
		minAge, ok := asRawNumber(condition["value"])
		if !ok {
			return false
		}
		age := answerAsNumber(profile["age"])
		return age != nil && *age >= minAge
	case "gender":
		value, ok := condition["value"].(string)
		if !ok || value == "" {
			return false
		}
		return answerAsLowerString(profile["gender"]) == answerAsLowerString(value)
	case "custom":
		field, ok := condition["field"].(string)
		if !ok || field == "" {
			return false
		}
		value, present := condition["value"]
		if !present {
			return false
		}
		return strictEquals(profile[field], value)
	default:
		return false
	}
}
