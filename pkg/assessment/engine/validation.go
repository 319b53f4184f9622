package engine

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
)

var knownQuestionTypes = map[string]bool{
	types.QUESTION_TYPE_RADIO:    true,
	types.QUESTION_TYPE_CHECKBOX: true,
	types.QUESTION_TYPE_TEXT:     true,
	types.QUESTION_TYPE_TEXTAREA: true,
	types.QUESTION_TYPE_NUMERIC:  true,
	types.QUESTION_TYPE_BOOLEAN:  true,
	types.QUESTION_TYPE_LIKERT:   true,
}

// question types that must come with a closed option list
var optionBasedQuestionTypes = map[string]bool{
	types.QUESTION_TYPE_RADIO:    true,
	types.QUESTION_TYPE_CHECKBOX: true,
	types.QUESTION_TYPE_LIKERT:   true,
}

// ValidateSchema walks a raw test schema document and checks its structural
// and referential correctness, including cycle detection over the showIf
// dependency graph. Errors make the schema invalid, warnings do not.
func ValidateSchema(schemaJSON any) types.ValidationResult {
	errors := []string{}
	warnings := []string{}

	root, ok := asRawObject(schemaJSON)
	if !ok {
		errors = append(errors, "schema must be an object")
		return types.ValidationResult{Valid: false, Errors: errors, Warnings: warnings}
	}

	questions, ok := asRawArray(root["questions"])
	if !ok || len(questions) == 0 {
		errors = append(errors, "schema must contain at least one question")
		return types.ValidationResult{Valid: false, Errors: errors, Warnings: warnings}
	}

	questionIDs := map[string]bool{}
	orderValues := map[string][]string{}

	for index, questionRaw := range questions {
		question, ok := asRawObject(questionRaw)
		if !ok {
			errors = append(errors, fmt.Sprintf("question at index %d must be an object", index))
			continue
		}

		ref := fmt.Sprintf("at index %d", index)
		id, idOk := question["id"].(string)
		if !idOk || id == "" {
			errors = append(errors, fmt.Sprintf("question %s: missing or empty id", ref))
		} else {
			ref = fmt.Sprintf("%q", id)
			if questionIDs[id] {
				errors = append(errors, fmt.Sprintf("duplicate question id %q", id))
			}
			questionIDs[id] = true
		}

		if text, ok := question["text"].(string); !ok || text == "" {
			errors = append(errors, fmt.Sprintf("question %s: missing or empty text", ref))
		}

		questionType, _ := question["type"].(string)
		if !knownQuestionTypes[questionType] {
			errors = append(errors, fmt.Sprintf("question %s: unknown type %q", ref, questionType))
		}

		if optionBasedQuestionTypes[questionType] {
			validateOptions(question, questionType, ref, &errors)
		}

		if questionType == types.QUESTION_TYPE_NUMERIC {
			validateNumericBounds(question, ref, &errors)
		}

		if questionType == types.QUESTION_TYPE_TEXT || questionType == types.QUESTION_TYPE_TEXTAREA {
			if maxLength, present := question["maxLength"]; present {
				if n, ok := asRawNumber(maxLength); !ok || n < 1 {
					errors = append(errors, fmt.Sprintf("question %s: maxLength must be a positive number", ref))
				}
			}
		}
		if questionType == types.QUESTION_TYPE_TEXTAREA {
			if rows, present := question["rows"]; present {
				if _, ok := asRawNumber(rows); !ok {
					errors = append(errors, fmt.Sprintf("question %s: rows must be a number", ref))
				}
			}
		}

		// soft checks on bookkeeping fields
		if required, present := question["required"]; present {
			if _, ok := required.(bool); !ok {
				warnings = append(warnings, fmt.Sprintf("question %s: required should be a boolean", ref))
			}
		}
		isCritical, hasCritical := question["isCritical"]
		if hasCritical {
			if _, ok := isCritical.(bool); !ok {
				warnings = append(warnings, fmt.Sprintf("question %s: isCritical should be a boolean", ref))
			}
		}
		helpTextRaw, hasHelpText := question["helpText"]
		if hasHelpText {
			if _, ok := helpTextRaw.(string); !ok {
				warnings = append(warnings, fmt.Sprintf("question %s: helpText should be a string", ref))
			}
		}
		if isCritical == true {
			if helpText, ok := helpTextRaw.(string); !ok || helpText == "" {
				errors = append(errors, fmt.Sprintf("question %s: critical questions need a non-empty helpText", ref))
			}
		}

		if order, present := question["order"]; present {
			if n, ok := asRawNumber(order); !ok {
				warnings = append(warnings, fmt.Sprintf("question %s: order should be a number", ref))
			} else {
				key := stringify(n)
				orderValues[key] = append(orderValues[key], ref)
			}
		}

		if showIf, present := question["showIf"]; present && showIf != nil {
			if !isObjectOrArray(showIf) {
				errors = append(errors, fmt.Sprintf("question %s: showIf must be an object or an array", ref))
			}
		}
	}

	for orderValue, refs := range orderValues {
		if len(refs) > 1 {
			warnings = append(warnings, fmt.Sprintf("order value %s is used by multiple questions", orderValue))
		}
	}

	// referential checks on showIf, now that all ids are known
	graph := map[string][]string{}
	for index, questionRaw := range questions {
		question, ok := asRawObject(questionRaw)
		if !ok {
			continue
		}
		showIf, present := question["showIf"]
		if !present || showIf == nil || !isObjectOrArray(showIf) {
			continue
		}
		ref := fmt.Sprintf("at index %d", index)
		id, _ := question["id"].(string)
		if id != "" {
			ref = fmt.Sprintf("%q", id)
		}
		deps := ShowIfDependencies(showIf)
		for _, dep := range deps {
			if !questionIDs[dep] {
				errors = append(errors, fmt.Sprintf("question %s: showIf references unknown question id %q", ref, dep))
			}
		}
		if id != "" {
			graph[id] = deps
		}
	}

	cycleCheck := DetectCircularDependencies(graph)
	for _, cycle := range cycleCheck.Cycles {
		joined := strings.Join(cycle, " -> ")
		errors = append(errors, fmt.Sprintf("circular showIf dependency: %s", joined))
		warnings = append(warnings, fmt.Sprintf("circular showIf dependency: %s", joined))
	}

	return types.ValidationResult{
		Valid:    len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
}

func validateOptions(question map[string]any, questionType string, ref string, errors *[]string) {
	options, ok := asRawArray(question["options"])
	if !ok || len(options) < 2 {
		*errors = append(*errors, fmt.Sprintf("question %s: type %s requires at least 2 options", ref, questionType))
		return
	}
	for index, optionRaw := range options {
		option, ok := asRawObject(optionRaw)
		if !ok {
			*errors = append(*errors, fmt.Sprintf("question %s: option at index %d must be an object", ref, index))
			continue
		}
		if _, present := option["value"]; !present {
			*errors = append(*errors, fmt.Sprintf("question %s: option at index %d is missing a value", ref, index))
		}
		if label, ok := option["label"].(string); !ok || label == "" {
			*errors = append(*errors, fmt.Sprintf("question %s: option at index %d has an invalid label", ref, index))
		}
	}
}

func validateNumericBounds(question map[string]any, ref string, errors *[]string) {
	var minValue, maxValue *float64
	for _, field := range []string{"min", "max", "step"} {
		raw, present := question[field]
		if !present {
			continue
		}
		n, ok := asRawNumber(raw)
		if !ok {
			*errors = append(*errors, fmt.Sprintf("question %s: %s must be a number", ref, field))
			continue
		}
		switch field {
		case "min":
			minValue = &n
		case "max":
			maxValue = &n
		}
	}
	if minValue != nil && maxValue != nil && *minValue > *maxValue {
		*errors = append(*errors, fmt.Sprintf("question %s: min must not be greater than max", ref))
	}
}

// ValidateScoringRules checks the scoring configuration against the known
// question ids. Absent rules are trivially valid.
func ValidateScoringRules(scoringRules any, questionIDs []string) types.ValidationResult {
	errors := []string{}
	if scoringRules == nil {
		return types.ValidationResult{Valid: true, Errors: errors}
	}

	rules, ok := asRawObject(scoringRules)
	if !ok {
		errors = append(errors, "scoringRules must be an object")
		return types.ValidationResult{Valid: false, Errors: errors}
	}

	knownIDs := map[string]bool{}
	for _, id := range questionIDs {
		knownIDs[id] = true
	}

	scoringType, _ := rules["type"].(string)
	if scoringType != types.SCORING_TYPE_SUM && scoringType != types.SCORING_TYPE_WEIGHTED_SUM {
		errors = append(errors, fmt.Sprintf("scoringRules: type must be %q or %q", types.SCORING_TYPE_SUM, types.SCORING_TYPE_WEIGHTED_SUM))
	}

	items, ok := asRawArray(rules["items"])
	if !ok {
		errors = append(errors, "scoringRules: items must be an array")
	} else {
		for _, itemRaw := range items {
			item, ok := itemRaw.(string)
			if !ok {
				errors = append(errors, fmt.Sprintf("scoringRules: item %v must be a question id", itemRaw))
				continue
			}
			// referential checks are skipped when no id list is available,
			// e.g. when the schema itself is already broken
			if len(knownIDs) > 0 && !knownIDs[item] {
				errors = append(errors, fmt.Sprintf("scoringRules: item %q does not match any question id", item))
			}
		}
	}

	if weightsRaw, present := rules["weights"]; present && weightsRaw != nil {
		weights, ok := asRawObject(weightsRaw)
		if !ok {
			errors = append(errors, "scoringRules: weights must be an object")
		} else {
			for id, weight := range weights {
				if len(knownIDs) > 0 && !knownIDs[id] {
					errors = append(errors, fmt.Sprintf("scoringRules: weight for unknown question id %q", id))
				}
				if _, ok := asRawNumber(weight); !ok {
					errors = append(errors, fmt.Sprintf("scoringRules: weight for %q must be a number", id))
				}
			}
		}
	}

	bands, ok := asRawArray(rules["bands"])
	if !ok {
		errors = append(errors, "scoringRules: bands must be an array")
	} else {
		for index, bandRaw := range bands {
			if !isWellFormedBand(bandRaw) {
				errors = append(errors, fmt.Sprintf("scoringRules: band at index %d is invalid", index))
			}
		}
	}

	return types.ValidationResult{Valid: len(errors) == 0, Errors: errors}
}

func isWellFormedBand(bandRaw any) bool {
	band, ok := asRawObject(bandRaw)
	if !ok {
		return false
	}
	minValue, minOk := asRawNumber(band["min"])
	maxValue, maxOk := asRawNumber(band["max"])
	label, labelOk := band["label"].(string)
	return minOk && maxOk && minValue <= maxValue && labelOk && label != ""
}

// operators risk evaluation can actually fire on
var riskTriggerOperators = []string{"equals", "gte"}

// ValidateRiskRules checks the risk trigger configuration against the known
// question ids. Absent rules are trivially valid. Triggers carrying a
// condition operator that risk evaluation does not support are reported as
// warnings, they would never fire.
func ValidateRiskRules(riskRules any, questionIDs []string) types.ValidationResult {
	errors := []string{}
	warnings := []string{}
	if riskRules == nil {
		return types.ValidationResult{Valid: true, Errors: errors, Warnings: warnings}
	}

	rules, ok := asRawObject(riskRules)
	if !ok {
		errors = append(errors, "riskRules must be an object")
		return types.ValidationResult{Valid: false, Errors: errors, Warnings: warnings}
	}

	knownIDs := map[string]bool{}
	for _, id := range questionIDs {
		knownIDs[id] = true
	}

	triggers, ok := asRawArray(rules["triggers"])
	if !ok {
		errors = append(errors, "riskRules: triggers must be an array")
		return types.ValidationResult{Valid: false, Errors: errors, Warnings: warnings}
	}

	for index, triggerRaw := range triggers {
		trigger, ok := asRawObject(triggerRaw)
		if !ok {
			errors = append(errors, fmt.Sprintf("riskRules: trigger at index %d must be an object", index))
			continue
		}
		if id, ok := trigger["questionId"].(string); !ok || (len(knownIDs) > 0 && !knownIDs[id]) {
			errors = append(errors, fmt.Sprintf("riskRules: trigger at index %d references an unknown question id", index))
		}
		hasOperator := false
		for _, op := range riskTriggerOperators {
			if _, present := trigger[op]; present {
				hasOperator = true
				break
			}
		}
		if !hasOperator {
			unsupported := ""
			for _, op := range conditionOperatorOrder {
				if _, present := trigger[op]; present {
					unsupported = op
					break
				}
			}
			if unsupported != "" {
				warnings = append(warnings, fmt.Sprintf("riskRules: trigger at index %d uses operator %q, risk evaluation only supports equals and gte so the trigger can never fire", index, unsupported))
			} else {
				errors = append(errors, fmt.Sprintf("riskRules: trigger at index %d has no recognized operator field", index))
			}
		}
		if flag, ok := trigger["flag"].(string); !ok || flag == "" {
			errors = append(errors, fmt.Sprintf("riskRules: trigger at index %d needs a flag", index))
		}
	}

	return types.ValidationResult{Valid: len(errors) == 0, Errors: errors, Warnings: warnings}
}

var eligibilityOperators = map[string]bool{"AND": true, "OR": true}

// ValidateEligibilityRules checks the eligibility configuration. Two shapes
// are accepted: the legacy {minAge} form and the newer operator/conditions
// form with age, gender and custom field conditions.
func ValidateEligibilityRules(eligibilityRules any) types.ValidationResult {
	errors := []string{}
	if eligibilityRules == nil {
		return types.ValidationResult{Valid: true, Errors: errors}
	}

	rules, ok := asRawObject(eligibilityRules)
	if !ok {
		errors = append(errors, "eligibilityRules must be an object")
		return types.ValidationResult{Valid: false, Errors: errors}
	}

	// legacy shape
	if minAge, present := rules["minAge"]; present {
		if n, ok := asRawNumber(minAge); !ok || n < 0 {
			errors = append(errors, "eligibilityRules: minAge must be a non-negative number")
		}
		return types.ValidationResult{Valid: len(errors) == 0, Errors: errors}
	}

	operator, _ := rules["operator"].(string)
	if !eligibilityOperators[operator] {
		errors = append(errors, "eligibilityRules: operator must be AND or OR")
	}

	conditions, ok := asRawArray(rules["conditions"])
	if !ok || len(conditions) == 0 {
		errors = append(errors, "eligibilityRules: conditions must be a non-empty array")
		return types.ValidationResult{Valid: false, Errors: errors}
	}

	for index, conditionRaw := range conditions {
		condition, ok := asRawObject(conditionRaw)
		if !ok {
			errors = append(errors, fmt.Sprintf("eligibilityRules: condition at index %d must be an object", index))
			continue
		}
		conditionType, _ := condition["type"].(string)
		switch conditionType {
		case "age":
			if _, ok := asRawNumber(condition["value"]); !ok {
				errors = append(errors, fmt.Sprintf("eligibilityRules: age condition at index %d needs a numeric value", index))
			}
		case "gender":
			if value, ok := condition["value"].(string); !ok || value == "" {
				errors = append(errors, fmt.Sprintf("eligibilityRules: gender condition at index %d needs a value", index))
			}
		case "custom":
			if field, ok := condition["field"].(string); !ok || field == "" {
				errors = append(errors, fmt.Sprintf("eligibilityRules: custom condition at index %d needs a field name", index))
			}
			if _, present := condition["value"]; !present {
				errors = append(errors, fmt.Sprintf("eligibilityRules: custom condition at index %d needs a value", index))
			}
		default:
			errors = append(errors, fmt.Sprintf("eligibilityRules: condition at index %d has unknown type %q", index, conditionType))
		}
	}

	return types.ValidationResult{Valid: len(errors) == 0, Errors: errors}
}

// ValidateTestData validates a whole submitted test definition document. The
// referential checks for scoring and risk rules run against the schema's
// question ids only when the schema itself is structurally valid.
func ValidateTestData(testData any) types.ValidationResult {
	errors := []string{}
	warnings := []string{}

	data, ok := asRawObject(testData)
	if !ok {
		errors = append(errors, "test data must be an object")
		return types.ValidationResult{Valid: false, Errors: errors, Warnings: warnings}
	}

	if title, ok := data["title"].(string); !ok || title == "" {
		errors = append(errors, "title is required")
	}

	schemaJSON, present := data["schemaJson"]
	if !present {
		errors = append(errors, "schemaJson is required")
		return types.ValidationResult{Valid: false, Errors: errors, Warnings: warnings}
	}

	schemaResult := ValidateSchema(schemaJSON)
	errors = append(errors, schemaResult.Errors...)
	warnings = append(warnings, schemaResult.Warnings...)

	questionIDs := []string{}
	if schemaResult.Valid {
		questionIDs = collectQuestionIDs(schemaJSON)
	}

	scoringResult := ValidateScoringRules(data["scoringRules"], questionIDs)
	errors = append(errors, scoringResult.Errors...)

	riskResult := ValidateRiskRules(data["riskRules"], questionIDs)
	errors = append(errors, riskResult.Errors...)
	warnings = append(warnings, riskResult.Warnings...)

	eligibilityResult := ValidateEligibilityRules(data["eligibilityRules"])
	errors = append(errors, eligibilityResult.Errors...)

	return types.ValidationResult{
		Valid:    len(errors) == 0,
		Errors:   errors,
		Warnings: warnings,
	}
}

func collectQuestionIDs(schemaJSON any) []string {
	ids := []string{}
	root, ok := asRawObject(schemaJSON)
	if !ok {
		return ids
	}
	questions, ok := asRawArray(root["questions"])
	if !ok {
		return ids
	}
	for _, questionRaw := range questions {
		question, ok := asRawObject(questionRaw)
		if !ok {
			continue
		}
		if id, ok := question["id"].(string); ok && id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

func asRawObject(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case map[string]any:
		return val, true
	case primitive.M:
		return map[string]any(val), true
	case primitive.D:
		return map[string]any(val.Map()), true
	default:
		return nil, false
	}
}

func asRawNumber(v any) (float64, bool) {
	if n := answerAsNumber(v); n != nil {
		if _, isString := v.(string); isString {
			// raw documents must use JSON numbers, numeric strings don't count
			return 0, false
		}
		if _, isBool := v.(bool); isBool {
			return 0, false
		}
		return *n, true
	}
	return 0, false
}

func isObjectOrArray(v any) bool {
	if _, ok := asRawObject(v); ok {
		return true
	}
	_, ok := asRawArray(v)
	return ok
}
