package engine

import (
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
)

// EvalScore computes the total score and its band for a submitted answer set.
// Absent or non-numeric answers count as 0. For weighted_sum each item value
// is multiplied with its weight, defaulting to 1 when no weight is declared.
// The first band containing the total (in declared order) wins.
func EvalScore(scoringRules *types.ScoringRules, answers types.Answers) types.ScoreResult {
	result := types.ScoreResult{}
	if scoringRules == nil {
		return result
	}

	total := 0.0
	for _, questionID := range scoringRules.Items {
		value := answerAsNumber(answers[questionID])
		if value == nil {
			continue
		}
		v := *value
		if scoringRules.Type == types.SCORING_TYPE_WEIGHTED_SUM {
			weight, ok := scoringRules.Weights[questionID]
			if !ok {
				weight = 1
			}
			v = v * weight
		}
		total += v
	}
	result.Total = total

	for i := range scoringRules.Bands {
		band := scoringRules.Bands[i]
		if band.Min <= total && total <= band.Max {
			result.Band = &band
			break
		}
	}
	return result
}

// EvalRisk tests every trigger against the answers and collects the set of
// triggered flags. Setting a flag twice has no extra effect. Triggers support
// equals (strict value match) and gte (numeric cast) only.
func EvalRisk(riskRules *types.RiskRules, answers types.Answers) types.RiskResult {
	result := types.RiskResult{Flags: map[string]bool{}}
	if riskRules == nil {
		return result
	}

	for _, trigger := range riskRules.Triggers {
		answer := answers[trigger.QuestionID]

		fired := false
		if trigger.Equals != nil {
			fired = strictEquals(answer, trigger.Equals)
		} else if trigger.Gte != nil {
			answerNum := answerAsNumber(answer)
			threshold := answerAsNumber(trigger.Gte)
			fired = answerNum != nil && threshold != nil && *answerNum >= *threshold
		}

		if fired {
			flag := trigger.Flag
			if flag == "" {
				flag = "risk"
			}
			result.Flags[flag] = true
		}
	}

	result.HasRisk = len(result.Flags) > 0
	result.HelpText = riskRules.HelpText
	return result
}

// strictEquals compares without the coercions of the equals condition rule:
// matching scalar types only, numbers compared numerically across widths.
func strictEquals(a any, b any) bool {
	if a == nil || b == nil {
		return false
	}
	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	switch b.(type) {
	case string, bool:
		return false
	}
	if isArrayValue(a) || isArrayValue(b) {
		return false
	}
	an := answerAsNumber(a)
	bn := answerAsNumber(b)
	return an != nil && bn != nil && *an == *bn
}
