package engine

import (
	"testing"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
)

func TestEvalScoreSum(t *testing.T) {
	rules := &types.ScoringRules{
		Type:  types.SCORING_TYPE_SUM,
		Items: []string{"q1", "q2"},
		Bands: []types.ScoreBand{
			{Min: 0, Max: 1, Label: "Low"},
			{Min: 2, Max: 4, Label: "High"},
		},
	}

	t.Run("with numeric answers", func(t *testing.T) {
		result := EvalScore(rules, types.Answers{"q1": float64(1), "q2": float64(2)})
		if result.Total != 3 {
			t.Errorf("unexpected total: %f", result.Total)
		}
		if result.Band == nil || result.Band.Label != "High" {
			t.Errorf("unexpected band: %v", result.Band)
		}
	})

	t.Run("with missing and non numeric answers treated as 0", func(t *testing.T) {
		result := EvalScore(rules, types.Answers{"q1": "often"})
		if result.Total != 0 {
			t.Errorf("unexpected total: %f", result.Total)
		}
		if result.Band == nil || result.Band.Label != "Low" {
			t.Errorf("unexpected band: %v", result.Band)
		}
	})

	t.Run("with numeric string answers", func(t *testing.T) {
		result := EvalScore(rules, types.Answers{"q1": "2", "q2": float64(1)})
		if result.Total != 3 {
			t.Errorf("unexpected total: %f", result.Total)
		}
	})

	t.Run("with total outside every band", func(t *testing.T) {
		result := EvalScore(rules, types.Answers{"q1": float64(10)})
		if result.Band != nil {
			t.Errorf("unexpected band: %v", result.Band)
		}
	})

	t.Run("with overlapping bands the first match wins", func(t *testing.T) {
		overlapping := &types.ScoringRules{
			Type:  types.SCORING_TYPE_SUM,
			Items: []string{"q1"},
			Bands: []types.ScoreBand{
				{Min: 0, Max: 5, Label: "First"},
				{Min: 0, Max: 5, Label: "Second"},
			},
		}
		result := EvalScore(overlapping, types.Answers{"q1": float64(3)})
		if result.Band == nil || result.Band.Label != "First" {
			t.Errorf("unexpected band: %v", result.Band)
		}
	})

	t.Run("with nil rules", func(t *testing.T) {
		result := EvalScore(nil, types.Answers{"q1": float64(1)})
		if result.Total != 0 || result.Band != nil {
			t.Errorf("unexpected result: %v", result)
		}
	})
}

func TestEvalScoreWeightedSum(t *testing.T) {
	rules := &types.ScoringRules{
		Type:    types.SCORING_TYPE_WEIGHTED_SUM,
		Items:   []string{"q1", "q2"},
		Weights: map[string]float64{"q1": 2},
		Bands: []types.ScoreBand{
			{Min: 0, Max: 10, Label: "Any"},
		},
	}

	t.Run("with declared and defaulted weights", func(t *testing.T) {
		// q1 weighted 2, q2 defaults to 1
		result := EvalScore(rules, types.Answers{"q1": float64(2), "q2": float64(3)})
		if result.Total != 7 {
			t.Errorf("unexpected total: %f", result.Total)
		}
	})
}

func TestEvalRisk(t *testing.T) {
	rules := &types.RiskRules{
		Triggers: []types.RiskTrigger{
			{QuestionID: "q9", Gte: float64(2), Flag: "suicidal_ideation"},
		},
		HelpText: "Please reach out to the crisis line.",
	}

	t.Run("with answer above threshold", func(t *testing.T) {
		result := EvalRisk(rules, types.Answers{"q9": float64(3)})
		if !result.HasRisk {
			t.Error("should have risk")
		}
		if !result.Flags["suicidal_ideation"] {
			t.Errorf("unexpected flags: %v", result.Flags)
		}
		if result.HelpText != rules.HelpText {
			t.Errorf("unexpected helpText: %s", result.HelpText)
		}
	})

	t.Run("with answer below threshold", func(t *testing.T) {
		result := EvalRisk(rules, types.Answers{"q9": float64(1)})
		if result.HasRisk {
			t.Errorf("unexpected flags: %v", result.Flags)
		}
	})

	t.Run("with equals trigger", func(t *testing.T) {
		equalsRules := &types.RiskRules{
			Triggers: []types.RiskTrigger{
				{QuestionID: "q1", Equals: "yes", Flag: "self_harm"},
			},
		}
		result := EvalRisk(equalsRules, types.Answers{"q1": "yes"})
		if !result.Flags["self_harm"] {
			t.Errorf("unexpected flags: %v", result.Flags)
		}

		// strict match, no case folding or numeric coercion
		result = EvalRisk(equalsRules, types.Answers{"q1": "YES"})
		if result.HasRisk {
			t.Errorf("unexpected flags: %v", result.Flags)
		}
	})

	t.Run("with several triggers on the same flag", func(t *testing.T) {
		sharedFlag := &types.RiskRules{
			Triggers: []types.RiskTrigger{
				{QuestionID: "q1", Gte: float64(1), Flag: "risk"},
				{QuestionID: "q2", Gte: float64(1), Flag: "risk"},
			},
		}
		result := EvalRisk(sharedFlag, types.Answers{"q1": float64(2), "q2": float64(2)})
		if len(result.Flags) != 1 {
			t.Errorf("flag should be set once: %v", result.Flags)
		}
	})

	t.Run("with missing flag name defaulting to risk", func(t *testing.T) {
		unnamed := &types.RiskRules{
			Triggers: []types.RiskTrigger{
				{QuestionID: "q1", Gte: float64(1)},
			},
		}
		result := EvalRisk(unnamed, types.Answers{"q1": float64(1)})
		if !result.Flags["risk"] {
			t.Errorf("unexpected flags: %v", result.Flags)
		}
	})

	t.Run("with trigger without operator", func(t *testing.T) {
		inert := &types.RiskRules{
			Triggers: []types.RiskTrigger{
				{QuestionID: "q1", Flag: "never"},
			},
		}
		result := EvalRisk(inert, types.Answers{"q1": float64(100)})
		if result.HasRisk {
			t.Errorf("unexpected flags: %v", result.Flags)
		}
	})

	t.Run("with nil rules", func(t *testing.T) {
		result := EvalRisk(nil, types.Answers{"q1": float64(1)})
		if result.HasRisk || len(result.Flags) != 0 {
			t.Errorf("unexpected result: %v", result)
		}
	})
}
