package types

// Answers maps question ids to the raw submitted value (scalar or a list of
// scalars for multi-select questions). Answers are transient, they are not
// validated against the question types by the evaluation engine.
type Answers map[string]any

type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

type ScoreResult struct {
	Total float64    `json:"total"`
	Band  *ScoreBand `json:"band,omitempty"`
}

type RiskResult struct {
	HasRisk  bool            `json:"hasRisk"`
	Flags    map[string]bool `json:"flags"`
	HelpText string          `json:"helpText,omitempty"`
}

type CycleCheckResult struct {
	HasCycle bool       `json:"hasCycle"`
	Cycles   [][]string `json:"cycles"`
}
