package types

const (
	SCORING_TYPE_SUM          = "sum"
	SCORING_TYPE_WEIGHTED_SUM = "weighted_sum"
)

type ScoringRules struct {
	Type    string             `bson:"type" json:"type"`
	Items   []string           `bson:"items" json:"items"`
	Weights map[string]float64 `bson:"weights,omitempty" json:"weights,omitempty"`
	Bands   []ScoreBand        `bson:"bands" json:"bands"`
}

// ScoreBand is a labelled score range. Bands may overlap or leave gaps,
// the first band matching the total (in declared order) wins.
type ScoreBand struct {
	Min   float64 `bson:"min" json:"min"`
	Max   float64 `bson:"max" json:"max"`
	Label string  `bson:"label" json:"label"`
}

type RiskRules struct {
	Triggers []RiskTrigger `bson:"triggers" json:"triggers"`
	HelpText string        `bson:"helpText,omitempty" json:"helpText,omitempty"`
}

// RiskTrigger fires when the referenced answer matches. Only equals and gte
// are supported for triggers, a trigger with neither set never fires.
type RiskTrigger struct {
	QuestionID string `bson:"questionId" json:"questionId"`
	Equals     any    `bson:"equals,omitempty" json:"equals,omitempty"`
	Gte        any    `bson:"gte,omitempty" json:"gte,omitempty"`
	Flag       string `bson:"flag,omitempty" json:"flag,omitempty"`
	HelpText   string `bson:"helpText,omitempty" json:"helpText,omitempty"`
}
