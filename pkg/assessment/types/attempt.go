package types

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	ATTEMPT_STATUS_IN_PROGRESS = "in_progress"
	ATTEMPT_STATUS_SUBMITTED   = "submitted"
	ATTEMPT_STATUS_EXPIRED     = "expired"
)

type TestAttempt struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	UserID      string             `bson:"userId" json:"userId"`
	TestID      string             `bson:"testId" json:"testId"`
	Status      string             `bson:"status" json:"status"`
	Answers     Answers            `bson:"answers,omitempty" json:"answers,omitempty"`
	StartedAt   int64              `bson:"startedAt" json:"startedAt"`
	SubmittedAt int64              `bson:"submittedAt,omitempty" json:"submittedAt,omitempty"`
	Result      *AttemptResult     `bson:"result,omitempty" json:"result,omitempty"`
}

// AttemptResult is the persisted outcome of a submitted attempt: the score
// with its band and the triggered risk flags.
type AttemptResult struct {
	Total    float64         `bson:"total" json:"total"`
	Band     *ScoreBand      `bson:"band,omitempty" json:"band,omitempty"`
	HasRisk  bool            `bson:"hasRisk" json:"hasRisk"`
	Flags    map[string]bool `bson:"flags,omitempty" json:"flags,omitempty"`
	HelpText string          `bson:"helpText,omitempty" json:"helpText,omitempty"`
}
