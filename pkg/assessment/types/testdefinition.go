package types

import "go.mongodb.org/mongo-driver/bson/primitive"

type TestDefinition struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title      string             `bson:"title" json:"title"`
	Category   string             `bson:"category,omitempty" json:"category,omitempty"`
	SchemaJSON TestSchema         `bson:"schemaJson" json:"schemaJson"`

	ScoringRules     *ScoringRules `bson:"scoringRules,omitempty" json:"scoringRules,omitempty"`
	RiskRules        *RiskRules    `bson:"riskRules,omitempty" json:"riskRules,omitempty"`
	EligibilityRules any           `bson:"eligibilityRules,omitempty" json:"eligibilityRules,omitempty"`

	Price float64 `bson:"price,omitempty" json:"price,omitempty"`

	// Archiving is a soft delete: isActive is set to false, the document is
	// never physically removed.
	IsActive  bool  `bson:"isActive" json:"isActive"`
	CreatedAt int64 `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
	UpdatedAt int64 `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

func (t TestDefinition) QuestionIDs() []string {
	ids := make([]string, 0, len(t.SchemaJSON.Questions))
	for _, q := range t.SchemaJSON.Questions {
		if q.ID != "" {
			ids = append(ids, q.ID)
		}
	}
	return ids
}
