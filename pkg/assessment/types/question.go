package types

const (
	QUESTION_TYPE_RADIO    = "radio"
	QUESTION_TYPE_CHECKBOX = "checkbox"
	QUESTION_TYPE_TEXT     = "text"
	QUESTION_TYPE_TEXTAREA = "textarea"
	QUESTION_TYPE_NUMERIC  = "numeric"
	QUESTION_TYPE_BOOLEAN  = "boolean"
	QUESTION_TYPE_LIKERT   = "likert"
)

type Option struct {
	Value any    `bson:"value" json:"value"`
	Label string `bson:"label" json:"label"`
}

type Question struct {
	ID         string   `bson:"id" json:"id"`
	Text       string   `bson:"text" json:"text"`
	Type       string   `bson:"type" json:"type"`
	Options    []Option `bson:"options,omitempty" json:"options,omitempty"`
	Min        *float64 `bson:"min,omitempty" json:"min,omitempty"`
	Max        *float64 `bson:"max,omitempty" json:"max,omitempty"`
	Step       *float64 `bson:"step,omitempty" json:"step,omitempty"`
	MaxLength  *int     `bson:"maxLength,omitempty" json:"maxLength,omitempty"`
	Rows       *int     `bson:"rows,omitempty" json:"rows,omitempty"`
	Required   bool     `bson:"required,omitempty" json:"required,omitempty"`
	IsCritical bool     `bson:"isCritical,omitempty" json:"isCritical,omitempty"`
	HelpText   string   `bson:"helpText,omitempty" json:"helpText,omitempty"`
	Order      *float64 `bson:"order,omitempty" json:"order,omitempty"`

	// Visibility rule, either a single condition object, an and/or/not
	// composite or an array of conditions (treated as OR).
	ShowIf any `bson:"showIf,omitempty" json:"showIf,omitempty"`
}

type TestSchema struct {
	Questions []Question `bson:"questions" json:"questions"`
}
