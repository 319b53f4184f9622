package engine

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
)

type showIfKind int

const (
	showIfAlways showIfKind = iota
	showIfAnd
	showIfOr
	showIfNot
	showIfCondition
	showIfLiteral
)

// ShowIfNode is the parsed form of a showIf rule. Rules arrive as arbitrary
// JSON shapes, parsing them once into this tagged variant avoids re-deriving
// the shape on every evaluation.
type ShowIfNode struct {
	kind     showIfKind
	children []*ShowIfNode
	cond     *Condition
	literal  bool
}

// ParseShowIf turns a raw showIf value into its evaluable form:
//   - nil: always visible
//   - array: OR over the elements
//   - object with "and"/"or" array: conjunction / disjunction
//   - object with "not": negation
//   - any other object: atomic condition
//   - any other value: boolean cast
func ParseShowIf(raw any) *ShowIfNode {
	switch v := raw.(type) {
	case nil:
		return &ShowIfNode{kind: showIfAlways}
	case []any:
		return parseSequence(v)
	case primitive.A:
		return parseSequence([]any(v))
	case map[string]any:
		return parseComposite(v)
	case primitive.M:
		return parseComposite(map[string]any(v))
	case primitive.D:
		return parseComposite(map[string]any(v.Map()))
	default:
		return &ShowIfNode{kind: showIfLiteral, literal: asTruthy(v)}
	}
}

// A bare sequence of conditions is semantically an OR.
func parseSequence(items []any) *ShowIfNode {
	node := &ShowIfNode{kind: showIfOr}
	for _, item := range items {
		node.children = append(node.children, ParseShowIf(item))
	}
	return node
}

func parseComposite(obj map[string]any) *ShowIfNode {
	if members, ok := asRawArray(obj["and"]); ok {
		node := &ShowIfNode{kind: showIfAnd}
		for _, member := range members {
			node.children = append(node.children, ParseShowIf(member))
		}
		return node
	}
	if members, ok := asRawArray(obj["or"]); ok {
		node := &ShowIfNode{kind: showIfOr}
		for _, member := range members {
			node.children = append(node.children, ParseShowIf(member))
		}
		return node
	}
	if inner, ok := obj["not"]; ok {
		return &ShowIfNode{kind: showIfNot, children: []*ShowIfNode{ParseShowIf(inner)}}
	}
	return &ShowIfNode{kind: showIfCondition, cond: parseCondition(obj)}
}

// Eval computes the visibility boolean for the parsed rule. An empty AND is
// vacuously true, an empty OR is false.
func (n *ShowIfNode) Eval(answers types.Answers) bool {
	if n == nil {
		return true
	}
	switch n.kind {
	case showIfAlways:
		return true
	case showIfAnd:
		for _, child := range n.children {
			if !child.Eval(answers) {
				return false
			}
		}
		return true
	case showIfOr:
		for _, child := range n.children {
			if child.Eval(answers) {
				return true
			}
		}
		return false
	case showIfNot:
		return !n.children[0].Eval(answers)
	case showIfCondition:
		return EvalCondition(n.cond, answers)
	default:
		return n.literal
	}
}

// EvalShowIf evaluates a raw showIf rule against the current answers. Absent
// rules mean the question is always visible.
func EvalShowIf(raw any, answers types.Answers) bool {
	return ParseShowIf(raw).Eval(answers)
}

// IsQuestionVisible reports whether the question should be shown given the
// current (possibly partial) answers.
func IsQuestionVisible(question types.Question, answers types.Answers) bool {
	return EvalShowIf(question.ShowIf, answers)
}

// VisibleQuestions filters the question sequence by visibility, preserving
// the original order.
func VisibleQuestions(questions []types.Question, answers types.Answers) []types.Question {
	visible := []types.Question{}
	for _, question := range questions {
		if IsQuestionVisible(question, answers) {
			visible = append(visible, question)
		}
	}
	return visible
}

func asRawArray(v any) ([]any, bool) {
	switch val := v.(type) {
	case []any:
		return val, true
	case primitive.A:
		return []any(val), true
	default:
		return nil, false
	}
}
