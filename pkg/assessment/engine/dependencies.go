package engine

import (
	"github.com/wttaideveloper/MentalHealth-sub002/pkg/assessment/types"
)

// ShowIfDependencies collects every question id referenced anywhere inside a
// showIf rule, deduplicated, in first-seen order.
func ShowIfDependencies(raw any) []string {
	deps := []string{}
	seen := map[string]bool{}
	collectDependencies(ParseShowIf(raw), seen, &deps)
	return deps
}

func collectDependencies(node *ShowIfNode, seen map[string]bool, deps *[]string) {
	if node == nil {
		return
	}
	if node.kind == showIfCondition {
		id := node.cond.QuestionID
		if id != "" && !seen[id] {
			seen[id] = true
			*deps = append(*deps, id)
		}
		return
	}
	for _, child := range node.children {
		collectDependencies(child, seen, deps)
	}
}

// QuestionDependencies returns the set of other question ids the question's
// visibility depends on.
func QuestionDependencies(question types.Question) []string {
	return ShowIfDependencies(question.ShowIf)
}

// BuildDependencyGraph derives the visibility dependency graph of a question
// sequence: one entry per question with a non-empty id. The graph is
// recomputed on demand and never persisted.
func BuildDependencyGraph(questions []types.Question) map[string][]string {
	graph := map[string][]string{}
	for _, question := range questions {
		if question.ID == "" {
			continue
		}
		graph[question.ID] = QuestionDependencies(question)
	}
	return graph
}
