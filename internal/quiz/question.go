package quiz

import (
	"sort"
	"strings"
)

// Choice is one selectable option of a question.
type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// Question is a prompt with its choices and accepted answers.
// Values returned by Normalize have lowercase, deduplicated, id-ordered
// choices and answers.
type Question struct {
	ID             string   `json:"id"`
	Text           string   `json:"text"`
	Choices        []Choice `json:"choices"`
	CorrectAnswers []string `json:"correctAnswers"`
	Explanation    string   `json:"explanation,omitempty"`
	Chapter        string   `json:"chapter,omitempty"`
}

// IsMulti reports whether the question uses multi-select semantics.
func (q Question) IsMulti() bool {
	return len(q.CorrectAnswers) > 1
}

// HasChoice reports whether id names one of the question's choices.
func (q Question) HasChoice(id string) bool {
	id = NormalizeID(id)
	for _, c := range q.Choices {
		if c.ID == id {
			return true
		}
	}
	return false
}

// NormalizeID normalizes choice ids like " A " to "a".
func NormalizeID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// NormalizeIDs lowercases ids, drops empty ones, removes duplicates and
// sorts the result.
func NormalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = NormalizeID(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Normalize returns q with normalized choice and answer ids.
// Choices sharing an id after lowercasing keep the first occurrence.
// Answer ids that match no choice are removed and returned in dropped so
// the caller can warn whoever maintains the content.
func Normalize(q Question) (out Question, dropped []string) {
	out = q

	seen := make(map[string]struct{}, len(q.Choices))
	choices := make([]Choice, 0, len(q.Choices))
	for _, c := range q.Choices {
		c.ID = NormalizeID(c.ID)
		if c.ID == "" {
			continue
		}
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		choices = append(choices, c)
	}
	sort.SliceStable(choices, func(i, j int) bool { return choices[i].ID < choices[j].ID })
	out.Choices = choices

	answers := make([]string, 0, len(q.CorrectAnswers))
	for _, id := range NormalizeIDs(q.CorrectAnswers) {
		if _, ok := seen[id]; !ok {
			dropped = append(dropped, id)
			continue
		}
		answers = append(answers, id)
	}
	out.CorrectAnswers = answers

	return out, dropped
}
