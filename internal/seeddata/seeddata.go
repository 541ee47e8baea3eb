// Package seeddata holds the built-in question sets and the JSON format
// question files are authored in.
package seeddata

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"

	"vmxio.com/cert-quiz/internal/quiz"
)

//go:embed itf.json seaj.json
var files embed.FS

// ==== JSON input structures ====

type InputChoice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Input struct {
	ID          string        `json:"id"`
	Track       string        `json:"track,omitempty"`
	Chapter     string        `json:"chapter,omitempty"`
	Text        string        `json:"text"`
	Choices     []InputChoice `json:"choices"`
	AnswerIDs   []string      `json:"answerIds"`
	Explanation string        `json:"explanation,omitempty"`
}

// Question converts the input without normalizing it.
func (in Input) Question() quiz.Question {
	q := quiz.Question{
		ID:             in.ID,
		Text:           in.Text,
		Chapter:        in.Chapter,
		Explanation:    in.Explanation,
		Choices:        make([]quiz.Choice, 0, len(in.Choices)),
		CorrectAnswers: append([]string{}, in.AnswerIDs...),
	}
	for _, c := range in.Choices {
		q.Choices = append(q.Choices, quiz.Choice{ID: c.ID, Text: c.Text})
	}
	return q
}

// Builtin returns the embedded question set of a track.
func Builtin(track string) ([]Input, error) {
	raw, err := files.ReadFile(track + ".json")
	if err != nil {
		return nil, fmt.Errorf("no built-in questions for track %q", track)
	}
	return Parse(raw)
}

// Load reads a question file from disk.
func Load(path string) ([]Input, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse accepts either [ ... ] or { "questions": [ ... ] } and rejects
// duplicate question ids.
func Parse(raw []byte) ([]Input, error) {
	var wrapper struct {
		Questions []Input `json:"questions"`
	}
	var arr []Input

	if err := json.Unmarshal(raw, &wrapper); err == nil && len(wrapper.Questions) > 0 {
		arr = wrapper.Questions
	} else if err := json.Unmarshal(raw, &arr); err != nil {
		return nil, fmt.Errorf("json parse: %w", err)
	}

	seen := map[string]bool{}
	dups := []string{}
	for _, q := range arr {
		if q.ID != "" && seen[q.ID] {
			dups = append(dups, q.ID)
		}
		seen[q.ID] = true
	}
	if len(dups) > 0 {
		return nil, fmt.Errorf("duplicate question IDs in JSON: %v", dups)
	}
	return arr, nil
}
