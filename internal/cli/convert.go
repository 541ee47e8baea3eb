package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"vmxio.com/cert-quiz/internal/cms"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in.json> <out.csv>",
	Short: "Convert loosely shaped question JSON to a CMS import CSV",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}
		records, ok := data.([]any)
		if !ok {
			records = []any{data}
		}
		rows, err := convertRecords(records)
		if err != nil {
			return err
		}
		if err := writeImportFile(args[1], rows, true); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote: %s\n", args[1])
		return nil
	},
}

const letters = "abcdefghijklmnopqrstuvwxyz"

var (
	chapterKeys     = []string{"chapter", "category", "section"}
	textKeys        = []string{"text", "question", "prompt", "title"}
	choicesKeys     = []string{"choices", "options", "answers", "selections"}
	choiceTextKeys  = []string{"text", "label", "value", "option", "name"}
	answerKeys      = []string{"answerIds", "answerId", "answers", "answer", "correct", "correctAnswer", "solutions", "solution", "indexes", "index"}
	explanationKeys = []string{"explanation", "reason", "commentary", "hint"}
)

func convertRecords(records []any) ([]importRow, error) {
	rows := make([]importRow, 0, len(records))
	for i, r := range records {
		rec, _ := r.(map[string]any)

		texts := choiceTexts(pickFirst(rec, choicesKeys))
		if len(texts) > len(letters) {
			return nil, fmt.Errorf("record %d: %d choices, at most %d supported", i+1, len(texts), len(letters))
		}
		choices := make([]cms.RawChoice, 0, len(texts))
		for j, t := range texts {
			choices = append(choices, cms.RawChoice{FieldID: "choice", SelectID: letters[j : j+1], Text: t})
		}

		var picked []string
		for _, a := range asList(pickFirst(rec, answerKeys)) {
			if l := answerLetter(a, texts); l != "" && !slices.Contains(picked, l) {
				picked = append(picked, l)
			}
		}
		if len(picked) == 0 && len(texts) > 0 {
			picked = []string{"a"}
		}
		answers := make([]cms.RawAnswer, 0, len(picked))
		for _, l := range picked {
			answers = append(answers, cms.RawAnswer{FieldID: "answerId", AnswerID: l})
		}

		rows = append(rows, importRow{
			Chapter:     stringify(pickFirst(rec, chapterKeys)),
			Text:        stringify(pickFirst(rec, textKeys)),
			Choices:     choices,
			Answers:     answers,
			Explanation: stringify(pickFirst(rec, explanationKeys)),
		})
	}
	return rows, nil
}

// pickFirst returns the first key's value that is neither null nor "".
func pickFirst(rec map[string]any, keys []string) any {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil || v == "" {
			continue
		}
		return v
	}
	return nil
}

func asList(v any) []any {
	switch t := v.(type) {
	case nil:
		return nil
	case []any:
		return t
	default:
		return []any{t}
	}
}

func choiceTexts(raw any) []string {
	var out []string
	for _, ch := range asList(raw) {
		if m, ok := ch.(map[string]any); ok {
			if t := pickFirst(m, choiceTextKeys); t != nil {
				out = append(out, stringify(t))
				continue
			}
			b, _ := json.Marshal(m)
			out = append(out, string(b))
			continue
		}
		out = append(out, stringify(ch))
	}
	return out
}

// answerLetter maps one answer of any supported shape to a choice letter:
// a letter, a 1-based digit string, the exact choice text, a 0- or
// 1-based number, or an object carrying id, index or text.
func answerLetter(ans any, texts []string) string {
	n := len(texts)
	switch v := ans.(type) {
	case string:
		s := strings.TrimSpace(v)
		if len(s) == 1 {
			if i := strings.Index(letters[:n], strings.ToLower(s)); i >= 0 {
				return letters[i : i+1]
			}
		}
		if idx, err := strconv.Atoi(s); err == nil && isDigits(s) && idx >= 1 && idx <= n {
			return letters[idx-1 : idx]
		}
		for i, t := range texts {
			if s == t {
				return letters[i : i+1]
			}
		}
	case float64:
		for _, idx := range []int{int(v), int(v) - 1} {
			if idx >= 0 && idx < n {
				return letters[idx : idx+1]
			}
		}
	case map[string]any:
		if id, ok := v["id"].(string); ok {
			return answerLetter(id, texts)
		}
		switch idx := v["index"].(type) {
		case float64, string:
			return answerLetter(idx, texts)
		}
		if t, ok := v["text"].(string); ok {
			return answerLetter(t, texts)
		}
	}
	return ""
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}
