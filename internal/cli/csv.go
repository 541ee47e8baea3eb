package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"vmxio.com/cert-quiz/internal/cms"
)

// contentIDHeader is the first column title the CMS import expects.
const contentIDHeader = "コンテンツID※空欄で構いません。特定の値を設定したい場合に入力してください。"

// importRow is one CSV line of a CMS import. The content id column is
// always left blank so the CMS assigns ids.
type importRow struct {
	Chapter     string
	Text        string
	Choices     []cms.RawChoice
	Answers     []cms.RawAnswer
	Explanation string
}

func writeImportCSV(w io.Writer, rows []importRow, withExplanation bool) error {
	cw := csv.NewWriter(w)
	header := []string{contentIDHeader, "chapter", "text", "choices", "answerId"}
	if withExplanation {
		header = append(header, "explanation")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		choices, err := jsonCell(r.Choices)
		if err != nil {
			return err
		}
		answers, err := jsonCell(r.Answers)
		if err != nil {
			return err
		}
		rec := []string{"", r.Chapter, r.Text, choices, answers}
		if withExplanation {
			rec = append(rec, r.Explanation)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// writeImportFile writes rows to path, creating parent directories.
func writeImportFile(path string, rows []importRow, withExplanation bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeImportCSV(f, rows, withExplanation); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// jsonCell marshals v without HTML escaping, as the CMS import shows it.
func jsonCell(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}
