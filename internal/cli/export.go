package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"vmxio.com/cert-quiz/internal/content"
	"vmxio.com/cert-quiz/internal/quiz"
	"vmxio.com/cert-quiz/internal/seeddata"
)

var exportCmd = &cobra.Command{
	Use:   "export-csv",
	Short: "Write a track's questions as a CMS import CSV",
	RunE: func(cmd *cobra.Command, args []string) error {
		trackKey, _ := cmd.Flags().GetString("track")
		file, _ := cmd.Flags().GetString("file")
		out, _ := cmd.Flags().GetString("out")
		noExplanation, _ := cmd.Flags().GetBool("no-explanation")

		track, err := content.LookupTrack(trackKey)
		if err != nil {
			return fmt.Errorf("%w: %q", err, trackKey)
		}
		inputs, err := loadInputs(track, file)
		if err != nil {
			return err
		}
		if out == "" {
			out = fmt.Sprintf("exports/%s-import.csv", track.Key)
		}
		if err := writeImportFile(out, exportRows(inputs), !noExplanation); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d questions to %s\n", len(inputs), out)
		fmt.Fprintf(cmd.OutOrStdout(), "Upload it from the %s API import screen.\n", track.Endpoint)
		return nil
	},
}

func init() {
	exportCmd.Flags().String("track", "", "track key (itf or seaj)")
	exportCmd.Flags().String("file", "", "question JSON file (default: built-in set)")
	exportCmd.Flags().String("out", "", "output CSV path (default: exports/<track>-import.csv)")
	exportCmd.Flags().Bool("no-explanation", false, "omit the explanation column")
	_ = exportCmd.MarkFlagRequired("track")
}

func exportRows(inputs []seeddata.Input) []importRow {
	rows := make([]importRow, 0, len(inputs))
	for _, in := range inputs {
		q, _ := quiz.Normalize(in.Question())
		c := content.ToContent(q)
		rows = append(rows, importRow{
			Chapter:     c.Chapter,
			Text:        c.Text,
			Choices:     c.Choices,
			Answers:     c.AnswerID,
			Explanation: c.Explanation,
		})
	}
	return rows
}
