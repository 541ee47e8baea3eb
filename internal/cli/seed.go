package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"vmxio.com/cert-quiz/internal/cms"
	"vmxio.com/cert-quiz/internal/content"
	"vmxio.com/cert-quiz/internal/quiz"
	"vmxio.com/cert-quiz/internal/seeddata"
)

var seedLog = log.New(os.Stderr, "[seed] ", log.LstdFlags)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create or update a track's questions in the CMS and publish them",
	RunE: func(cmd *cobra.Command, args []string) error {
		trackKey, _ := cmd.Flags().GetString("track")
		file, _ := cmd.Flags().GetString("file")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		noPublish, _ := cmd.Flags().GetBool("no-publish")

		track, err := content.LookupTrack(trackKey)
		if err != nil {
			return fmt.Errorf("%w: %q", err, trackKey)
		}
		inputs, err := loadInputs(track, file)
		if err != nil {
			return err
		}

		var client *cms.Client
		if !dryRun {
			if client, err = newClient(); err != nil {
				return err
			}
		}
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		opts := seedOptions{DryRun: dryRun, Publish: !noPublish}
		return seedTrack(ctx, client, track, inputs, opts, cmd.OutOrStdout())
	},
}

func init() {
	seedCmd.Flags().String("track", "", "track key (itf or seaj)")
	seedCmd.Flags().String("file", "", "question JSON file (default: built-in set)")
	seedCmd.Flags().Bool("dry-run", false, "print what would be written without calling the CMS")
	seedCmd.Flags().Bool("no-publish", false, "leave written contents as drafts")
	_ = seedCmd.MarkFlagRequired("track")
}

// loadInputs reads file when given, else the track's built-in set.
func loadInputs(track content.Track, file string) ([]seeddata.Input, error) {
	if file != "" {
		in, err := seeddata.Load(file)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", file, err)
		}
		return in, nil
	}
	return seeddata.Builtin(track.Key)
}

type seedOptions struct {
	DryRun  bool
	Publish bool
}

// seedTrack upserts every input into the track endpoint. A failed
// question is logged and counted; the others still go through.
func seedTrack(ctx context.Context, client *cms.Client, track content.Track, inputs []seeddata.Input, opts seedOptions, out io.Writer) error {
	fmt.Fprintf(out, "Total: %d\n", len(inputs))
	failed := 0
	for _, in := range inputs {
		q, dropped := quiz.Normalize(in.Question())
		if len(dropped) > 0 {
			seedLog.Printf("WARN %s: answer ids %v match no choice; dropped", in.ID, dropped)
		}
		id := contentID(track.Key, in)
		if opts.DryRun {
			fmt.Fprintf(out, "DRY-RUN: %s (%d choices, answers %v)\n", id, len(q.Choices), q.CorrectAnswers)
			continue
		}
		if err := upsert(ctx, client, track.Endpoint, id, content.ToContent(q), opts.Publish, out); err != nil {
			seedLog.Printf("%s: %v", id, err)
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d questions failed", failed, len(inputs))
	}
	fmt.Fprintln(out, "Seed completed")
	return nil
}

func upsert(ctx context.Context, client *cms.Client, endpoint, id string, c cms.Content, publish bool, out io.Writer) error {
	exists, err := client.Exists(ctx, endpoint, id)
	if err != nil {
		return fmt.Errorf("exists: %w", err)
	}
	if exists {
		if err := client.Patch(ctx, endpoint, id, c); err != nil {
			return fmt.Errorf("PATCH: %w", err)
		}
		fmt.Fprintf(out, "UPDATE: %s\n", id)
	} else {
		if err := client.Put(ctx, endpoint, id, c); err != nil {
			return fmt.Errorf("PUT: %w", err)
		}
		fmt.Fprintf(out, "CREATE: %s\n", id)
	}
	if !publish {
		return nil
	}
	if err := client.Publish(ctx, endpoint, id); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	fmt.Fprintf(out, "PUBLISH: %s\n", id)
	return nil
}

// maxContentID is the longest content id the CMS accepts.
const maxContentID = 50

// contentID is stable across runs so a re-seed updates instead of
// duplicating: the question id, else a slug of the text, else a hash of
// the text.
func contentID(track string, in seeddata.Input) string {
	if id := slugify(in.ID); id != "" {
		return id
	}
	if s := slugify(in.Text); s != "" {
		return s
	}
	sum := uuid.NewSHA1(uuid.NameSpaceURL, []byte(track+"/"+in.Text)).String()
	return track + "-" + sum[:8]
}

// slugify keeps ASCII letters, digits, '-' and '_', lowercases them and
// joins runs of anything else with a single '-'.
func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
			dash = false
		case b.Len() > 0 && !dash:
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimRight(b.String(), "-")
	if len(out) > maxContentID {
		out = strings.TrimRight(out[:maxContentID], "-")
	}
	return out
}
