package store

import (
	"context"
)

// TrackStats aggregates a learner's sittings on one track.
type TrackStats struct {
	Track    string   `json:"track"`
	Sittings int64    `json:"sittings"`
	Answered int64    `json:"answered"`
	Correct  int64    `json:"correct"`
	Accuracy *float64 `json:"accuracy,omitempty"` // percent
}

func (s *Sittings) Stats(ctx context.Context, learnerID uint) ([]TrackStats, error) {
	type row struct {
		Track    string
		Sittings int64
		Answered int64
		Correct  int64
	}
	var rows []row
	if err := s.db.WithContext(ctx).
		Table("sittings").
		Select("track, COUNT(*) as sittings, COALESCE(SUM(answered), 0) as answered, COALESCE(SUM(correct), 0) as correct").
		Where("learner_id = ?", learnerID).
		Group("track").
		Order("track").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]TrackStats, 0, len(rows))
	for _, r := range rows {
		ts := TrackStats{Track: r.Track, Sittings: r.Sittings, Answered: r.Answered, Correct: r.Correct}
		if r.Answered > 0 {
			acc := float64(r.Correct) * 100.0 / float64(r.Answered)
			ts.Accuracy = &acc
		}
		out = append(out, ts)
	}
	return out, nil
}
