package game

import (
	"sort"

	"github.com/verte-zerg/inkbound/internal/combat"
	"github.com/verte-zerg/inkbound/internal/model"
)

func encounterRecord(runID string, zone int, boss bool, s combat.Summary) model.EncounterRecord {
	rec := model.EncounterRecord{
		ID:             s.EncounterID,
		RunID:          runID,
		StartedAt:      s.StartedAt,
		EndedAt:        s.EndedAt,
		Zone:           zone,
		Enemy:          s.Enemy,
		Boss:           boss,
		Outcome:        s.Outcome.String(),
		Turns:          s.Turns,
		WordsCompleted: s.WordsCompleted,
		WordsClean:     s.WordsClean,
		WordsFailed:    s.WordsFailed,
		MaxCombo:       s.MaxCombo,
		DamageDealt:    s.DamageDealt,
		DamageTaken:    s.DamageTaken,
		Correct:        s.Correct,
		Incorrect:      s.Incorrect,
		TypingMs:       s.TypingTime.Milliseconds(),
	}
	chars := make([]string, 0, len(s.Chars))
	for ch := range s.Chars {
		chars = append(chars, ch)
	}
	sort.Strings(chars)
	for _, ch := range chars {
		t := s.Chars[ch]
		rec.Chars = append(rec.Chars, model.CharStats{
			Char:         ch,
			Correct:      t.Correct,
			Incorrect:    t.Incorrect,
			LatencySumMs: t.Latency.Milliseconds(),
			LatencyCount: int64(t.Samples),
		})
	}
	return rec
}
