package stats

import (
	"sort"

	"github.com/verte-zerg/inkbound/internal/model"
)

// MinWeakSamples is the number of presses a character needs before it can be weak.
const MinWeakSamples = 3

// slownessWeight scales how much latency above the mean counts against a character.
const slownessWeight = 0.5

// SelectWeakChars picks the characters with the highest weakness: error rate plus
// a penalty for latency above the average across all characters. Spaces and rarely
// typed characters are skipped. A non-positive top keeps every candidate.
func SelectWeakChars(aggs []model.CharAggregate, top int) map[rune]struct{} {
	weakSet := map[rune]struct{}{}
	mean := meanLatency(aggs)
	type scored struct {
		r     rune
		score float64
	}
	var candidates []scored
	for _, agg := range aggs {
		runes := []rune(agg.Char)
		if len(runes) == 0 || runes[0] == ' ' || agg.Correct+agg.Incorrect < MinWeakSamples {
			continue
		}
		candidates = append(candidates, scored{r: runes[0], score: weakness(agg, mean)})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score == candidates[j].score {
			return candidates[i].r < candidates[j].r
		}
		return candidates[i].score > candidates[j].score
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	for _, c := range candidates[:top] {
		weakSet[c.r] = struct{}{}
	}
	return weakSet
}

func weakness(agg model.CharAggregate, mean float64) float64 {
	score := 1 - accuracy(agg)
	if mean > 0 && agg.LatencyCount > 0 {
		avg := float64(agg.LatencySumMs) / float64(agg.LatencyCount)
		if slow := avg/mean - 1; slow > 0 {
			score += slow * slownessWeight
		}
	}
	return score
}

func meanLatency(aggs []model.CharAggregate) float64 {
	var sum, count int64
	for _, agg := range aggs {
		sum += agg.LatencySumMs
		count += agg.LatencyCount
	}
	if count == 0 {
		return 0
	}
	return float64(sum) / float64(count)
}

func accuracy(agg model.CharAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
