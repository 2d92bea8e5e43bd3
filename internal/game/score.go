package game

import (
	"math"

	"github.com/scythe504/typerace-backend/internal"
)

// CalculatePointsAndAccuracy scores a typing log. Each pair contributes the
// percentage of target positions typed correctly; points is the rounded sum
// over all pairs and accuracy the rounded mean. An empty log scores zero.
func CalculatePointsAndAccuracy(logs []internal.TypingLog) (points int, accuracy int) {
	if len(logs) == 0 {
		return 0, 0
	}

	total := 0.0
	for _, entry := range logs {
		total += sentenceAccuracy(entry.Sentence, entry.Typing)
	}

	return int(math.Round(total)), int(math.Round(total / float64(len(logs))))
}

// sentenceAccuracy compares typed against target rune by rune, only over the
// positions the target covers.
func sentenceAccuracy(target, typed string) float64 {
	want := []rune(target)
	if len(want) == 0 {
		return 0
	}
	got := []rune(typed)

	correct := 0
	for i, r := range want {
		if i < len(got) && got[i] == r {
			correct++
		}
	}
	return float64(correct) / float64(len(want)) * 100
}
