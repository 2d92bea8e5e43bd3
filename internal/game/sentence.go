package game

import (
	"context"
	"errors"
	"math/rand/v2"

	"github.com/scythe504/typerace-backend/internal/utils"
)

var ErrEmptySentenceSet = errors.New("sentence provider returned no sentences")

// SentenceProvider returns one ordered set of sentences for a new match.
type SentenceProvider interface {
	SentenceSet(ctx context.Context) ([]string, error)
}

// StaticSentences picks uniformly among in-memory sets.
type StaticSentences struct {
	sets [][]string
}

func NewStaticSentences(sets []utils.SentenceSet) *StaticSentences {
	s := &StaticSentences{}
	for _, set := range sets {
		if len(set.Sentences) > 0 {
			s.sets = append(s.sets, set.Sentences)
		}
	}
	return s
}

// DefaultSentences serves the embedded corpus.
func DefaultSentences() *StaticSentences {
	return NewStaticSentences(utils.DefaultSentenceSets())
}

func (s *StaticSentences) SentenceSet(ctx context.Context) ([]string, error) {
	if len(s.sets) == 0 {
		return nil, ErrEmptySentenceSet
	}
	chosen := s.sets[rand.IntN(len(s.sets))]
	// Rooms own their copy.
	out := make([]string, len(chosen))
	copy(out, chosen)
	return out, nil
}
