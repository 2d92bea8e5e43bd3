package game

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/typerace-backend/internal/utils"
)

func TestStaticSentencesReturnsWholeSets(t *testing.T) {
	sets := []utils.SentenceSet{
		{Name: "one", Sentences: []string{"a", "b"}},
		{Name: "empty"},
		{Name: "two", Sentences: []string{"c"}},
	}
	provider := NewStaticSentences(sets)

	for i := 0; i < 20; i++ {
		got, err := provider.SentenceSet(context.Background())
		require.NoError(t, err)
		assert.Contains(t, [][]string{{"a", "b"}, {"c"}}, got)
	}
}

func TestStaticSentencesReturnsCopies(t *testing.T) {
	provider := NewStaticSentences([]utils.SentenceSet{{Name: "one", Sentences: []string{"a", "b"}}})

	got, err := provider.SentenceSet(context.Background())
	require.NoError(t, err)
	got[0] = "mutated"

	again, err := provider.SentenceSet(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, again)
}

func TestStaticSentencesEmpty(t *testing.T) {
	_, err := NewStaticSentences(nil).SentenceSet(context.Background())
	assert.ErrorIs(t, err, ErrEmptySentenceSet)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore[string, int]()

	s.Put("a", 1)
	s.Put("b", 2)
	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.ElementsMatch(t, []int{1, 2}, s.Values())

	assert.True(t, s.Delete("a"))
	assert.False(t, s.Delete("a"))
	assert.Equal(t, 1, s.Len())
}
