package utils

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
)

// SentenceSet is one ordered, themed list of sentences to type.
type SentenceSet struct {
	Name      string
	Sentences []string
}

//go:embed sentences.csv
var defaultSentencesCSV string

// ReadSentenceSets parses "set,sentence" records. Sets keep the order in
// which they first appear and sentences keep their file order.
func ReadSentenceSets(r io.Reader) ([]SentenceSet, error) {
	csvReader := csv.NewReader(r)
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse sentence csv: %w", err)
	}

	var sets []SentenceSet
	index := make(map[string]int)

	for _, record := range records {
		if len(record) < 2 {
			log.Warn().Strs("record", record).Msg("skipping invalid sentence record")
			continue
		}
		name := strings.TrimSpace(record[0])
		sentence := strings.TrimSpace(record[1])
		if name == "" || sentence == "" {
			log.Warn().Strs("record", record).Msg("skipping empty sentence record")
			continue
		}

		i, ok := index[name]
		if !ok {
			i = len(sets)
			index[name] = i
			sets = append(sets, SentenceSet{Name: name})
		}
		sets[i].Sentences = append(sets[i].Sentences, sentence)
	}

	return sets, nil
}

// DefaultSentenceSets returns the embedded corpus.
func DefaultSentenceSets() []SentenceSet {
	sets, err := ReadSentenceSets(strings.NewReader(defaultSentencesCSV))
	if err != nil {
		// The embedded file is part of the build.
		panic(err)
	}
	return sets
}
