package dataset

import (
	"sort"

	"github.com/dtnitsch/vocab-reducer/models"
)

// GroupedExamples maps a wordid to its examples in input order.
type GroupedExamples struct {
	groups map[models.WordID][]models.ExampleEntry
}

// GroupExamples builds the wordid grouping in one pass over examples.
func GroupExamples(examples []models.ExampleEntry) *GroupedExamples {
	g := &GroupedExamples{groups: make(map[models.WordID][]models.ExampleEntry)}
	for _, e := range examples {
		g.groups[e.WordID] = append(g.groups[e.WordID], e)
	}
	return g
}

// Get returns the examples for id, or nil when it has none.
func (g *GroupedExamples) Get(id models.WordID) []models.ExampleEntry {
	return g.groups[id]
}

// AttachExamples attaches each entry's group and keeps only entries with at
// least one example. Input order is preserved.
func AttachExamples(vocab []models.VocabularyEntry, groups *GroupedExamples) []models.VocabularyEntry {
	kept := make([]models.VocabularyEntry, 0, len(vocab))
	for _, v := range vocab {
		v.Examples = groups.Get(v.WordID)
		if len(v.Examples) > 0 {
			kept = append(kept, v)
		}
	}
	return kept
}

// RankByFrequency sorts in place by frequency, highest first.
// Equal frequencies keep their relative order.
func RankByFrequency(vocab []models.VocabularyEntry) {
	sort.SliceStable(vocab, func(i, j int) bool {
		return vocab[i].Frequency > vocab[j].Frequency
	})
}

// Truncate keeps at most limit entries.
func Truncate(vocab []models.VocabularyEntry, limit int) []models.VocabularyEntry {
	if limit < 0 {
		limit = 0
	}
	if len(vocab) > limit {
		return vocab[:limit]
	}
	return vocab
}

// SelectExamples filters the input example sequence down to the ids in kept.
func SelectExamples(examples []models.ExampleEntry, kept []models.VocabularyEntry) []models.ExampleEntry {
	ids := make(map[models.WordID]struct{}, len(kept))
	for _, v := range kept {
		ids[v.WordID] = struct{}{}
	}

	selected := make([]models.ExampleEntry, 0)
	for _, e := range examples {
		if _, ok := ids[e.WordID]; ok {
			selected = append(selected, e)
		}
	}
	return selected
}

// DetachExamples clears the transient examples before emission.
func DetachExamples(vocab []models.VocabularyEntry) {
	for i := range vocab {
		vocab[i].Examples = nil
	}
}

// Stats holds the record counts reported at each stage.
type Stats struct {
	VocabularyCount  int
	ExampleCount     int
	WithExamples     int
	Kept             int
	SelectedExamples int
}

// Result is the outcome of a reduction.
type Result struct {
	Vocabulary []models.VocabularyEntry
	Examples   []models.ExampleEntry
	Stats      Stats
}

// Reduce runs join, filter, rank, truncate and projection over the loaded inputs.
// vocab is not modified; the returned entries carry no examples.
func Reduce(vocab []models.VocabularyEntry, examples []models.ExampleEntry, limit int) Result {
	stats := Stats{
		VocabularyCount: len(vocab),
		ExampleCount:    len(examples),
	}

	filtered := AttachExamples(vocab, GroupExamples(examples))
	stats.WithExamples = len(filtered)

	RankByFrequency(filtered)
	kept := Truncate(filtered, limit)
	stats.Kept = len(kept)

	selected := SelectExamples(examples, kept)
	stats.SelectedExamples = len(selected)

	DetachExamples(kept)

	return Result{
		Vocabulary: kept,
		Examples:   selected,
		Stats:      stats,
	}
}
