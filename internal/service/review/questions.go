package review

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/toriigate/torii-api/internal/domain"
	"github.com/toriigate/torii-api/internal/domain/srs"
	"github.com/toriigate/torii-api/internal/kana"
	"github.com/toriigate/torii-api/internal/store"
)

// QuestionType distinguishes the two sub-questions an item can pose.
type QuestionType string

const (
	QuestionMeaning QuestionType = "meaning"
	QuestionReading QuestionType = "reading"
)

// IsValid checks whether the question type is one of the defined values.
func (t QuestionType) IsValid() bool {
	return t == QuestionMeaning || t == QuestionReading
}

// Question is one reviewable prompt. A due item expands into one or two
// of these depending on whether it has a reading worth asking.
type Question struct {
	ProgressID     uuid.UUID       `json:"progressId"`
	ItemID         uuid.UUID       `json:"itemId"`
	ItemKind       domain.ItemKind `json:"itemKind"`
	Level          int             `json:"level"`
	Glyph          string          `json:"glyph"`
	PrimaryMeaning string          `json:"primaryMeaning"`
	Meanings       []string        `json:"meanings"`
	Readings       []string        `json:"readings"`
	Stage          int             `json:"stage"`
	StageName      string          `json:"stageName"`
	Type           QuestionType    `json:"questionType"`
}

// AsksReading reports whether the item should pose a reading question.
// Words written entirely in kana already display their reading, so only
// their meaning is asked.
func AsksReading(item domain.Item) bool {
	if len(item.Readings) == 0 {
		return false
	}
	if item.Kind == domain.ItemKindWord && !kana.ContainsKanji(item.Glyph) {
		return false
	}
	return true
}

// ExpandQuestions turns due items into a flat, shuffled question list.
// If rng is nil the shared source is used; tests pass a seeded one.
func ExpandQuestions(reviews []store.DueReview, rng *rand.Rand) []Question {
	questions := make([]Question, 0, len(reviews)*2)
	for _, r := range reviews {
		base := Question{
			ProgressID:     r.Progress.ID,
			ItemID:         r.Item.ID,
			ItemKind:       r.Item.Kind,
			Level:          r.Level,
			Glyph:          r.Item.Glyph,
			PrimaryMeaning: r.Item.PrimaryMeaning,
			Meanings:       r.Item.Meanings,
			Readings:       r.Item.Readings,
			Stage:          r.Progress.Stage,
			StageName:      srs.StageName(r.Progress.Stage),
		}

		meaning := base
		meaning.Type = QuestionMeaning
		questions = append(questions, meaning)

		if AsksReading(r.Item) {
			reading := base
			reading.Type = QuestionReading
			questions = append(questions, reading)
		}
	}

	swap := func(i, j int) {
		questions[i], questions[j] = questions[j], questions[i]
	}
	if rng != nil {
		rng.Shuffle(len(questions), swap)
	} else {
		rand.Shuffle(len(questions), swap)
	}
	return questions
}
