package weather

import (
	"regexp"
	"strings"
)

// Classifier decides whether a message is a weather question and extracts
// its place, day and umbrella sub-intent. Implementations must be pure so
// the orchestrator can call them without side effects; keeping this behind
// an interface lets a smarter classifier replace the keyword one later.
type Classifier interface {
	Classify(message string) Intent
}

var (
	keywordPattern = regexp.MustCompile(`(?i)\b(clima|tiempo|temperatura|llover|lluvia|paraguas|soleado|nublado)\b`)
	placePattern   = regexp.MustCompile(`(?i)\b(?:el clima en|el tiempo en|en|para|de)\s+([^\s,.!?¿¡]+(?:\s+[^\s,.!?¿¡]+)*)`)
	tomorrowRe     = regexp.MustCompile(`(?i)mañana|pasado mañana|día siguiente|tomorrow`)
)

// KeywordClassifier matches a fixed Spanish keyword set and a prepositional
// place pattern. The place is captured from the original message so city
// names keep their casing.
type KeywordClassifier struct {
	defaultPlace string
}

// NewKeywordClassifier builds the classifier with the fallback city used
// when the message names no place.
func NewKeywordClassifier(defaultPlace string) *KeywordClassifier {
	return &KeywordClassifier{defaultPlace: defaultPlace}
}

// Classify implements Classifier.
func (c *KeywordClassifier) Classify(message string) Intent {
	if !keywordPattern.MatchString(message) {
		return Intent{}
	}

	place := c.defaultPlace
	if matches := placePattern.FindStringSubmatch(message); len(matches) > 1 {
		if captured := strings.TrimSpace(matches[1]); captured != "" {
			place = captured
		}
	}

	return Intent{
		IsWeather: true,
		Place:     place,
		Tomorrow:  tomorrowRe.MatchString(message),
		Umbrella:  strings.Contains(strings.ToLower(message), "paraguas"),
	}
}

var _ Classifier = (*KeywordClassifier)(nil)
