package models

import "time"

// Run is the Firestore record for one pipeline execution, keyed by the
// triggering event ID.
type Run struct {
	InputBucket    string    `firestore:"inputBucket,omitempty"`
	InputKey       string    `firestore:"inputKey,omitempty"`
	TargetLang     string    `firestore:"targetLang,omitempty"`
	ModelID        string    `firestore:"modelId,omitempty"`
	Status         string    `firestore:"status,omitempty"`
	SummaryKey     string    `firestore:"summaryKey,omitempty"`
	TranslationKey string    `firestore:"translationKey,omitempty"`
	ErrorDetails   string    `firestore:"errorDetails,omitempty"`
	CreatedAt      time.Time `firestore:"createdAt,omitempty"`
	FinishedAt     time.Time `firestore:"finishedAt,omitempty"`
}
