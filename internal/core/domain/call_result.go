package domain

import "time"

// CallResult records the outcome of one call held for a case. Append-only:
// created once, never mutated or deleted.
type CallResult struct {
	ID        string    `json:"id" bson:"_id,omitempty"`
	CaseID    string    `json:"case_id" bson:"case_id"`
	Summary   string    `json:"summary" bson:"summary"`
	Outcome   string    `json:"outcome,omitempty" bson:"outcome,omitempty"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
