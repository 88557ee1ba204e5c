package models

import "time"

// Category describes what kind of probing a question supports.
// Maths questions get adaptive follow-ups; behaviour questions never do.
type Category string

const (
	CategoryMaths     Category = "maths"
	CategoryBehaviour Category = "behaviour"
)

type Difficulty string

const (
	Easy   Difficulty = "Easy"
	Medium Difficulty = "Medium"
	Hard   Difficulty = "Hard"
)

// status describes lifecycle state of a question
// deprecated questions stay fetchable for historical sessions
type Status string

const (
	StatusActive     Status = "active"
	StatusDeprecated Status = "deprecated"
)

// Question is one entry of the interview question pool.
type Question struct {
	ID         string     `json:"id" bson:"id"`
	Text       string     `json:"text" bson:"text"`
	Category   Category   `json:"category" bson:"category"`
	Difficulty Difficulty `json:"difficulty" bson:"difficulty"`
	// Answer is the canonical answer the oracle evaluates against.
	// Never sent to the client.
	Answer string `json:"-" bson:"answer"`

	Status           Status     `json:"status,omitempty" bson:"status"`
	Author           string     `json:"author,omitempty" bson:"author,omitempty"`
	CreatedAt        time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at" bson:"updated_at"`
	DeprecatedAt     *time.Time `json:"deprecated_at,omitempty" bson:"deprecated_at,omitempty"`
	DeprecatedReason string     `json:"deprecated_reason,omitempty" bson:"deprecated_reason,omitempty"`
}
