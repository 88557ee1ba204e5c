package models

// Fixed interview shape. These are configuration constants of the
// product, not per-session knobs.
const (
	// TechnicalQuestionsPerSession is how many technical questions are
	// sampled from the pool at session creation.
	TechnicalQuestionsPerSession = 2

	// IntroFollowUpsPerSession is how many contextual follow-ups are
	// asked after the opening "tell me about yourself".
	IntroFollowUpsPerSession = 2

	// MaxFollowUpsPerQuestion is the hard ceiling of follow-ups per
	// technical question. The verification probe after a successful
	// hint consumes one of these slots too.
	MaxFollowUpsPerQuestion = 3

	// IntroPrompt opens every interview.
	IntroPrompt = "Let's get started. Tell me about yourself."
)

// semantic types for conversation memory entries
const (
	MemoryIntroQuestion    = "introduction_question"
	MemoryIntroAnswer      = "introduction_answer"
	MemoryMainQuestion     = "main_question"
	MemoryMainAnswer       = "main_answer"
	MemoryEvaluation       = "evaluation"
	MemoryFollowUpQuestion = "follow_up_question"
	MemoryFollowUpAnswer   = "follow_up_answer"
)
