package quiz

import "time"

type QuestionType string

const (
	TypeMCQ            QuestionType = "mcq"
	TypeShortAnswer    QuestionType = "short-answer"
	TypeTrueFalse      QuestionType = "true-false"
	TypeMultipleSelect QuestionType = "multiple-select"
	TypeMixed          QuestionType = "mixed"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

type QuizStatus string

const (
	QuizDraft     QuizStatus = "draft"
	QuizPublished QuizStatus = "published"
	QuizArchived  QuizStatus = "archived"
)

type AttemptStatus string

const (
	AttemptInProgress AttemptStatus = "in-progress"
	AttemptCompleted  AttemptStatus = "completed"
	AttemptAbandoned  AttemptStatus = "abandoned"
)

// Terminal reports whether no further transitions are allowed out of s.
func (s AttemptStatus) Terminal() bool {
	return s == AttemptCompleted || s == AttemptAbandoned
}

type Question struct {
	ID            string       `json:"id"`
	Prompt        string       `json:"question"`
	Type          QuestionType `json:"type"`
	Options       []string     `json:"options,omitempty"`
	CorrectAnswer Answer       `json:"correctAnswer"`
	Explanation   string       `json:"explanation,omitempty"`
	Difficulty    Difficulty   `json:"difficulty"`
	Points        float64      `json:"points"`
	Category      string       `json:"category,omitempty"`
	Tags          []string     `json:"tags,omitempty"`
}

type Quiz struct {
	ID            string       `json:"id"`
	Title         string       `json:"title"`
	Description   string       `json:"description,omitempty"`
	Subject       string       `json:"subject"`
	Topic         string       `json:"topic,omitempty"`
	AcademicLevel string       `json:"academic_level"`
	Difficulty    Difficulty   `json:"difficulty"`
	Language      string       `json:"language"`
	Type          QuestionType `json:"question_type"` // uniform question type, or mixed
	Questions     []Question   `json:"questions"`
	TimeLimit     int          `json:"time_limit_min,omitempty"` // minutes, 0 = unlimited
	CreatedBy     string       `json:"created_by"`
	IsPublic      bool         `json:"is_public"`
	Tags          []string     `json:"tags,omitempty"`
	Status        QuizStatus   `json:"status"`

	// Derived at save time; kept consistent with Questions by the validator.
	TotalPoints   float64 `json:"total_points"`
	EstimatedTime int     `json:"estimated_time_min"` // minutes

	// Maintained from completed attempts.
	Attempts     int     `json:"attempts"`
	AverageScore float64 `json:"average_score"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// QuestionByID returns the question with the given id and whether it exists.
func (q Quiz) QuestionByID(id string) (Question, bool) {
	for _, qq := range q.Questions {
		if qq.ID == id {
			return qq, true
		}
	}
	return Question{}, false
}

type Attempt struct {
	ID     string        `json:"id"`
	QuizID string        `json:"quiz_id"`
	UserID string        `json:"user_id"`
	Status AttemptStatus `json:"status"`

	Answers          map[string]Answer `json:"answers"`
	FlaggedQuestions []string          `json:"flagged_questions"`

	TotalQuestions int `json:"total_questions"`
	TimeLimit      int `json:"time_limit_min,omitempty"` // copied from quiz at start
	TimeSpent      int `json:"time_spent_min"`           // derived at completion, minutes

	// Populated only by scoring.
	Score          float64 `json:"score"`
	TotalScore     float64 `json:"total_score"`
	CorrectAnswers int     `json:"correct_answers"`
	IsCompleted    bool    `json:"is_completed"`

	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Flagged reports whether the question is marked for review.
func (a Attempt) Flagged(questionID string) bool {
	for _, id := range a.FlaggedQuestions {
		if id == questionID {
			return true
		}
	}
	return false
}

// QuizMeta is the quiz projection joined onto attempts for reporting.
type QuizMeta struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Subject     string     `json:"subject"`
	Topic       string     `json:"topic,omitempty"`
	Difficulty  Difficulty `json:"difficulty"`
	TimeLimit   int        `json:"time_limit_min,omitempty"`
	TotalPoints float64    `json:"total_points"`
}

// AttemptRecord is an attempt joined with its quiz metadata.
type AttemptRecord struct {
	Attempt
	Quiz QuizMeta `json:"quiz"`
}
