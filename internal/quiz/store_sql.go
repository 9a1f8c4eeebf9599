package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// SQLStore persists quizzes and attempts over database/sql. Question lists
// and answer maps are JSON blobs, so the same statements run on both the
// sqlite and postgres drivers ($n placeholders work on both).
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	qj, err := json.Marshal(q.Questions)
	if err != nil {
		return err
	}
	tj, err := json.Marshal(q.Tags)
	if err != nil {
		return err
	}
	now := time.Now().Unix()
	created := q.CreatedAt.Unix()
	if q.CreatedAt.IsZero() {
		created = now
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO quizzes
		(id,title,description,subject,topic,academic_level,difficulty,language,question_type,status,
		 time_limit_min,total_points,estimated_time_min,created_by,is_public,tags_json,
		 questions_json,attempts,average_score,created_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)
		ON CONFLICT (id) DO UPDATE SET
		 title=EXCLUDED.title, description=EXCLUDED.description, subject=EXCLUDED.subject,
		 topic=EXCLUDED.topic, academic_level=EXCLUDED.academic_level,
		 difficulty=EXCLUDED.difficulty, language=EXCLUDED.language,
		 question_type=EXCLUDED.question_type, status=EXCLUDED.status,
		 time_limit_min=EXCLUDED.time_limit_min, total_points=EXCLUDED.total_points,
		 estimated_time_min=EXCLUDED.estimated_time_min, is_public=EXCLUDED.is_public,
		 tags_json=EXCLUDED.tags_json, questions_json=EXCLUDED.questions_json,
		 updated_at=EXCLUDED.updated_at`,
		q.ID, q.Title, q.Description, q.Subject, q.Topic, q.AcademicLevel, string(q.Difficulty),
		q.Language, string(q.Type), string(q.Status), q.TimeLimit, q.TotalPoints, q.EstimatedTime,
		q.CreatedBy, boolToInt(q.IsPublic), string(tj), string(qj), q.Attempts, q.AverageScore,
		created, now)
	return err
}

const quizColumns = `id,title,description,subject,topic,academic_level,difficulty,language,
	question_type,status,time_limit_min,total_points,estimated_time_min,created_by,is_public,
	tags_json,questions_json,attempts,average_score,created_at,updated_at`

func (s *SQLStore) GetQuiz(ctx context.Context, id string) (Quiz, error) {
	q, err := s.GetQuizFull(ctx, id)
	if err != nil {
		return Quiz{}, err
	}
	return Redact(q), nil
}

func (s *SQLStore) GetQuizFull(ctx context.Context, id string) (Quiz, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+quizColumns+` FROM quizzes WHERE id=$1`, id)
	q, err := scanQuiz(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, fmt.Errorf("quiz %s: %w", id, ErrNotFound)
		}
		return Quiz{}, err
	}
	return q, nil
}

func (s *SQLStore) DeleteQuiz(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM quizzes WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("quiz %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLStore) ListQuizzes(ctx context.Context, opts QuizListOpts) ([]Quiz, error) {
	where := []string{"1=1"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if opts.CreatedBy != "" {
		add("created_by=$%d", opts.CreatedBy)
	}
	if opts.Subject != "" {
		add("subject=$%d", opts.Subject)
	}
	if opts.Status != "" {
		add("status=$%d", string(opts.Status))
	}
	if opts.Q != "" {
		needle := "%" + strings.ToLower(opts.Q) + "%"
		args = append(args, needle, needle)
		where = append(where, fmt.Sprintf("(LOWER(title) LIKE $%d OR LOWER(subject) LIKE $%d)", len(args)-1, len(args)))
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, opts.Offset)
	query := `SELECT ` + quizColumns + ` FROM quizzes WHERE ` + strings.Join(where, " AND ") +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Quiz
	for rows.Next() {
		q, err := scanQuiz(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, Redact(q))
	}
	return out, rows.Err()
}

func (s *SQLStore) SetQuizStats(ctx context.Context, id string, attempts int, avgScore float64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE quizzes SET attempts=$1, average_score=$2, updated_at=$3 WHERE id=$4`,
		attempts, avgScore, time.Now().Unix(), id)
	return err
}

func (s *SQLStore) PutAttempt(ctx context.Context, a Attempt) error {
	aj, err := json.Marshal(a.Answers)
	if err != nil {
		return err
	}
	fj, err := json.Marshal(a.FlaggedQuestions)
	if err != nil {
		return err
	}
	var completed sql.NullInt64
	if a.CompletedAt != nil {
		completed = sql.NullInt64{Int64: a.CompletedAt.Unix(), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO attempts
		(id,quiz_id,user_id,status,answers_json,flagged_json,total_questions,
		 time_limit_min,time_spent_min,score,total_score,correct_answers,is_completed,
		 started_at,completed_at,updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
		ON CONFLICT (id) DO UPDATE SET
		 status=EXCLUDED.status, answers_json=EXCLUDED.answers_json,
		 flagged_json=EXCLUDED.flagged_json, time_spent_min=EXCLUDED.time_spent_min,
		 score=EXCLUDED.score, total_score=EXCLUDED.total_score,
		 correct_answers=EXCLUDED.correct_answers, is_completed=EXCLUDED.is_completed,
		 completed_at=EXCLUDED.completed_at, updated_at=EXCLUDED.updated_at`,
		a.ID, a.QuizID, a.UserID, string(a.Status), string(aj), string(fj), a.TotalQuestions,
		a.TimeLimit, a.TimeSpent, a.Score, a.TotalScore, a.CorrectAnswers, boolToInt(a.IsCompleted),
		a.StartedAt.Unix(), completed, time.Now().Unix())
	return err
}

const attemptColumns = `a.id,a.quiz_id,a.user_id,a.status,a.answers_json,a.flagged_json,
	a.total_questions,a.time_limit_min,a.time_spent_min,a.score,a.total_score,
	a.correct_answers,a.is_completed,a.started_at,a.completed_at,a.updated_at`

func (s *SQLStore) GetAttempt(ctx context.Context, id string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+attemptColumns+` FROM attempts a WHERE a.id=$1`, id)
	a, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, fmt.Errorf("attempt %s: %w", id, ErrNotFound)
		}
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) FindActiveAttempt(ctx context.Context, quizID, userID string) (Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+attemptColumns+` FROM attempts a
		 WHERE a.quiz_id=$1 AND a.user_id=$2 AND a.status=$3
		 ORDER BY a.started_at DESC LIMIT 1`,
		quizID, userID, string(AttemptInProgress))
	a, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, fmt.Errorf("active attempt for quiz %s: %w", quizID, ErrNotFound)
		}
		return Attempt{}, err
	}
	return a, nil
}

func (s *SQLStore) ListAttempts(ctx context.Context, f AttemptFilter) ([]AttemptRecord, error) {
	where := []string{"1=1"}
	var args []any
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}
	if f.UserID != "" {
		add("a.user_id=$%d", f.UserID)
	}
	if f.QuizID != "" {
		add("a.quiz_id=$%d", f.QuizID)
	}
	if f.Status != "" {
		add("a.status=$%d", string(f.Status))
	}
	if f.Subject != "" {
		add("q.subject=$%d", f.Subject)
	}
	if f.Difficulty != "" {
		add("q.difficulty=$%d", string(f.Difficulty))
	}
	if !f.From.IsZero() {
		add("a.started_at>=$%d", f.From.Unix())
	}
	if !f.To.IsZero() {
		add("a.started_at<=$%d", f.To.Unix())
	}
	query := `SELECT ` + attemptColumns + `,
		q.id,q.title,q.subject,q.topic,q.difficulty,q.time_limit_min,q.total_points
		FROM attempts a JOIN quizzes q ON q.id=a.quiz_id
		WHERE ` + strings.Join(where, " AND ") + ` ORDER BY a.updated_at DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AttemptRecord
	for rows.Next() {
		var rec AttemptRecord
		var answersJSON, flaggedJSON, status, diff string
		var isCompleted int
		var started int64
		var completed sql.NullInt64
		var updated int64
		if err := rows.Scan(
			&rec.ID, &rec.QuizID, &rec.UserID, &status, &answersJSON, &flaggedJSON,
			&rec.TotalQuestions, &rec.TimeLimit, &rec.TimeSpent, &rec.Score, &rec.TotalScore,
			&rec.CorrectAnswers, &isCompleted, &started, &completed, &updated,
			&rec.Quiz.ID, &rec.Quiz.Title, &rec.Quiz.Subject, &rec.Quiz.Topic, &diff,
			&rec.Quiz.TimeLimit, &rec.Quiz.TotalPoints,
		); err != nil {
			return nil, err
		}
		rec.Status = AttemptStatus(status)
		rec.Quiz.Difficulty = Difficulty(diff)
		rec.IsCompleted = isCompleted != 0
		rec.StartedAt = time.Unix(started, 0)
		if completed.Valid {
			t := time.Unix(completed.Int64, 0)
			rec.CompletedAt = &t
		}
		rec.UpdatedAt = time.Unix(updated, 0)
		if err := json.Unmarshal([]byte(answersJSON), &rec.Answers); err != nil {
			rec.Answers = map[string]Answer{}
		}
		if err := json.Unmarshal([]byte(flaggedJSON), &rec.FlaggedQuestions); err != nil {
			rec.FlaggedQuestions = nil
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *SQLStore) CountAttemptsByStatus(ctx context.Context, userID string) (map[AttemptStatus]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM attempts WHERE user_id=$1 GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	counts := map[AttemptStatus]int{}
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		counts[AttemptStatus(status)] = n
	}
	return counts, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuiz(row rowScanner) (Quiz, error) {
	var q Quiz
	var diff, qtype, status, tagsJSON, questionsJSON string
	var isPublic int
	var created, updated int64
	if err := row.Scan(
		&q.ID, &q.Title, &q.Description, &q.Subject, &q.Topic, &q.AcademicLevel, &diff,
		&q.Language, &qtype, &status, &q.TimeLimit, &q.TotalPoints, &q.EstimatedTime,
		&q.CreatedBy, &isPublic, &tagsJSON, &questionsJSON, &q.Attempts, &q.AverageScore,
		&created, &updated,
	); err != nil {
		return Quiz{}, err
	}
	q.Difficulty = Difficulty(diff)
	q.Type = QuestionType(qtype)
	q.Status = QuizStatus(status)
	q.IsPublic = isPublic != 0
	q.CreatedAt = time.Unix(created, 0)
	q.UpdatedAt = time.Unix(updated, 0)
	if err := json.Unmarshal([]byte(tagsJSON), &q.Tags); err != nil {
		q.Tags = nil
	}
	if err := json.Unmarshal([]byte(questionsJSON), &q.Questions); err != nil {
		return Quiz{}, fmt.Errorf("quiz %s: decode questions: %w", q.ID, err)
	}
	return q, nil
}

func scanAttempt(row rowScanner) (Attempt, error) {
	var a Attempt
	var status, answersJSON, flaggedJSON string
	var isCompleted int
	var started int64
	var completed sql.NullInt64
	var updated int64
	if err := row.Scan(
		&a.ID, &a.QuizID, &a.UserID, &status, &answersJSON, &flaggedJSON,
		&a.TotalQuestions, &a.TimeLimit, &a.TimeSpent, &a.Score, &a.TotalScore,
		&a.CorrectAnswers, &isCompleted, &started, &completed, &updated,
	); err != nil {
		return Attempt{}, err
	}
	a.Status = AttemptStatus(status)
	a.IsCompleted = isCompleted != 0
	a.StartedAt = time.Unix(started, 0)
	if completed.Valid {
		t := time.Unix(completed.Int64, 0)
		a.CompletedAt = &t
	}
	a.UpdatedAt = time.Unix(updated, 0)
	if err := json.Unmarshal([]byte(answersJSON), &a.Answers); err != nil {
		a.Answers = map[string]Answer{}
	}
	if err := json.Unmarshal([]byte(flaggedJSON), &a.FlaggedQuestions); err != nil {
		a.FlaggedQuestions = nil
	}
	return a, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
