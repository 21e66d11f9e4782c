package repository

import (
	"context"

	"quiz_duel/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// отвечает за чтение банка вопросов из Postgres
type QuestionRepository struct {
	db *pgxpool.Pool
}

func NewQuestionRepository(db *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// возвращает активные вопросы темы в случайном порядке
func (r *QuestionRepository) FetchQuestions(ctx context.Context, subjectID string) ([]domain.Question, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id::text, subject_id, text, choices, correct_answer
		 FROM questions
		 WHERE is_active = true AND subject_id = $1
		 ORDER BY random()`,
		subjectID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanQuestions(rows)
}

// возвращает список тем, в которых есть активные вопросы
func (r *QuestionRepository) Subjects(ctx context.Context) ([]string, error) {
	rows, err := r.db.Query(ctx,
		`SELECT DISTINCT subject_id FROM questions WHERE is_active = true ORDER BY subject_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subjects []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

func scanQuestions(rows pgx.Rows) ([]domain.Question, error) {
	var qs []domain.Question
	for rows.Next() {
		var q domain.Question
		if err := rows.Scan(&q.ID, &q.SubjectID, &q.Text, &q.Choices, &q.CorrectAnswer); err != nil {
			return nil, err
		}
		qs = append(qs, q)
	}
	return qs, rows.Err()
}
