package quiz

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/db"
)

type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(dbh *sql.DB) *SQLStore {
	return &SQLStore{db: dbh}
}

// PutQuiz inserts or replaces a quiz and its questions/options.
func (s *SQLStore) PutQuiz(ctx context.Context, q Quiz) error {
	if err := Validate(q); err != nil {
		return err
	}
	return db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO quizzes (id,token,title,description,duration_minutes,is_active,created_at)
			VALUES ($1,$2,$3,$4,$5,$6,$7)
			ON CONFLICT (id) DO UPDATE SET token=EXCLUDED.token, title=EXCLUDED.title, description=EXCLUDED.description,
				duration_minutes=EXCLUDED.duration_minutes, is_active=EXCLUDED.is_active`,
			q.ID, q.Token, q.Title, q.Description, q.DurationMinutes, q.IsActive, time.Now().Unix())
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM options WHERE question_id IN (SELECT id FROM questions WHERE quiz_id=$1)`, q.ID); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id=$1`, q.ID); err != nil {
			return err
		}
		for i, qq := range q.Questions {
			if _, err := tx.ExecContext(ctx, `INSERT INTO questions (id,quiz_id,ord,text,text_alt,type) VALUES ($1,$2,$3,$4,$5,$6)`,
				qq.ID, q.ID, i, qq.Text, qq.TextAlt, string(qq.Type)); err != nil {
				return err
			}
			for j, o := range qq.Options {
				if _, err := tx.ExecContext(ctx, `INSERT INTO options (id,question_id,ord,text,text_alt,is_correct) VALUES ($1,$2,$3,$4,$5,$6)`,
					o.ID, qq.ID, j, o.Text, o.TextAlt, o.IsCorrect); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (s *SQLStore) Header(ctx context.Context, token string) (Header, error) {
	var h Header
	err := s.db.QueryRowContext(ctx, `
		SELECT q.id, q.token, q.title, q.duration_minutes, q.is_active,
		       (SELECT COUNT(*) FROM questions WHERE quiz_id=q.id)
		  FROM quizzes q
		 WHERE q.token=$1`, token).
		Scan(&h.ID, &h.Token, &h.Title, &h.DurationMinutes, &h.IsActive, &h.QuestionCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Header{}, ErrNotFound
		}
		return Header{}, err
	}
	return h, nil
}

func (s *SQLStore) PublicQuiz(ctx context.Context, token string) (PublicQuiz, error) {
	return s.publicWhere(ctx, `token=$1`, token)
}

func (s *SQLStore) PublicQuizByID(ctx context.Context, id string) (PublicQuiz, error) {
	return s.publicWhere(ctx, `id=$1`, id)
}

// publicWhere never selects is_correct.
func (s *SQLStore) publicWhere(ctx context.Context, where string, arg string) (PublicQuiz, error) {
	var p PublicQuiz
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, description, duration_minutes, is_active FROM quizzes WHERE `+where, arg).
		Scan(&p.ID, &p.Title, &p.Description, &p.DurationMinutes, &p.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return PublicQuiz{}, ErrNotFound
		}
		return PublicQuiz{}, err
	}

	qs, err := s.loadQuestions(ctx, p.ID)
	if err != nil {
		return PublicQuiz{}, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.question_id, o.id, o.text, o.text_alt, o.ord
		  FROM options o
		  JOIN questions q ON q.id = o.question_id
		 WHERE q.quiz_id=$1
		 ORDER BY q.ord ASC, o.ord ASC`, p.ID)
	if err != nil {
		return PublicQuiz{}, err
	}
	defer rows.Close()
	opts := map[string][]PublicOption{}
	for rows.Next() {
		var qid string
		var o PublicOption
		if err := rows.Scan(&qid, &o.ID, &o.Text, &o.TextAlt, &o.Order); err != nil {
			return PublicQuiz{}, err
		}
		opts[qid] = append(opts[qid], o)
	}
	if err := rows.Err(); err != nil {
		return PublicQuiz{}, err
	}

	p.Questions = make([]PublicQuestion, 0, len(qs))
	for _, q := range qs {
		p.Questions = append(p.Questions, PublicQuestion{
			ID:      q.ID,
			Text:    q.Text,
			TextAlt: q.TextAlt,
			Type:    q.Type,
			Options: opts[q.ID],
		})
	}
	return p, nil
}

func (s *SQLStore) GradingQuiz(ctx context.Context, id string) (Quiz, error) {
	var q Quiz
	err := s.db.QueryRowContext(ctx,
		`SELECT id, token, title, description, duration_minutes, is_active FROM quizzes WHERE id=$1`, id).
		Scan(&q.ID, &q.Token, &q.Title, &q.Description, &q.DurationMinutes, &q.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Quiz{}, ErrNotFound
		}
		return Quiz{}, err
	}

	qs, err := s.loadQuestions(ctx, q.ID)
	if err != nil {
		return Quiz{}, err
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT o.question_id, o.id, o.text, o.text_alt, o.is_correct
		  FROM options o
		  JOIN questions q ON q.id = o.question_id
		 WHERE q.quiz_id=$1
		 ORDER BY q.ord ASC, o.ord ASC`, q.ID)
	if err != nil {
		return Quiz{}, err
	}
	defer rows.Close()
	opts := map[string][]Option{}
	for rows.Next() {
		var qid string
		var o Option
		if err := rows.Scan(&qid, &o.ID, &o.Text, &o.TextAlt, &o.IsCorrect); err != nil {
			return Quiz{}, err
		}
		opts[qid] = append(opts[qid], o)
	}
	if err := rows.Err(); err != nil {
		return Quiz{}, err
	}

	q.Questions = qs
	for i := range q.Questions {
		q.Questions[i].Options = opts[q.Questions[i].ID]
	}
	return q, nil
}

func (s *SQLStore) loadQuestions(ctx context.Context, quizID string) ([]Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, text, text_alt, type FROM questions WHERE quiz_id=$1 ORDER BY ord ASC`, quizID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Question
	for rows.Next() {
		var q Question
		var typ string
		if err := rows.Scan(&q.ID, &q.Text, &q.TextAlt, &typ); err != nil {
			return nil, err
		}
		q.Type = QuestionType(typ)
		out = append(out, q)
	}
	return out, rows.Err()
}
