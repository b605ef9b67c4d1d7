package attempt

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mind-engage/mindengage-quiz/internal/db"
	"github.com/mind-engage/mindengage-quiz/internal/events"
	"github.com/mind-engage/mindengage-quiz/internal/grading"
	syncx "github.com/mind-engage/mindengage-quiz/internal/sync"
)

// SQLLedger stores attempts in the attempts/attempt_answers tables.
//
// On postgres SaveAnswer takes a shared row lock on the attempt and Finalize
// an exclusive one, so answers for different questions still run in
// parallel. Sqlite runs on a single pooled connection, which serializes
// transactions on its own. In both cases the terminal UPDATE is conditional
// on submitted = FALSE.
type SQLLedger struct {
	db     *sql.DB
	driver db.Driver
}

func NewSQLLedger(dbh *sql.DB, driver db.Driver) *SQLLedger {
	return &SQLLedger{db: dbh, driver: driver}
}

func (s *SQLLedger) lock(mode string) string {
	if s.driver == db.DriverPostgres {
		return " " + mode
	}
	return ""
}

const attemptCols = `id, quiz_id, token, language, started_at, total_questions, submitted, submitted_at, score, graded`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row rowScanner) (Attempt, error) {
	var a Attempt
	var started int64
	var submittedAt, score sql.NullInt64
	var graded sql.NullString
	if err := row.Scan(&a.ID, &a.QuizID, &a.Token, &a.Language, &started, &a.TotalQuestions, &a.Submitted, &submittedAt, &score, &graded); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Attempt{}, ErrNotFound
		}
		return Attempt{}, err
	}
	a.StartedAt = time.UnixMilli(started).UTC()
	if submittedAt.Valid {
		t := time.UnixMilli(submittedAt.Int64).UTC()
		a.SubmittedAt = &t
	}
	if score.Valid {
		v := int(score.Int64)
		a.Score = &v
	}
	if graded.Valid {
		a.Graded = []byte(graded.String)
	}
	return a, nil
}

func (s *SQLLedger) Create(ctx context.Context, a Attempt) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO attempts (id,quiz_id,token,language,started_at,total_questions,submitted)
		VALUES ($1,$2,$3,$4,$5,$6,FALSE)`,
		a.ID, a.QuizID, a.Token, a.Language, a.StartedAt.UnixMilli(), a.TotalQuestions)
	return err
}

func (s *SQLLedger) Get(ctx context.Context, id string) (Attempt, error) {
	return scanAttempt(s.db.QueryRowContext(ctx, `SELECT `+attemptCols+` FROM attempts WHERE id=$1`, id))
}

func (s *SQLLedger) GetByToken(ctx context.Context, token string) (Attempt, error) {
	return scanAttempt(s.db.QueryRowContext(ctx, `SELECT `+attemptCols+` FROM attempts WHERE token=$1`, token))
}

func (s *SQLLedger) List(ctx context.Context, opts ListOpts) ([]Attempt, error) {
	q := `SELECT ` + attemptCols + ` FROM attempts WHERE 1=1`
	var args []any
	if opts.QuizID != "" {
		args = append(args, opts.QuizID)
		q += ` AND quiz_id=$` + strconv.Itoa(len(args))
	}
	switch opts.Status {
	case StatusSubmitted:
		q += ` AND submitted=TRUE`
	case StatusInProgress:
		q += ` AND submitted=FALSE`
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, clampLimit(opts.Limit), offset)
	q += ` ORDER BY started_at DESC, id ASC LIMIT $` + strconv.Itoa(len(args)-1) + ` OFFSET $` + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *SQLLedger) SaveAnswer(ctx context.Context, attemptID, questionID string, optionIDs []string, at time.Time) error {
	if optionIDs == nil {
		optionIDs = []string{}
	}
	buf, err := json.Marshal(optionIDs)
	if err != nil {
		return err
	}
	return db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		var submitted bool
		err := tx.QueryRowContext(ctx, `SELECT submitted FROM attempts WHERE id=$1`+s.lock("FOR SHARE"), attemptID).Scan(&submitted)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return err
		}
		if submitted {
			return ErrAlreadySubmitted
		}
		_, err = tx.ExecContext(ctx, `INSERT INTO attempt_answers (attempt_id,question_id,option_ids,updated_at)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (attempt_id, question_id) DO UPDATE SET option_ids=EXCLUDED.option_ids, updated_at=EXCLUDED.updated_at`,
			attemptID, questionID, string(buf), at.UnixMilli())
		return err
	})
}

func (s *SQLLedger) Answers(ctx context.Context, attemptID string) (grading.Answers, error) {
	if _, err := s.Get(ctx, attemptID); err != nil {
		return nil, err
	}
	return loadAnswers(ctx, s.db, attemptID)
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func loadAnswers(ctx context.Context, q queryer, attemptID string) (grading.Answers, error) {
	rows, err := q.QueryContext(ctx, `SELECT question_id, option_ids FROM attempt_answers WHERE attempt_id=$1`, attemptID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := grading.Answers{}
	for rows.Next() {
		var qid, raw string
		if err := rows.Scan(&qid, &raw); err != nil {
			return nil, err
		}
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return nil, fmt.Errorf("attempt %s answer %s: %w", attemptID, qid, err)
		}
		if ids == nil {
			ids = []string{}
		}
		out[qid] = ids
	}
	return out, rows.Err()
}

func (s *SQLLedger) Finalize(ctx context.Context, attemptID string, at time.Time, grade GradeFunc) (Attempt, error) {
	var final Attempt
	err := db.WithTx(ctx, s.db, nil, func(tx *sql.Tx) error {
		a, err := scanAttempt(tx.QueryRowContext(ctx,
			`SELECT `+attemptCols+` FROM attempts WHERE id=$1`+s.lock("FOR UPDATE"), attemptID))
		if err != nil {
			return err
		}
		if a.Submitted {
			return ErrAlreadySubmitted
		}

		ans, err := loadAnswers(ctx, tx, attemptID)
		if err != nil {
			return err
		}
		score, graded, err := grade(ans)
		if err != nil {
			return err
		}
		at = at.UTC().Truncate(time.Millisecond)

		res, err := tx.ExecContext(ctx,
			`UPDATE attempts SET submitted=TRUE, submitted_at=$1, score=$2, graded=$3 WHERE id=$4 AND submitted=FALSE`,
			at.UnixMilli(), score, string(graded), attemptID)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrAlreadySubmitted
		}

		a.Submitted = true
		a.SubmittedAt = &at
		a.Score = &score
		a.Graded = graded
		final = a

		data, err := json.Marshal(events.AttemptSubmitted{
			AttemptID:      a.ID,
			QuizID:         a.QuizID,
			Score:          score,
			TotalQuestions: a.TotalQuestions,
			SubmittedAt:    at,
		})
		if err != nil {
			return err
		}
		return syncx.Append(ctx, tx, syncx.Event{
			Type:     syncx.TypeAttemptSubmitted,
			Key:      a.ID,
			DataJSON: string(data),
		})
	})
	if err != nil {
		return Attempt{}, err
	}
	return final, nil
}
