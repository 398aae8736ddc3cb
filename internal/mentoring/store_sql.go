package mentoring

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// SQLStore implements the store interfaces over sqlite or postgres. Block
// questions and per-student results are kept as JSON columns, matching the
// schema in internal/db.
type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutBlock(ctx context.Context, b Block) error {
	cj, err := json.Marshal(b)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO blocks (id,title,mode,config_json,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, mode=EXCLUDED.mode, config_json=EXCLUDED.config_json`,
		b.ID, b.Title, string(b.Mode), string(cj), time.Now().Unix())
	return err
}

func (s *SQLStore) GetBlock(ctx context.Context, id string) (Block, error) {
	row := s.db.QueryRowContext(ctx, `SELECT config_json FROM blocks WHERE id=$1`, id)
	var cjson string
	if err := row.Scan(&cjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Block{}, errors.New("block not found")
		}
		return Block{}, err
	}
	var b Block
	if err := json.Unmarshal([]byte(cjson), &b); err != nil {
		return Block{}, err
	}
	return b, nil
}

func (s *SQLStore) ListBlocks(ctx context.Context, opts ListOpts) ([]BlockSummary, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id,title,mode,config_json,created_at FROM blocks
		WHERE ($1 = '' OR title LIKE '%' || $1 || '%')
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		opts.Q, limit, opts.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []BlockSummary{}
	for rows.Next() {
		var sum BlockSummary
		var cjson string
		if err := rows.Scan(&sum.ID, &sum.Title, &sum.Mode, &cjson, &sum.CreatedAt); err != nil {
			return nil, err
		}
		var b Block
		if err := json.Unmarshal([]byte(cjson), &b); err == nil {
			sum.Questions = len(b.Questions)
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

func (s *SQLStore) GetState(ctx context.Context, blockID, userID string) (State, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT state_json FROM block_state WHERE block_id=$1 AND user_id=$2`, blockID, userID)
	var sjson string
	if err := row.Scan(&sjson); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// implicit all-defaults state on first touch
			return State{BlockID: blockID, UserID: userID}, nil
		}
		return State{}, err
	}
	var st State
	if err := json.Unmarshal([]byte(sjson), &st); err != nil {
		return State{}, err
	}
	st.BlockID, st.UserID = blockID, userID
	return st, nil
}

func (s *SQLStore) SaveState(ctx context.Context, st State) error {
	st.UpdatedAt = time.Now().Unix()
	sj, err := json.Marshal(st)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO block_state (block_id,user_id,state_json,updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (block_id,user_id) DO UPDATE SET state_json=EXCLUDED.state_json, updated_at=EXCLUDED.updated_at`,
		st.BlockID, st.UserID, string(sj), st.UpdatedAt)
	return err
}

func (s *SQLStore) GetSession(ctx context.Context, courseID, userID string) (Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT next_step FROM sessions WHERE course_id=$1 AND user_id=$2`, courseID, userID)
	sess := Session{CourseID: courseID, UserID: userID}
	if err := row.Scan(&sess.NextStep); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return sess, nil
		}
		return Session{}, err
	}
	return sess, nil
}

func (s *SQLStore) SaveSession(ctx context.Context, sess Session) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO sessions (course_id,user_id,next_step,updated_at)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (course_id,user_id) DO UPDATE SET next_step=EXCLUDED.next_step, updated_at=EXCLUDED.updated_at`,
		sess.CourseID, sess.UserID, sess.NextStep, time.Now().Unix())
	return err
}

func (s *SQLStore) GetAnswer(ctx context.Context, userID, courseID, name string) (string, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT value FROM answers WHERE user_id=$1 AND course_id=$2 AND name=$3`, userID, courseID, name)
	var v string
	if err := row.Scan(&v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return v, nil
}

func (s *SQLStore) SaveAnswer(ctx context.Context, userID, courseID, name, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO answers (user_id,course_id,name,value,updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id,course_id,name) DO UPDATE SET value=EXCLUDED.value, updated_at=EXCLUDED.updated_at`,
		userID, courseID, name, value, time.Now().Unix())
	return err
}

// SQLSubmissionLog appends submission copies to the submissions table.
type SQLSubmissionLog struct{ db *sql.DB }

func NewSQLSubmissionLog(db *sql.DB) *SQLSubmissionLog { return &SQLSubmissionLog{db: db} }

func (l *SQLSubmissionLog) Log(ctx context.Context, sub Submission) error {
	vj, err := json.Marshal(sub.Value)
	if err != nil {
		return err
	}
	_, err = l.db.ExecContext(ctx, `INSERT INTO submissions (id,user_id,block_id,question_id,value_json,created_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		sub.ID, sub.UserID, sub.BlockID, sub.QuestionID, string(vj), sub.CreatedAt.Unix())
	return err
}
