// Package stores persists card pools, review logs and session records to a
// local SQLite database. It is host-side infrastructure: the scheduling
// engine itself never touches storage.
package stores

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/domino14/srs_engine/internal/session"
	"github.com/domino14/srs_engine/internal/srs"
)

const schema = `
CREATE TABLE IF NOT EXISTS cards (
	id TEXT PRIMARY KEY,
	front TEXT NOT NULL DEFAULT '',
	back TEXT NOT NULL DEFAULT '',
	card_json TEXT NOT NULL,
	next_scheduled TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS cards_next_scheduled ON cards(next_scheduled);

CREATE TABLE IF NOT EXISTS review_log (
	card_id TEXT NOT NULL,
	reviewed_at TIMESTAMP NOT NULL,
	grade INTEGER NOT NULL,
	response_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS study_sessions (
	id TEXT PRIMARY KEY,
	started_at TIMESTAMP NOT NULL,
	session_json TEXT NOT NULL
);
`

// StoredCard pairs the engine's scheduling state with the card's content.
// Content never crosses into the engine; it only sees IDs.
type StoredCard struct {
	Card  srs.Card
	Front string
	Back  string
}

// Store is a SQLite-backed card vault.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the vault at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open card store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	log.Debug().Str("path", path).Msg("card-store-opened")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// AddCards inserts cards, skipping IDs already in the vault. Returns the
// number actually inserted.
func (s *Store) AddCards(cards []StoredCard) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO cards
		(id, front, back, card_json, next_scheduled) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, sc := range cards {
		bts, err := json.Marshal(sc.Card)
		if err != nil {
			return 0, err
		}
		res, err := stmt.Exec(sc.Card.ID, sc.Front, sc.Back, string(bts), sc.Card.NextReviewDate)
		if err != nil {
			return 0, err
		}
		n, _ := res.RowsAffected()
		inserted += int(n)
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	log.Info().Int("inserted", inserted).Int("requested", len(cards)).Msg("cards-added")
	return inserted, nil
}

// LoadPool returns every card in the vault, next-scheduled first.
func (s *Store) LoadPool() ([]StoredCard, error) {
	rows, err := s.db.Query(
		`SELECT front, back, card_json FROM cards ORDER BY next_scheduled`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pool []StoredCard
	for rows.Next() {
		var sc StoredCard
		var cardJSON string
		if err := rows.Scan(&sc.Front, &sc.Back, &cardJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(cardJSON), &sc.Card); err != nil {
			return nil, fmt.Errorf("corrupt card row: %w", err)
		}
		pool = append(pool, sc)
	}
	return pool, rows.Err()
}

// UpdateCard writes a rescheduled card back and appends its review-log row
// in one transaction.
func (s *Store) UpdateCard(card srs.Card, result srs.ReviewResult, reviewedAt time.Time) error {
	bts, err := json.Marshal(card)
	if err != nil {
		return err
	}
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`UPDATE cards SET card_json = ?, next_scheduled = ? WHERE id = ?`,
		string(bts), card.NextReviewDate, card.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("card %s not found in store", card.ID)
	}
	_, err = tx.Exec(`INSERT INTO review_log (card_id, reviewed_at, grade, response_ms)
		VALUES (?, ?, ?, ?)`,
		card.ID, reviewedAt, int(result.Grade), result.ResponseTimeMs)
	if err != nil {
		return err
	}
	return tx.Commit()
}

// AppendSession stores a finalized session record.
func (s *Store) AppendSession(sess session.StudySession) error {
	bts, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`INSERT INTO study_sessions (id, started_at, session_json) VALUES (?, ?, ?)`,
		sess.ID, sess.StartTime, string(bts))
	if err != nil {
		return err
	}
	log.Info().Str("session", sess.ID).Int("reviewed", sess.QuestionsReviewed).
		Msg("session-appended")
	return nil
}

// CardCount returns the number of cards in the vault.
func (s *Store) CardCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n)
	return n, err
}
