package session

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/bubbledive/sparkmap/internal/insight"
)

// Store is a SQLite-backed cache of generated maps, keyed by normalized
// topic. One row per topic; regenerating a topic replaces its row.
type Store struct {
	db *sql.DB
}

// Record is one cached map.
type Record struct {
	ID        string             `json:"id"`
	Topic     string             `json:"topic"`
	CreatedAt time.Time          `json:"created_at"`
	Duration  time.Duration      `json:"duration"`
	Tree      *insight.Node      `json:"tree"`
	Citations []insight.Citation `json:"citations,omitempty"`
}

// TopicInfo summarizes one cached topic for listings.
type TopicInfo struct {
	Topic     string    `json:"topic"`
	CreatedAt time.Time `json:"created_at"`
	Nodes     int       `json:"nodes"`
}

// OpenStore opens or creates the cache database at the given path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// createSchema creates the cache schema if it doesn't exist.
func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS sessions (
			id TEXT PRIMARY KEY,
			topic TEXT NOT NULL,
			topic_key TEXT NOT NULL UNIQUE,
			created_at INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL,
			tree_json TEXT NOT NULL,
			citations_json TEXT
		);

		CREATE INDEX IF NOT EXISTS idx_sessions_created ON sessions(created_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Get returns the cached record for a topic, or nil on a miss.
func (s *Store) Get(topic string) (*Record, error) {
	row := s.db.QueryRow(`
		SELECT id, topic, created_at, duration_ms, tree_json, citations_json
		FROM sessions
		WHERE topic_key = ?
	`, TopicKey(topic))
	return scanRecord(row)
}

// Put caches a generated map for a topic, replacing any previous entry for
// the same normalized topic.
func (s *Store) Put(topic string, tree *insight.Node, citations []insight.Citation, duration time.Duration) (*Record, error) {
	treeJSON, err := json.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("marshaling tree: %w", err)
	}

	var citationsJSON sql.NullString
	if len(citations) > 0 {
		data, err := json.Marshal(citations)
		if err != nil {
			return nil, fmt.Errorf("marshaling citations: %w", err)
		}
		citationsJSON = sql.NullString{String: string(data), Valid: true}
	}

	rec := &Record{
		ID:        uuid.NewString(),
		Topic:     topic,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		Duration:  duration,
		Tree:      tree,
		Citations: citations,
	}

	_, err = s.db.Exec(`
		INSERT INTO sessions (id, topic, topic_key, created_at, duration_ms, tree_json, citations_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(topic_key) DO UPDATE SET
			id = excluded.id,
			topic = excluded.topic,
			created_at = excluded.created_at,
			duration_ms = excluded.duration_ms,
			tree_json = excluded.tree_json,
			citations_json = excluded.citations_json
	`, rec.ID, rec.Topic, TopicKey(topic), rec.CreatedAt.UnixMilli(),
		rec.Duration.Milliseconds(), string(treeJSON), citationsJSON)
	if err != nil {
		return nil, fmt.Errorf("caching map for %q: %w", topic, err)
	}

	return rec, nil
}

// Topics lists cached topics, most recent first.
func (s *Store) Topics() ([]TopicInfo, error) {
	rows, err := s.db.Query(`
		SELECT topic, created_at, tree_json
		FROM sessions
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("listing topics: %w", err)
	}
	defer rows.Close()

	var topics []TopicInfo
	for rows.Next() {
		var info TopicInfo
		var createdMillis int64
		var treeJSON string
		if err := rows.Scan(&info.Topic, &createdMillis, &treeJSON); err != nil {
			return nil, err
		}
		info.CreatedAt = time.UnixMilli(createdMillis).UTC()

		var tree insight.Node
		if err := json.Unmarshal([]byte(treeJSON), &tree); err != nil {
			return nil, fmt.Errorf("parsing cached tree for %q: %w", info.Topic, err)
		}
		info.Nodes = insight.CountNodes(&tree)

		topics = append(topics, info)
	}
	return topics, rows.Err()
}

// Delete removes the cache entry for a topic. Returns true if an entry was
// removed.
func (s *Store) Delete(topic string) (bool, error) {
	res, err := s.db.Exec("DELETE FROM sessions WHERE topic_key = ?", TopicKey(topic))
	if err != nil {
		return false, fmt.Errorf("deleting cache entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Clear removes all cache entries and returns how many were removed.
func (s *Store) Clear() (int, error) {
	res, err := s.db.Exec("DELETE FROM sessions")
	if err != nil {
		return 0, fmt.Errorf("clearing cache: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

// Count returns the number of cached maps.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM sessions").Scan(&count)
	return count, err
}

func scanRecord(row *sql.Row) (*Record, error) {
	var rec Record
	var createdMillis, durationMillis int64
	var treeJSON string
	var citationsJSON sql.NullString

	err := row.Scan(&rec.ID, &rec.Topic, &createdMillis, &durationMillis, &treeJSON, &citationsJSON)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	rec.CreatedAt = time.UnixMilli(createdMillis).UTC()
	rec.Duration = time.Duration(durationMillis) * time.Millisecond

	if err := json.Unmarshal([]byte(treeJSON), &rec.Tree); err != nil {
		return nil, fmt.Errorf("parsing cached tree for %q: %w", rec.Topic, err)
	}
	if citationsJSON.Valid && citationsJSON.String != "" {
		if err := json.Unmarshal([]byte(citationsJSON.String), &rec.Citations); err != nil {
			return nil, fmt.Errorf("parsing cached citations for %q: %w", rec.Topic, err)
		}
	}

	return &rec, nil
}
