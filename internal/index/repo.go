package index

import (
	"encoding/json"
	"fmt"
)

// MemoryRow represents a row in the memories table.
type MemoryRow struct {
	ID           string
	Title        string
	Date         string
	Type         string
	AuthorID     string
	AuthorName   string
	Tags         []string
	LikeCount    int
	CommentCount int
	Checksum     string
	CreatedAt    string
}

// SearchResult represents one search hit.
type SearchResult struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

// UpsertMemory inserts or replaces a memory row and its FTS entry within a
// transaction. content is the memory body kept for fallback search.
func (db *DB) UpsertMemory(row MemoryRow, content string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	tagsJSON, _ := json.Marshal(row.Tags)

	_, err = tx.Exec(`
		INSERT INTO memories (id, title, content, date, type, author_id, author_name,
			tags, like_count, comment_count, checksum, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title         = excluded.title,
			content       = excluded.content,
			date          = excluded.date,
			type          = excluded.type,
			author_id     = excluded.author_id,
			author_name   = excluded.author_name,
			tags          = excluded.tags,
			like_count    = excluded.like_count,
			comment_count = excluded.comment_count,
			checksum      = excluded.checksum,
			created_at    = excluded.created_at
	`, row.ID, row.Title, content, row.Date, row.Type, row.AuthorID, row.AuthorName,
		string(tagsJSON), row.LikeCount, row.CommentCount, row.Checksum, row.CreatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert memory: %w", err)
	}

	if err := ftsUpsert(tx, row.ID, row.Title, content, row.Tags); err != nil {
		return err
	}

	return tx.Commit()
}

// DeleteMemory removes a memory row and its FTS entry.
func (db *DB) DeleteMemory(id string) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	ftsDelete(tx, id)
	_, _ = tx.Exec(`DELETE FROM memories WHERE id = ?`, id)

	return tx.Commit()
}

// AllChecksums returns every indexed memory id mapped to its checksum.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT id, checksum FROM memories`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var id, cs string
		if err := rows.Scan(&id, &cs); err != nil {
			return nil, err
		}
		out[id] = cs
	}
	return out, rows.Err()
}

// ListMemories returns paginated memory rows, optionally filtered by tag or
// media type, sorted by date, created_at or title (newest first by default).
func (db *DB) ListMemories(limit, offset int, tag, mediaType, sort string) ([]MemoryRow, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	where := "1=1"
	args := []any{}
	if tag != "" {
		// Tags are stored as a JSON array of strings.
		where += ` AND tags LIKE ?`
		args = append(args, `%"`+tag+`"%`)
	}
	if mediaType != "" {
		where += ` AND type = ?`
		args = append(args, mediaType)
	}

	orderBy := "date DESC, created_at DESC"
	switch sort {
	case "created_at":
		orderBy = "created_at DESC"
	case "title":
		orderBy = "title COLLATE NOCASE ASC"
	case "", "date":
	default:
		return nil, 0, fmt.Errorf("index: unsupported sort: %q", sort)
	}

	var total int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM memories WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("index: count memories: %w", err)
	}

	query := `SELECT id, title, date, type, author_id, author_name, tags,
		like_count, comment_count, checksum, created_at
		FROM memories WHERE ` + where + ` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	rows, err := db.conn.Query(query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("index: list memories: %w", err)
	}
	defer rows.Close()

	var out []MemoryRow
	for rows.Next() {
		var r MemoryRow
		var tagsJSON string
		if err := rows.Scan(&r.ID, &r.Title, &r.Date, &r.Type, &r.AuthorID, &r.AuthorName,
			&tagsJSON, &r.LikeCount, &r.CommentCount, &r.Checksum, &r.CreatedAt); err != nil {
			return nil, 0, err
		}
		_ = json.Unmarshal([]byte(tagsJSON), &r.Tags)
		if r.Tags == nil {
			r.Tags = []string{}
		}
		out = append(out, r)
	}
	return out, total, rows.Err()
}
