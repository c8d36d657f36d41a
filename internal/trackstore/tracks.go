package trackstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"cuekit/internal/captions"
)

// Stats summarizes the cache contents.
type Stats struct {
	Path      string `json:"path"`
	Entries   int    `json:"entries"`
	Cues      int    `json:"cues"`
	Hits      int    `json:"hits"`
	SizeBytes int64  `json:"size_bytes"`
}

// Get returns the cached parse for key. A hit bumps the entry's hit count and
// last-used time.
func (s *Store) Get(ctx context.Context, key string) (captions.ParseResult, bool, error) {
	ctx = ensureContext(ctx)
	var cuesJSON, skippedJSON string
	err := s.db.QueryRowContext(ctx,
		"SELECT cues_json, skipped_json FROM tracks WHERE key = ?", key,
	).Scan(&cuesJSON, &skippedJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return captions.ParseResult{}, false, nil
	}
	if err != nil {
		return captions.ParseResult{}, false, fmt.Errorf("read track: %w", err)
	}

	var result captions.ParseResult
	if err := json.Unmarshal([]byte(cuesJSON), &result.Cues); err != nil {
		return captions.ParseResult{}, false, fmt.Errorf("decode cached cues: %w", err)
	}
	if err := json.Unmarshal([]byte(skippedJSON), &result.Skipped); err != nil {
		return captions.ParseResult{}, false, fmt.Errorf("decode cached skips: %w", err)
	}

	if _, err := s.execWithRetry(ctx,
		"UPDATE tracks SET hits = hits + 1, last_used_ns = ? WHERE key = ?",
		s.now().UnixNano(), key,
	); err != nil {
		return captions.ParseResult{}, false, fmt.Errorf("touch track: %w", err)
	}
	return result, true, nil
}

// Put stores result under key, replacing any previous entry.
func (s *Store) Put(ctx context.Context, key string, format captions.Format, result captions.ParseResult) error {
	cues := result.Cues
	if cues == nil {
		cues = []captions.Cue{}
	}
	skipped := result.Skipped
	if skipped == nil {
		skipped = []captions.SkippedCue{}
	}
	cuesJSON, err := json.Marshal(cues)
	if err != nil {
		return fmt.Errorf("encode cues: %w", err)
	}
	skippedJSON, err := json.Marshal(skipped)
	if err != nil {
		return fmt.Errorf("encode skips: %w", err)
	}
	now := s.now().UnixNano()
	_, err = s.execWithRetry(ctx,
		`INSERT INTO tracks (key, format, cue_count, cues_json, skipped_json, created_ns, last_used_ns, hits)
		 VALUES (?, ?, ?, ?, ?, ?, ?, 0)
		 ON CONFLICT(key) DO UPDATE SET
		   format = excluded.format,
		   cue_count = excluded.cue_count,
		   cues_json = excluded.cues_json,
		   skipped_json = excluded.skipped_json,
		   last_used_ns = excluded.last_used_ns`,
		key, string(format), len(cues), string(cuesJSON), string(skippedJSON), now, now,
	)
	if err != nil {
		return fmt.Errorf("store track: %w", err)
	}
	return nil
}

// Prune keeps the maxEntries most recently used tracks and returns how many
// were removed. A non-positive maxEntries removes nothing.
func (s *Store) Prune(ctx context.Context, maxEntries int) (int64, error) {
	if maxEntries <= 0 {
		return 0, nil
	}
	res, err := s.execWithRetry(ctx,
		`DELETE FROM tracks WHERE key NOT IN (
		   SELECT key FROM tracks ORDER BY last_used_ns DESC, key LIMIT ?
		 )`, maxEntries)
	if err != nil {
		return 0, fmt.Errorf("prune tracks: %w", err)
	}
	return res.RowsAffected()
}

// Clear removes every cached track and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.execWithRetry(ctx, "DELETE FROM tracks")
	if err != nil {
		return 0, fmt.Errorf("clear tracks: %w", err)
	}
	return res.RowsAffected()
}

// Stats reports entry, cue and hit totals plus the database file size.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	ctx = ensureContext(ctx)
	stats := Stats{Path: s.path}
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1), COALESCE(SUM(cue_count), 0), COALESCE(SUM(hits), 0) FROM tracks",
	).Scan(&stats.Entries, &stats.Cues, &stats.Hits)
	if err != nil {
		return Stats{}, fmt.Errorf("track stats: %w", err)
	}
	if info, err := os.Stat(s.path); err == nil {
		stats.SizeBytes = info.Size()
	}
	return stats, nil
}
