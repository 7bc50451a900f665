package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"
)

// timeLayout is the on-disk timestamp format. Values are always written in
// UTC so string comparison in SQL follows chronological order.
const timeLayout = time.RFC3339

func timeToString(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// parseNullableTime parses a sql.NullString into a *time.Time.
// Returns nil if the value is NULL or empty.
func parseNullableTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// nullableTimeToString converts a *time.Time to a value suitable for SQLite storage.
// Returns nil (SQL NULL) if the pointer is nil.
func nullableTimeToString(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return timeToString(*t)
}

// placeholders returns "?, ?, ?" for n arguments along with the args slice.
func placeholders(ids []string) (string, []any) {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", "), args
}

// nowUTC returns the current UTC time formatted for storage.
func nowUTC() string {
	return timeToString(time.Now())
}

func wrapRowsErr(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("iterating %s: %w", what, err)
}
