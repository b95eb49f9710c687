package repository

import (
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/arogyahq/care-platform/internal/core/domain"
)

// asNotFound rewrites the driver's empty-result error into a domain
// not-found so a missing row and a row owned by someone else look the same
// to callers.
func asNotFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.NotFound(msg)
	}
	return err
}

// jsonbValue marshals a map for a jsonb column, writing an empty object
// rather than SQL NULL for nil maps.
func jsonbValue(m map[string]any) ([]byte, error) {
	if m == nil {
		m = map[string]any{}
	}
	return json.Marshal(m)
}

func scanJSONB(raw []byte, dst *map[string]any) error {
	if len(raw) == 0 {
		*dst = map[string]any{}
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// requireRow turns a zero-row UPDATE or DELETE into a domain not-found.
func requireRow(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.NotFound(msg)
	}
	return nil
}
