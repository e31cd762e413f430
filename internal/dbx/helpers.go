package dbx

import (
	"database/sql"
	"fmt"

	"github.com/bsobat/inventra/internal/common"
)

// Nullable maps the empty string to NULL so optional text columns do not
// store empty strings.
func Nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// RequireRowAffected converts a zero-row UPDATE/DELETE into ErrorNotFound.
func RequireRowAffected(res sql.Result) error {
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrorNotFound
	}
	return nil
}
