package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"paygate/internal/repository"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx, so the
// same repository code runs inside and outside a unit of work.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// orderClause builds an ORDER BY from a per-repository column whitelist.
// Unknown sort fields fall back to the default column so caller input
// never reaches SQL as an identifier.
func orderClause(columns map[string]string, page repository.Pagination, defaultColumn string) string {
	column, ok := columns[page.SortBy]
	if !ok {
		column = defaultColumn
	}

	direction := "DESC"
	if strings.EqualFold(page.SortOrder, "ASC") {
		direction = "ASC"
	}

	return fmt.Sprintf("ORDER BY %s %s", column, direction)
}
