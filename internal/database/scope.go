package database

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/capitaldesk/desk/internal/errors"
)

// TenantColumn is the column every tenant-owned table carries.
const TenantColumn = "tenant_id"

var (
	// ErrMissingTenant is returned when a query is built from a scope without a tenant.
	ErrMissingTenant = apperrors.Wrap(apperrors.ErrUnauthorized, "query scope has no tenant")

	// ErrMalformedQuery is returned when placeholders and arguments disagree.
	ErrMalformedQuery = apperrors.New("malformed scoped query")
)

// Dialect selects the placeholder style used when rendering a query.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// DialectFor maps a database/sql driver name to its dialect.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "postgres":
		return DialectPostgres, nil
	case "mysql":
		return DialectMySQL, nil
	default:
		return "", fmt.Errorf("unsupported database driver: %s", driver)
	}
}

// Query is a rendered statement ready for ExecContext/QueryContext.
type Query struct {
	SQL  string
	Args []any
}

// Scope binds every statement it builds to one tenant.
//
// The zero Scope is unusable: builders created from it fail with ErrMissingTenant,
// so a repository cannot issue a tenant-owned query without a tenant id.
type Scope struct {
	tenantID uuid.UUID
}

// NewScope returns a scope for the given tenant. The id must come from the
// authenticated principal, never from request input.
func NewScope(tenantID uuid.UUID) (Scope, error) {
	if tenantID == uuid.Nil {
		return Scope{}, ErrMissingTenant
	}
	return Scope{tenantID: tenantID}, nil
}

// TenantID returns the tenant this scope is bound to.
func (s Scope) TenantID() uuid.UUID {
	return s.tenantID
}

// Valid reports whether the scope carries a tenant.
func (s Scope) Valid() bool {
	return s.tenantID != uuid.Nil
}

type clause struct {
	expr string
	args []any
}

// whereClause renders the tenant predicate followed by the caller's clauses.
func (s Scope) whereClause(clauses []clause) (string, []any, error) {
	var sb strings.Builder
	args := []any{s.tenantID}

	sb.WriteString(" WHERE ")
	sb.WriteString(TenantColumn)
	sb.WriteString(" = ?")

	for _, c := range clauses {
		if n := countPlaceholders(c.expr); n != len(c.args) {
			return "", nil, fmt.Errorf("%w: %q expects %d args, got %d",
				ErrMalformedQuery, c.expr, n, len(c.args))
		}
		sb.WriteString(" AND (")
		sb.WriteString(c.expr)
		sb.WriteString(")")
		args = append(args, c.args...)
	}

	return sb.String(), args, nil
}

// SelectBuilder builds a tenant-scoped SELECT.
type SelectBuilder struct {
	scope     Scope
	table     string
	columns   []string
	where     []clause
	groupBy   string
	orderBy   string
	limit     int
	offset    int
	forUpdate bool
}

// Select starts a SELECT of columns from table.
func (s Scope) Select(table string, columns ...string) *SelectBuilder {
	return &SelectBuilder{scope: s, table: table, columns: columns}
}

// Where adds an AND-ed predicate using "?" placeholders.
func (b *SelectBuilder) Where(expr string, args ...any) *SelectBuilder {
	b.where = append(b.where, clause{expr: expr, args: args})
	return b
}

// GroupBy sets the GROUP BY expression.
func (b *SelectBuilder) GroupBy(expr string) *SelectBuilder {
	b.groupBy = expr
	return b
}

// OrderBy sets the ORDER BY expression.
func (b *SelectBuilder) OrderBy(expr string) *SelectBuilder {
	b.orderBy = expr
	return b
}

// Limit sets LIMIT; zero means no limit.
func (b *SelectBuilder) Limit(n int) *SelectBuilder {
	b.limit = n
	return b
}

// Offset sets OFFSET; only rendered together with Limit.
func (b *SelectBuilder) Offset(n int) *SelectBuilder {
	b.offset = n
	return b
}

// ForUpdate appends FOR UPDATE.
func (b *SelectBuilder) ForUpdate() *SelectBuilder {
	b.forUpdate = true
	return b
}

// Build renders the statement for the dialect.
func (b *SelectBuilder) Build(d Dialect) (Query, error) {
	if !b.scope.Valid() {
		return Query{}, ErrMissingTenant
	}
	if len(b.columns) == 0 {
		return Query{}, fmt.Errorf("%w: select without columns", ErrMalformedQuery)
	}

	where, args, err := b.scope.whereClause(b.where)
	if err != nil {
		return Query{}, err
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(strings.Join(b.columns, ", "))
	sb.WriteString(" FROM ")
	sb.WriteString(b.table)
	sb.WriteString(where)

	if b.groupBy != "" {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(b.groupBy)
	}
	if b.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(b.orderBy)
	}
	if b.limit > 0 {
		sb.WriteString(" LIMIT ?")
		args = append(args, b.limit)
		if b.offset > 0 {
			sb.WriteString(" OFFSET ?")
			args = append(args, b.offset)
		}
	}
	if b.forUpdate {
		sb.WriteString(" FOR UPDATE")
	}

	return Query{SQL: Rebind(d, sb.String()), Args: args}, nil
}

// InsertBuilder builds a tenant-scoped INSERT. The tenant column is always set.
type InsertBuilder struct {
	scope   Scope
	table   string
	columns []string
	values  []any
}

// Insert starts an INSERT into table.
func (s Scope) Insert(table string) *InsertBuilder {
	return &InsertBuilder{scope: s, table: table}
}

// Set adds a column value.
func (b *InsertBuilder) Set(column string, value any) *InsertBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

// Build renders the statement for the dialect.
func (b *InsertBuilder) Build(d Dialect) (Query, error) {
	if !b.scope.Valid() {
		return Query{}, ErrMissingTenant
	}
	for _, col := range b.columns {
		if col == TenantColumn {
			return Query{}, fmt.Errorf("%w: %s is set by the scope", ErrMalformedQuery, TenantColumn)
		}
	}

	columns := append([]string{TenantColumn}, b.columns...)
	args := append([]any{b.scope.tenantID}, b.values...)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	sql := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		b.table, strings.Join(columns, ", "), placeholders)

	return Query{SQL: Rebind(d, sql), Args: args}, nil
}

// UpdateBuilder builds a tenant-scoped UPDATE.
type UpdateBuilder struct {
	scope   Scope
	table   string
	columns []string
	values  []any
	where   []clause
}

// Update starts an UPDATE of table.
func (s Scope) Update(table string) *UpdateBuilder {
	return &UpdateBuilder{scope: s, table: table}
}

// Set adds a column assignment.
func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.columns = append(b.columns, column)
	b.values = append(b.values, value)
	return b
}

// Where adds an AND-ed predicate using "?" placeholders.
func (b *UpdateBuilder) Where(expr string, args ...any) *UpdateBuilder {
	b.where = append(b.where, clause{expr: expr, args: args})
	return b
}

// Build renders the statement for the dialect.
func (b *UpdateBuilder) Build(d Dialect) (Query, error) {
	if !b.scope.Valid() {
		return Query{}, ErrMissingTenant
	}
	if len(b.columns) == 0 {
		return Query{}, fmt.Errorf("%w: update without assignments", ErrMalformedQuery)
	}

	sets := make([]string, 0, len(b.columns))
	for _, col := range b.columns {
		if col == TenantColumn {
			return Query{}, fmt.Errorf("%w: %s cannot be reassigned", ErrMalformedQuery, TenantColumn)
		}
		sets = append(sets, col+" = ?")
	}

	where, whereArgs, err := b.scope.whereClause(b.where)
	if err != nil {
		return Query{}, err
	}

	sql := "UPDATE " + b.table + " SET " + strings.Join(sets, ", ") + where
	args := append(append([]any{}, b.values...), whereArgs...)

	return Query{SQL: Rebind(d, sql), Args: args}, nil
}

// DeleteBuilder builds a tenant-scoped DELETE.
type DeleteBuilder struct {
	scope Scope
	table string
	where []clause
}

// Delete starts a DELETE from table.
func (s Scope) Delete(table string) *DeleteBuilder {
	return &DeleteBuilder{scope: s, table: table}
}

// Where adds an AND-ed predicate using "?" placeholders.
func (b *DeleteBuilder) Where(expr string, args ...any) *DeleteBuilder {
	b.where = append(b.where, clause{expr: expr, args: args})
	return b
}

// Build renders the statement for the dialect.
func (b *DeleteBuilder) Build(d Dialect) (Query, error) {
	if !b.scope.Valid() {
		return Query{}, ErrMissingTenant
	}
	where, args, err := b.scope.whereClause(b.where)
	if err != nil {
		return Query{}, err
	}
	return Query{SQL: Rebind(d, "DELETE FROM "+b.table+where), Args: args}, nil
}

// scanPlaceholders calls fn for every byte of query, reporting whether it is a "?"
// placeholder outside single-quoted literals.
func scanPlaceholders(query string, fn func(ch byte, placeholder bool)) {
	inQuote := false
	for i := 0; i < len(query); i++ {
		ch := query[i]
		if ch == '\'' {
			inQuote = !inQuote
		}
		fn(ch, ch == '?' && !inQuote)
	}
}

func countPlaceholders(query string) int {
	n := 0
	scanPlaceholders(query, func(_ byte, placeholder bool) {
		if placeholder {
			n++
		}
	})
	return n
}

// Rebind rewrites "?" placeholders to "$n" for PostgreSQL. Placeholders inside
// single-quoted literals are left alone.
func Rebind(d Dialect, query string) string {
	if d != DialectPostgres {
		return query
	}

	var sb strings.Builder
	sb.Grow(len(query) + 8)

	n := 0
	scanPlaceholders(query, func(ch byte, placeholder bool) {
		if !placeholder {
			sb.WriteByte(ch)
			return
		}
		n++
		sb.WriteByte('$')
		sb.WriteString(strconv.Itoa(n))
	})
	return sb.String()
}
