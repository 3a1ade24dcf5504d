// Package repository is the generic sqlx table gateway embedded by every
// domain repository. Columns are derived from the `db`, `table` and `column`
// struct tags of T, and filters are rendered by dto.FilterGroup as named
// parameters.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"tourdesk/infras/otel"
	"tourdesk/infras/postgres"
	"tourdesk/shared/constant"
	"tourdesk/shared/dto"
	"tourdesk/shared/logger"

	"github.com/jmoiron/sqlx"
)

var (
	ErrRequiredFilter = errors.New("required filter")
	errEmptyUpdate    = errors.New("nothing to update")
)

type column struct {
	name  string
	table string
	alias string
}

type execer interface {
	NamedExecContext(ctx context.Context, query string, arg any) (sql.Result, error)
}

type preparer interface {
	PrepareNamedContext(ctx context.Context, query string) (*sqlx.NamedStmt, error)
}

type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entitas       string
	primaryColumn string
	columns       []column
	join          string
	InsertColumns []string
}

// NewRepository reads the column layout of T once. A T with a GetJoinQuery
// method gets that clause appended to every select.
func NewRepository[T any](entitasName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	var zero T

	columns, insertColumns := getColumns(tableName, reflect.TypeOf(zero))

	join := ""
	if method := reflect.ValueOf(zero).MethodByName("GetJoinQuery"); method.IsValid() {
		if out := method.Call(nil); len(out) > 0 {
			join = out[0].String()
		}
	}

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entitas:       entitasName,
		primaryColumn: primaryColumn,
		columns:       columns,
		join:          join,
		InsertColumns: insertColumns,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, op string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entitas, op))
}

// fail records err on the span and wraps it with the failed action.
func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entitas, err)
}

// run prepares query as a named statement and scans into dest, a slice
// pointer when many is set. Errors come back unwrapped for the caller to fail.
func (repo *Repository[T]) run(ctx context.Context, scope otel.Scope, prep preparer, query string, args map[string]any, dest any, many bool) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := prep.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	if many {
		return stmt.SelectContext(ctx, dest, args) //nolint:wrapcheck
	}

	return stmt.GetContext(ctx, dest, args) //nolint:wrapcheck
}

func (repo *Repository[T]) exec(ctx context.Context, scope otel.Scope, exec execer, query string, arg any, action string) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := exec.NamedExecContext(ctx, query, arg); err != nil {
		return repo.fail(scope, action, err)
	}

	return nil
}

func (repo *Repository[T]) insert(ctx context.Context, exec execer, model T) error {
	ctx, scope := repo.scope(ctx, "insert")
	defer scope.End()

	placeholders := make([]string, 0, len(repo.InsertColumns))
	for _, col := range repo.InsertColumns {
		placeholders = append(placeholders, ":"+col)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))

	return repo.exec(ctx, scope, exec, query, model, "insert data")
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.scope(ctx, "Insert")
	defer scope.End()

	return repo.insert(ctx, repo.db.Write, model)
}

func (repo *Repository[T]) InsertTx(ctx context.Context, sqltx *sqlx.Tx, model T) error {
	ctx, scope := repo.scope(ctx, "InsertTx")
	defer scope.End()

	return repo.insert(ctx, sqltx, model)
}

// Exist refuses an empty filter rather than asking whether the table has rows.
func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return false, ErrRequiredFilter
	}

	exist := false
	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)

	if err := repo.run(ctx, scope, repo.db.Read, query, args, &exist, false); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

func (repo *Repository[T]) get(ctx context.Context, prep preparer, filter dto.FilterGroup, lock string, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "get")
	defer scope.End()

	var model T

	where, args := repo.BuildWhereClause(ctx, filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s", repo.getSelectQuery(columns...), repo.table, repo.join, where, lock)

	err := repo.run(ctx, scope, prep, query, args, &model, false)
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

// Get returns the zero value of T when no row matches.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	return repo.get(ctx, repo.db.Read, filter, "", columns...)
}

// GetForUpdateTx reads through the transaction and locks the matched rows
// until it ends. Joined models lock only their own table.
func (repo *Repository[T]) GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "GetForUpdateTx")
	defer scope.End()

	lock := "FOR UPDATE"
	if repo.join != "" {
		lock = "FOR UPDATE OF " + repo.table
	}

	return repo.get(ctx, sqltx, filter, lock, columns...)
}

// GetAll pages with LIMIT/OFFSET. SortBy is interpolated, callers pass it
// through QueryParams.Sanitize first.
func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)

	var ordering, pagination string

	switch {
	case params.Page > 0 && params.Limit > 0:
		args["limit"] = params.Limit
		args["offset"] = (params.Page - 1) * params.Limit
		pagination = "LIMIT :limit OFFSET :offset"
	case params.Limit > 0:
		args["limit"] = params.Limit
		pagination = "LIMIT :limit"
	}

	if params.SortBy != "" && params.SortDir != "" {
		ordering = fmt.Sprintf("ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	query := fmt.Sprintf("SELECT %s FROM %s %s %s %s %s",
		repo.getSelectQuery(columns...), repo.table, repo.join, where, ordering, pagination)

	var models []T

	if err := repo.run(ctx, scope, repo.db.Read, query, args, &models, true); err != nil {
		return models, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where)

	var count int

	if err := repo.run(ctx, scope, repo.db.Read, query, args, &count, false); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

func (repo *Repository[T]) delete(ctx context.Context, exec execer, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "delete")
	defer scope.End()

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return ErrRequiredFilter
	}

	return repo.exec(ctx, scope, exec, fmt.Sprintf("DELETE FROM %s %s", repo.table, where), args, "delete data")
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Delete")
	defer scope.End()

	return repo.delete(ctx, repo.db.Write, filter)
}

func (repo *Repository[T]) DeleteTx(ctx context.Context, sqltx *sqlx.Tx, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "DeleteTx")
	defer scope.End()

	return repo.delete(ctx, sqltx, filter)
}

// update sets columns in sorted order so the statement text is stable.
// A mod value overwrites a filter arg of the same name.
func (repo *Repository[T]) update(ctx context.Context, exec execer, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "update")
	defer scope.End()

	if len(mod) == 0 {
		return errEmptyUpdate
	}

	where, args := repo.BuildWhereClause(ctx, filter)
	if where == "" {
		return ErrRequiredFilter
	}

	sets := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		sets = append(sets, fmt.Sprintf("%s = :%s", col, col))
	}

	maps.Copy(args, mod)

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(sets, ", "), where)

	return repo.exec(ctx, scope, exec, query, args, "update data")
}

func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Update")
	defer scope.End()

	return repo.update(ctx, repo.db.Write, mod, filter)
}

func (repo *Repository[T]) UpdateTx(ctx context.Context, sqltx *sqlx.Tx, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "UpdateTx")
	defer scope.End()

	return repo.update(ctx, sqltx, mod, filter)
}

// getSelectQuery lists the selected columns qualified by table, limited to
// only when given.
func (repo *Repository[T]) getSelectQuery(only ...string) string {
	columns := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		switch {
		case col.table == "":
			columns = append(columns, col.name)
		case col.alias != "":
			columns = append(columns, fmt.Sprintf("%s.%s AS %s", col.table, col.name, col.alias))
		default:
			columns = append(columns, fmt.Sprintf("%s.%s", col.table, col.name))
		}
	}

	return strings.Join(columns, ", ")
}

// BuildWhereClause renders filter as a WHERE clause. The returned args map
// is never nil so callers can add paging params to it.
func (repo *Repository[T]) BuildWhereClause(_ context.Context, filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return fmt.Sprintf(" WHERE %s ", where), args
}

// getColumns walks T's fields. Embedded structs are flattened; fields tagged
// with another table are selectable but never inserted.
func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for i := range reflectType.NumField() {
		field := reflectType.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			col, insertCol := getColumns(table, field.Type)
			columns = append(columns, col...)
			insertColumns = append(insertColumns, insertCol...)
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" {
			continue
		}

		tableField := field.Tag.Get("table")
		if tableField == "" {
			tableField = table
		}

		if tableField == table {
			insertColumns = append(insertColumns, dbTag)
		}

		if colTag := field.Tag.Get("column"); colTag != "" {
			columns = append(columns, column{name: colTag, table: tableField, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: tableField})
		}
	}

	return columns, insertColumns
}
