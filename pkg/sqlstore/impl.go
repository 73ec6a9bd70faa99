/*
 * Copyright (c) 2026-present unTill Software Development Group B.V.
 */

package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/untillpro/goutils/logger"
	"gorm.io/gorm"

	"github.com/voedger/schemacat/pkg/ecdef"
)

// # Implements:
//   - IStore
type store struct {
	params  Params
	db      *gorm.DB
	sqlDB   *sql.DB
	stmts   *lru.Cache[string, *sql.Stmt]
	ids     *ids
	profile ecdef.SchemaVersion
	spSeq   uint64
}

func (s *store) Gorm(ctx context.Context) *gorm.DB { return s.db.WithContext(ctx) }

func (s *store) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if s.params.ReadOnly {
		return nil, ErrReadOnly
	}
	stmt, err := s.stmt(ctx, query)
	if err != nil {
		return nil, err
	}
	res, err := stmt.ExecContext(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("exec «%s»: %w", query, translateError(err))
	}
	return res, nil
}

func (s *store) ExecDDL(ctx context.Context, ddl string) error {
	if s.params.ReadOnly {
		return ErrReadOnly
	}
	if logger.IsVerbose() {
		logger.Verbose(ddl)
	}
	// cached statements may refer to changed objects
	s.stmts.Purge()
	if _, err := s.sqlDB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("exec «%s»: %w", ddl, translateError(err))
	}
	return nil
}

func (s *store) Query(ctx context.Context, query string, args []any, cb func(*sql.Rows) error) (err error) {
	stmt, err := s.stmt(ctx, query)
	if err != nil {
		return err
	}
	rows, err := stmt.QueryContext(ctx, args...)
	if err != nil {
		return fmt.Errorf("query «%s»: %w", query, err)
	}
	defer func() {
		if e := rows.Close(); err == nil {
			err = e
		}
	}()
	for rows.Next() {
		if err := cb(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (s *store) QueryRow(ctx context.Context, query string, args []any, dest ...any) (bool, error) {
	stmt, err := s.stmt(ctx, query)
	if err != nil {
		return false, err
	}
	err = stmt.QueryRowContext(ctx, args...).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query «%s»: %w", query, err)
	}
	return true, nil
}

func (s *store) Savepoint(ctx context.Context, name string) (ISavepoint, error) {
	s.spSeq++
	sp := &savepoint{s: s, name: fmt.Sprintf("%s_%d", name, s.spSeq)}
	if _, err := s.sqlDB.ExecContext(ctx, "SAVEPOINT "+quote(sp.name)); err != nil {
		return nil, fmt.Errorf("savepoint «%s»: %w", sp.name, err)
	}
	return sp, nil
}

func (s *store) ReadOnly() bool { return s.params.ReadOnly }

func (s *store) ProfileVersion() ecdef.SchemaVersion { return s.profile }

func (s *store) IDs() IIDs { return s.ids }

func (s *store) ColumnLimit() int { return s.params.ColumnLimit }

func (s *store) Attach(ctx context.Context, path, name string) error {
	if err := checkTableSpaceName(name); err != nil {
		return err
	}
	attached, err := s.IsAttached(ctx, name)
	if err != nil {
		return err
	}
	if attached {
		return fmt.Errorf("%w: «%s»", ErrTableSpaceAlreadyAttached, name)
	}
	s.stmts.Purge()
	if _, err := s.sqlDB.ExecContext(ctx, "ATTACH DATABASE ? AS "+quote(name), path); err != nil {
		return fmt.Errorf("attach «%s» as «%s»: %w", path, name, err)
	}
	logger.Info(fmt.Sprintf("table space «%s» attached from «%s»", name, path))
	return nil
}

func (s *store) Detach(ctx context.Context, name string) error {
	if err := checkTableSpaceName(name); err != nil {
		return err
	}
	attached, err := s.IsAttached(ctx, name)
	if err != nil {
		return err
	}
	if !attached {
		return fmt.Errorf("%w: «%s»", ErrTableSpaceNotAttached, name)
	}
	s.stmts.Purge()
	if _, err := s.sqlDB.ExecContext(ctx, "DETACH DATABASE "+quote(name)); err != nil {
		return fmt.Errorf("detach «%s»: %w", name, err)
	}
	logger.Info(fmt.Sprintf("table space «%s» detached", name))
	return nil
}

func (s *store) IsAttached(ctx context.Context, name string) (bool, error) {
	found := false
	err := s.Query(ctx, "PRAGMA database_list", nil, func(rows *sql.Rows) error {
		var (
			seq      int
			db, file string
		)
		if err := rows.Scan(&seq, &db, &file); err != nil {
			return err
		}
		if strings.EqualFold(db, name) {
			found = true
		}
		return nil
	})
	return found, err
}

func (s *store) TableExists(ctx context.Context, tableSpace, table string) (bool, error) {
	return s.masterExists(ctx, tableSpace, "table", table)
}

func (s *store) ViewExists(ctx context.Context, tableSpace, view string) (bool, error) {
	return s.masterExists(ctx, tableSpace, "view", view)
}

func (s *store) masterExists(ctx context.Context, tableSpace, objType, name string) (bool, error) {
	cnt := 0
	query := fmt.Sprintf("SELECT count(*) FROM %s.sqlite_master WHERE type = ? AND name = ? COLLATE NOCASE", quote(tableSpace))
	if _, err := s.QueryRow(ctx, query, []any{objType, name}, &cnt); err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (s *store) IndexSQL(ctx context.Context, tableSpace, index string) (string, bool, error) {
	ddl := sql.NullString{}
	query := fmt.Sprintf("SELECT sql FROM %s.sqlite_master WHERE type = 'index' AND name = ? COLLATE NOCASE", quote(tableSpace))
	ok, err := s.QueryRow(ctx, query, []any{index}, &ddl)
	if err != nil || !ok {
		return "", false, err
	}
	return ddl.String, true, nil
}

func (s *store) TableColumns(ctx context.Context, tableSpace, table string) ([]string, error) {
	var cols []string
	query := fmt.Sprintf("PRAGMA %s.table_info(%s)", quote(tableSpace), quote(table))
	err := s.Query(ctx, query, nil, func(rows *sql.Rows) error {
		var (
			cid, notNull, pk int
			name, typ        string
			dflt             any
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return err
		}
		cols = append(cols, name)
		return nil
	})
	return cols, err
}

func (s *store) Close() error {
	s.stmts.Purge()
	return s.sqlDB.Close()
}

func (s *store) stmt(ctx context.Context, query string) (*sql.Stmt, error) {
	if stmt, ok := s.stmts.Get(query); ok {
		return stmt, nil
	}
	stmt, err := s.sqlDB.PrepareContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("prepare «%s»: %w", query, err)
	}
	s.stmts.Add(query, stmt)
	return stmt, nil
}

func (s *store) onStmtEvicted(_ string, stmt *sql.Stmt) {
	if err := stmt.Close(); err != nil {
		// notest
		logger.Error("close statement:", err)
	}
}

// # Implements:
//   - ISavepoint
type savepoint struct {
	s    *store
	name string
	done bool
}

func (sp *savepoint) Name() string { return sp.name }

func (sp *savepoint) Release(ctx context.Context) error {
	if sp.done {
		return fmt.Errorf("savepoint «%s» is already finished", sp.name)
	}
	sp.done = true
	if _, err := sp.s.sqlDB.ExecContext(ctx, "RELEASE SAVEPOINT "+quote(sp.name)); err != nil {
		return fmt.Errorf("release savepoint «%s»: %w", sp.name, err)
	}
	return nil
}

func (sp *savepoint) Rollback(ctx context.Context) error {
	if sp.done {
		return fmt.Errorf("savepoint «%s» is already finished", sp.name)
	}
	sp.done = true
	sp.s.stmts.Purge()
	sp.s.ids.Reset()
	if _, err := sp.s.sqlDB.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+quote(sp.name)); err != nil {
		return fmt.Errorf("rollback to savepoint «%s»: %w", sp.name, err)
	}
	if _, err := sp.s.sqlDB.ExecContext(ctx, "RELEASE SAVEPOINT "+quote(sp.name)); err != nil {
		return fmt.Errorf("release savepoint «%s»: %w", sp.name, err)
	}
	return nil
}
