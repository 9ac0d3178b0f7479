package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// OpError tags a failed call with the table and operation it was issued
// against. Each call is attempted once.
type OpError struct {
	Table string
	Op    string
	Err   error
}

func (e *OpError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Table, e.Err)
}

func (e *OpError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func wrap(table, op string, err error) error {
	if err == nil {
		return nil
	}
	if isNoRows(err) {
		err = ErrNotFound
	} else if isUniqueViolation(err) {
		err = fmt.Errorf("%w: %v", ErrDuplicate, err)
	}
	return &OpError{Table: table, Op: op, Err: err}
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
