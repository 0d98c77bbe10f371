package infra

import (
	"context"
	"errors"
	"log/slog"

	"tour-checkout/internal/pkg/errs"
	"tour-checkout/internal/pkg/pgconv"

	"github.com/jackc/pgx/v5/pgconn"
)

type RepositoryErrorKind string

// RepositoryError is returned by every infrastructure adapter, database and
// remote service alike, so the use-case layer classifies failures one way.
type RepositoryError struct {
	Kind RepositoryErrorKind
	msg  string
	err  error // wrapped low-level error
}

func (e RepositoryError) Error() string {
	if e.err != nil {
		return string(e.Kind) + ": " + e.msg + ": " + e.err.Error()
	}
	return string(e.Kind) + ": " + e.msg
}

func (e RepositoryError) Unwrap() error {
	return e.err
}

// WrapRepoErr classifies err from its pg error code unless kind is given.
func WrapRepoErr(msg string, err error, kind ...RepositoryErrorKind) error {
	k := classifyDBError(err)
	if len(kind) > 0 {
		k = kind[0]
	}

	slog.Error("Repository error: "+msg, slog.String("kind", string(k)))

	if err != nil {
		err = errs.Wrap(err, msg)
	}
	return RepositoryError{Kind: k, msg: msg, err: err}
}

// NewError builds a classified error without logging; used by the remote
// service clients, whose callers decide the log level.
func NewError(kind RepositoryErrorKind, msg string, err error) error {
	if err != nil {
		err = errs.Wrap(err, msg)
	}
	return RepositoryError{Kind: kind, msg: msg, err: err}
}

func IsKind(err error, kind RepositoryErrorKind) bool {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

func KindOf(err error) (RepositoryErrorKind, bool) {
	var e RepositoryError
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}

func classifyDBError(err error) RepositoryErrorKind {
	if pgconv.IsNoRows(err) {
		return KindNotFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return KindDuplicateKey
		case "23503":
			return KindForeignKeyViolated
		}
	}
	return KindDBFailure
}

// Infrastructure-specific error kinds
const (
	KindNotFound           RepositoryErrorKind = "NOT_FOUND"
	KindDBFailure          RepositoryErrorKind = "DB_FAILURE"
	KindDuplicateKey       RepositoryErrorKind = "DUPLICATE_KEY"
	KindForeignKeyViolated RepositoryErrorKind = "FOREIGN_KEY_VIOLATED"

	// remote services
	KindTimeout      RepositoryErrorKind = "TIMEOUT"
	KindUnavailable  RepositoryErrorKind = "UNAVAILABLE"
	KindUnauthorized RepositoryErrorKind = "UNAUTHORIZED"
	KindConflict     RepositoryErrorKind = "CONFLICT"
	KindRejected     RepositoryErrorKind = "REJECTED"
	KindDeclined     RepositoryErrorKind = "DECLINED"
)
