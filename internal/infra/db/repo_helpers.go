package db

import (
	"errors"
	"fmt"

	"crmd/internal/domain"

	"github.com/jackc/pgx/v5/pgconn"
)

var errDBUnavailable = fmt.Errorf("%w: db unavailable", domain.ErrTransient)

const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// mapWriteError translates postgres constraint failures into domain errors.
// A foreign key violation on a tenant-keyed row means the tenant itself is
// gone.
func mapWriteError(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation:
			return fmt.Errorf("%w: referenced row does not exist", domain.ErrNotFound)
		case pgUniqueViolation:
			return fmt.Errorf("%w: duplicate row", domain.ErrConstraintViolation)
		}
	}
	return err
}
