package postgres

import (
	"strings"

	domainerrors "membership/internal/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// classifyCreateError turns an insert failure into a conflict on a natural key
// or a generic store fault.
func classifyCreateError(err error) error {
	if key, ok := uniqueViolationKey(err); ok {
		return domainerrors.NewConflictError(key, err)
	}

	return domainerrors.NewStoreError("create member", err)
}

// uniqueViolationKey reports whether err is a uniqueness violation and, if so,
// which natural key collided.
func uniqueViolationKey(err error) (domainerrors.ConflictKey, bool) {
	if err == nil {
		return "", false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code != pgUniqueViolation {
			return "", false
		}

		return conflictKeyFrom(pgErr.ConstraintName + " " + pgErr.Detail), true
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.ConflictUnknown, true
	}

	// sqlite: "UNIQUE constraint failed: registration.email"
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "unique constraint failed") {
		return conflictKeyFrom(msg), true
	}

	return "", false
}

func conflictKeyFrom(s string) domainerrors.ConflictKey {
	s = strings.ToLower(s)

	switch {
	case strings.Contains(s, "id_number"):
		return domainerrors.ConflictIDNumber
	case strings.Contains(s, "email"):
		return domainerrors.ConflictEmail
	case strings.Contains(s, "phone"):
		return domainerrors.ConflictPhone
	default:
		return domainerrors.ConflictUnknown
	}
}
