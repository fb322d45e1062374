package repositories

import (
	stderrors "errors"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// translate maps driver and gorm errors onto the package sentinels.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, gorm.ErrRecordNotFound) {
		return errors.Wrap(ErrNotFound, op)
	}
	if IsDuplicateKey(err) {
		return errors.Wrap(ErrDuplicate, op)
	}
	return errors.Wrap(err, op)
}

// IsDuplicateKey detects unique-index violations across the MySQL, Postgres
// and SQLite drivers.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if stderrors.Is(err, gorm.ErrDuplicatedKey) || stderrors.Is(err, ErrDuplicate) {
		return true
	}
	var merr *mysql.MySQLError
	if stderrors.As(err, &merr) {
		return merr.Number == 1062
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") ||
		strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
