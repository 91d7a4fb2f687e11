package mysql

import (
	"context"
	"errors"
	"fmt"

	driver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"

	"leave-engine/internal/domain/leave"
)

// MySQL server error numbers that mean "try again", plus the strict-mode
// rejection of a value too large for its column.
const (
	errLockWaitTimeout = 1205
	errDeadlock        = 1213
	errOutOfRange      = 1264
)

// translate maps storage failures onto the engine's error kinds and leaves
// everything else untouched.
func translate(err error, what string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, leave.ErrNotFound) || errors.Is(err, leave.ErrStorageTimeout) || errors.Is(err, leave.ErrStorageConflict) {
		return err
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", what, leave.ErrNotFound)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s: %w", what, leave.ErrStorageConflict)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", what, leave.ErrStorageTimeout, err)
	}
	var me *driver.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case errLockWaitTimeout:
			return fmt.Errorf("%s: %w: %w", what, leave.ErrStorageTimeout, err)
		case errDeadlock:
			return fmt.Errorf("%s: %w: %w", what, leave.ErrStorageConflict, err)
		case errOutOfRange:
			return fmt.Errorf("%s: %w", what, leave.Invalid("value", "is out of range"))
		}
	}
	return err
}
