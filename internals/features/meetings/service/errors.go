// file: internals/features/meetings/service/errors.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Jenis error engine. Cocokkan dengan errors.Is(err, ErrNotFound) dst.
var (
	ErrValidation       = errors.New("validation error")
	ErrAccessDenied     = errors.New("access denied")
	ErrNotFound         = errors.New("not found")
	ErrDuplicateMeeting = errors.New("duplicate meeting")
	ErrNoChanges        = errors.New("no changes")
	ErrLockTimeout      = errors.New("lock timeout")
	ErrStorageFailure   = errors.New("storage failure")
)

// Error membawa Kind + pesan untuk user + penyebab asli (opsional).
type Error struct {
	Kind    error
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Kind != nil {
		msg = e.Kind.Error()
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool { return e.Kind == target }

func (e *Error) Unwrap() error { return e.Cause }

// Retryable: hanya LockTimeout & StorageFailure.
func (e *Error) Retryable() bool {
	return e.Kind == ErrLockTimeout || e.Kind == ErrStorageFailure
}

func newError(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func wrapError(kind error, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

func IsRetryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable()
	}
	return false
}

// KindOf mengembalikan kind dari err (nil kalau bukan *Error).
func KindOf(err error) error {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return nil
}

// --- DB error mapping ---
// 55P03 = lock_not_available, 40P01 = deadlock_detected, 57014 = query_canceled
// 23505 = unique_violation

func classifyDBError(err error, op string) error {
	if err == nil {
		return nil
	}
	var ee *Error
	if errors.As(err, &ee) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return wrapError(ErrNotFound, err, "%s: data tidak ditemukan", op)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "40P01", "57014":
			return wrapError(ErrLockTimeout, err, "%s: gagal mendapatkan lock, coba lagi", op)
		case "23505":
			return wrapError(ErrDuplicateMeeting, err, "%s: jadwal rapat bentrok", op)
		}
		return wrapError(ErrStorageFailure, err, "%s: database error", op)
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return wrapError(ErrLockTimeout, err, "%s: timeout", op)
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "database is locked"), strings.Contains(msg, "sqlite_busy"):
		return wrapError(ErrLockTimeout, err, "%s: database sibuk, coba lagi", op)
	case strings.Contains(msg, "unique constraint failed"):
		return wrapError(ErrDuplicateMeeting, err, "%s: jadwal rapat bentrok", op)
	}
	return wrapError(ErrStorageFailure, err, "%s: database error", op)
}
