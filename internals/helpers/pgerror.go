package helper

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// MapDBError converts a persistence error into a *fiber.Error.
// Unknown errors become a generic 500; the caller is expected to have logged the cause.
func MapDBError(err error, notFoundMsg string) error {
	if err == nil {
		return nil
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if notFoundMsg == "" {
			notFoundMsg = "Not found"
		}
		return fiber.NewError(fiber.StatusNotFound, notFoundMsg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return fiber.NewError(fiber.StatusConflict, "Duplicate value violates a unique constraint")
		case pgForeignKeyViolation:
			return fiber.NewError(fiber.StatusBadRequest, "Referenced record does not exist")
		case pgCheckViolation, pgNotNullViolation:
			return fiber.NewError(fiber.StatusBadRequest, "Value violates a table constraint")
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fiber.NewError(fiber.StatusConflict, "Duplicate value violates a unique constraint")
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return fiber.NewError(fiber.StatusBadRequest, "Referenced record does not exist")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "Internal server error")
}
