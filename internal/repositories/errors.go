package repositories

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anonto42/snapgram/backend/internal/models"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes surfaced as integrity errors
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

var validate = validator.New()

// translateError maps gorm and driver errors onto the models error taxonomy.
// resource and id only shape the not-found message.
func translateError(err error, resource string, id interface{}) error {
	if err == nil {
		return nil
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return models.NewNotFoundError(resource, id)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return models.NewIntegrityError(resource+" violates a uniqueness constraint", err)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return models.NewIntegrityError(resource+" references a missing record", err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return models.NewIntegrityError(resource+" violates a uniqueness constraint", err)
		case pgForeignKeyViolation:
			return models.NewIntegrityError(resource+" references a missing record", err)
		}
	}

	// sqlite reports constraint failures as plain text when untranslated
	if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
		return models.NewIntegrityError(resource+" violates a uniqueness constraint", err)
	} else if strings.Contains(msg, "FOREIGN KEY constraint failed") {
		return models.NewIntegrityError(resource+" references a missing record", err)
	}

	return models.NewInternalError(err)
}

// validateStruct runs the validate tags on v and reports the first failure.
func validateStruct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		if fe.Param() != "" {
			return models.NewValidationError(fmt.Sprintf("%s failed on the '%s=%s' rule", fe.Field(), fe.Tag(), fe.Param()))
		}
		return models.NewValidationError(fmt.Sprintf("%s failed on the '%s' rule", fe.Field(), fe.Tag()))
	}
	return models.NewValidationError(err.Error())
}

// rowExists reports whether a row of model has the given id.
func rowExists(tx *gorm.DB, model interface{}, resource string, id interface{}) (bool, error) {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translateError(err, resource, id)
	}
	return count > 0, nil
}

// requireRow fails with an integrity error when no row of model has the given id.
func requireRow(tx *gorm.DB, model interface{}, resource string, id interface{}) error {
	ok, err := rowExists(tx, model, resource, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewIntegrityError(fmt.Sprintf("%s with ID %v does not exist", resource, id), nil)
	}
	return nil
}

// requireFound is requireRow for the record being operated on: a missing
// row is a not-found error rather than a broken reference.
func requireFound(tx *gorm.DB, model interface{}, resource string, id interface{}) error {
	ok, err := rowExists(tx, model, resource, id)
	if err != nil {
		return err
	}
	if !ok {
		return models.NewNotFoundError(resource, id)
	}
	return nil
}
