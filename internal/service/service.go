package service

import (
	"errors"

	"compta-pme-api/internal/apperror"
	"compta-pme-api/pkg/validator"

	"gorm.io/gorm"
)

// validate runs struct validation and folds the failures into one error.
func validate(req interface{}) error {
	errs := validator.ValidateStruct(req)
	if len(errs) == 0 {
		return nil
	}
	return apperror.NewValidation("Validation failed: " + errs[0].String()).WithDetail("fields", errs)
}

// notFoundOr maps gorm's record-not-found onto the given NotFound error.
func notFoundOr(err error, notFound *apperror.AppError) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
