package application

import "github.com/oksasatya/photo-gallery/pkg/validation"

func validate(v any) *ValidationError {
	if err := validation.Default().Struct(v); err != nil {
		return &ValidationError{Fields: validation.ToDetails(err)}
	}
	return nil
}

// merge folds extra field messages into err, allocating it when nil.
func merge(err *ValidationError, field, msg string) *ValidationError {
	if err == nil {
		return invalid(field, msg)
	}
	if _, ok := err.Fields[field]; !ok {
		err.Fields[field] = msg
	}
	return err
}
