package application

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrValidation         = errors.New("the given data was invalid")
	ErrPolicyDenied       = errors.New("this action is unauthorized")
	ErrNotFound           = errors.New("resource not found")
	ErrUploadFailed       = errors.New("failed to upload photo")
	ErrEmailTaken         = errors.New("the email has already been taken")
	ErrSelfDelete         = errors.New("you cannot delete your own account")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionUnavailable = errors.New("session store unavailable")
)

// ValidationError lists the offending fields. It matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Fields[k])
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
