package rules

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("rules: internal error")
)
