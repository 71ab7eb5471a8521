package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind категория прикладной ошибки
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindForbidden
	KindConflict
	KindBadRequest
)

// String возвращает название категории
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindBadRequest:
		return "bad_request"
	default:
		return "unknown"
	}
}

// Params структурированный контекст ошибки (идентификаторы, временные метки)
type Params map[string]any

// Error прикладная ошибка с машиночитаемым кодом
// errors.Is сравнивает ошибки по коду, поэтому New(kind, code) годится как sentinel
type Error struct {
	Kind   Kind
	Code   string
	Params Params
}

// New создает ошибку без параметров
func New(kind Kind, code string) *Error {
	return &Error{Kind: kind, Code: code}
}

// NotFound создает ошибку "не найдено"
func NotFound(code string, params Params) *Error {
	return &Error{Kind: KindNotFound, Code: code, Params: params}
}

// Forbidden создает ошибку "доступ запрещён"
func Forbidden(code string, params Params) *Error {
	return &Error{Kind: KindForbidden, Code: code, Params: params}
}

// Conflict создает ошибку конфликта
func Conflict(code string, params Params) *Error {
	return &Error{Kind: KindConflict, Code: code, Params: params}
}

// BadRequest создает ошибку некорректного запроса
func BadRequest(code string, params Params) *Error {
	return &Error{Kind: KindBadRequest, Code: code, Params: params}
}

// Error реализует интерфейс error
func (e *Error) Error() string {
	if len(e.Params) == 0 {
		return e.Code
	}

	keys := make([]string, 0, len(e.Params))
	for k := range e.Params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, e.Params[k]))
	}

	return fmt.Sprintf("%s (%s)", e.Code, strings.Join(parts, ", "))
}

// Is сравнивает ошибки по коду
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// As извлекает *Error из цепочки ошибок
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf возвращает категорию ошибки, если это прикладная ошибка
func KindOf(err error) (Kind, bool) {
	appErr, ok := As(err)
	if !ok {
		return 0, false
	}
	return appErr.Kind, true
}
