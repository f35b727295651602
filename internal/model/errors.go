package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Ошибки предметной области. Обработчики сопоставляют их со статусами HTTP.
var (
	ErrUserNotFound       = errors.New("пользователь не найден")
	ErrCustomerNotFound   = errors.New("клиент не найден")
	ErrCardNotFound       = errors.New("карта не найдена")
	ErrCustomerEmailTaken = errors.New("клиент с таким email уже существует")
	ErrCardNumberTaken    = errors.New("карта с таким номером уже существует")
)

// ValidationErrors содержит сообщения об ошибках по полям формы
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("ошибка валидации полей: %s", strings.Join(fields, ", "))
}

// AsValidationErrors извлекает карту ошибок валидации из цепочки ошибок
func AsValidationErrors(err error) (ValidationErrors, bool) {
	var verrs ValidationErrors
	if errors.As(err, &verrs) {
		return verrs, true
	}
	return nil, false
}
