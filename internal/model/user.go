package model

import (
	"time"
	"unicode"

	"github.com/google/uuid"
)

// User — пользователь системы, владелец клиентов
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Username  string    `json:"username" db:"username"`
	Email     string    `json:"email" db:"email"`
	Password  string    `json:"-" db:"password"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type SignUpInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate проверяет данные регистрации
func (u SignUpInput) Validate() (ValidationErrors, error) {
	verrs := ValidationErrors{}

	if len(u.Username) < 3 || len(u.Username) > 50 {
		verrs["username"] = "имя пользователя должно содержать от 3 до 50 символов"
	}
	if !emailRegex.MatchString(u.Email) {
		verrs["email"] = "неверный формат email"
	}
	if !isStrongPassword(u.Password) {
		verrs["password"] = "пароль должен содержать минимум 8 символов, заглавную и строчную буквы, цифру и специальный символ"
	}

	if len(verrs) > 0 {
		return verrs, verrs
	}
	return nil, nil
}

func isStrongPassword(password string) bool {
	var hasUpper, hasLower, hasNumber, hasSpecial bool

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	return hasUpper && hasLower && hasNumber && hasSpecial && len(password) >= 8
}
