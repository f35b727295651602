package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Customer представляет клиента, принадлежащего пользователю системы
type Customer struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Lastname  string    `json:"lastname" db:"lastname"`
	Email     string    `json:"email" db:"email"`
	BirthDate time.Time `json:"birthdate" db:"birth_date"`
	Phone     string    `json:"phone" db:"phone"`
	Address   string    `json:"address" db:"address"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CustomerResponse — клиент вместе с расшифрованными картами для выдачи наружу
type CustomerResponse struct {
	Customer
	Cards []CardResponse `json:"cards"`
}

// CustomerInput — данные формы создания клиента
type CustomerInput struct {
	Name      string `json:"name"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	Birthdate string `json:"birthdate"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
}

// CustomerFields — нормализованные значения после валидации
type CustomerFields struct {
	Name      string
	Lastname  string
	Email     string
	BirthDate time.Time
	Phone     string
	Address   string
}

// Validate проверяет данные формы и возвращает либо нормализованные
// значения, либо карту ошибок по полям
func (in CustomerInput) Validate() (*CustomerFields, ValidationErrors) {
	verrs := ValidationErrors{}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		verrs["name"] = "имя обязательно"
	}

	lastname := strings.TrimSpace(in.Lastname)
	if lastname == "" {
		verrs["lastname"] = "фамилия обязательна"
	}

	email := strings.TrimSpace(in.Email)
	if !emailRegex.MatchString(email) {
		verrs["email"] = "неверный формат email"
	}

	birthDate, err := ParseBirthDate(in.Birthdate)
	if err != nil {
		verrs["birthdate"] = "неверная дата рождения"
	}

	phone := strings.TrimSpace(in.Phone)
	if len(phone) < 10 {
		verrs["phone"] = "телефон должен содержать не менее 10 символов"
	} else if len(phone) > 15 {
		verrs["phone"] = "телефон должен содержать не более 15 символов"
	}

	address := strings.TrimSpace(in.Address)
	if address == "" {
		verrs["address"] = "адрес обязателен"
	}

	if len(verrs) > 0 {
		return nil, verrs
	}

	return &CustomerFields{
		Name:      name,
		Lastname:  lastname,
		Email:     email,
		BirthDate: birthDate,
		Phone:     phone,
		Address:   address,
	}, nil
}

// CustomerUpdate — частичное обновление клиента: nil означает «не менять»
type CustomerUpdate struct {
	Name      *string `json:"name"`
	Lastname  *string `json:"lastname"`
	Email     *string `json:"email"`
	Birthdate *string `json:"birthdate"`
	Phone     *string `json:"phone"`
	Address   *string `json:"address"`
}

// Validate проверяет только переданные поля
func (u CustomerUpdate) Validate() (ValidationErrors, error) {
	verrs := ValidationErrors{}

	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		verrs["name"] = "имя обязательно"
	}
	if u.Lastname != nil && strings.TrimSpace(*u.Lastname) == "" {
		verrs["lastname"] = "фамилия обязательна"
	}
	if u.Email != nil && !emailRegex.MatchString(strings.TrimSpace(*u.Email)) {
		verrs["email"] = "неверный формат email"
	}
	if u.Birthdate != nil {
		if _, err := ParseBirthDate(*u.Birthdate); err != nil {
			verrs["birthdate"] = "неверная дата рождения"
		}
	}
	if u.Phone != nil {
		if len(*u.Phone) < 10 || len(*u.Phone) > 15 {
			verrs["phone"] = "телефон должен содержать от 10 до 15 символов"
		}
	}
	if u.Address != nil && strings.TrimSpace(*u.Address) == "" {
		verrs["address"] = "адрес обязателен"
	}

	if len(verrs) > 0 {
		return verrs, verrs
	}
	return nil, nil
}

// IsEmpty сообщает, что обновление не содержит ни одного поля
func (u CustomerUpdate) IsEmpty() bool {
	return u.Name == nil && u.Lastname == nil && u.Email == nil &&
		u.Birthdate == nil && u.Phone == nil && u.Address == nil
}

// ParseBirthDate принимает дату в формате RFC3339 или YYYY-MM-DD
func ParseBirthDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
