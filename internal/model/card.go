package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Допустимый диапазон года действия карты (20YY)
const (
	ExpiryYearMin = 25
	ExpiryYearMax = 35
)

var expiryRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)

// Card — запись карты. Номер и срок действия хранятся в зашифрованном
// виде, CVV — только как bcrypt-хеш.
type Card struct {
	ID            uuid.UUID `json:"id" db:"id"`
	CustomerID    uuid.UUID `json:"customer_id" db:"customer_id"`
	EncryptedData string    `json:"-" db:"encrypted_data"` // PGP (номер+срок)
	CVVHash       string    `json:"-" db:"cvv_hash"`       // bcrypt-хеш
	NumberHMAC    string    `json:"-" db:"number_hmac"`    // HMAC-SHA256, уникальный индекс
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// CardResponse — карта в ответе API: номер группами по четыре цифры
type CardResponse struct {
	ID         uuid.UUID `json:"id"`
	CustomerID uuid.UUID `json:"customer_id"`
	Number     string    `json:"number"`
	Expiry     string    `json:"expiry"`
	CreatedAt  time.Time `json:"created_at"`
}

// CardOwner — карта вместе с данными владельца для рассылки уведомлений
type CardOwner struct {
	Card
	CustomerName  string
	CustomerEmail string
	OwnerEmail    string
}

// CardData — данные формы добавления карты
type CardData struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// CardFields — нормализованные значения после валидации
type CardFields struct {
	Number string // канонический вид: четыре блока по четыре цифры
	Expiry string // MM/YY
	CVV    string
}

// Validate проверяет данные карты и возвращает либо нормализованные
// значения, либо карту ошибок по полям
func (c CardData) Validate() (*CardFields, ValidationErrors) {
	verrs := ValidationErrors{}

	digits, ok := normalizeCardNumber(c.Number)
	if !ok {
		verrs["number"] = "номер карты должен состоять ровно из 16 цифр"
	}

	expiry := strings.TrimSpace(c.Expiry)
	m := expiryRegex.FindStringSubmatch(expiry)
	if m == nil {
		verrs["expiry"] = "срок действия должен быть в формате MM/YY"
	} else {
		yy, _ := strconv.Atoi(m[2])
		if yy < ExpiryYearMin || yy > ExpiryYearMax {
			verrs["expiry"] = fmt.Sprintf("год действия должен быть в диапазоне %d-%d", ExpiryYearMin, ExpiryYearMax)
		}
	}

	cvv := strings.TrimSpace(c.CVV)
	if len(cvv) != 3 || !isDigits(cvv) {
		verrs["cvv"] = "CVV должен состоять ровно из 3 цифр"
	}

	if len(verrs) > 0 {
		return nil, verrs
	}

	return &CardFields{
		Number: FormatCardNumber(digits),
		Expiry: expiry,
		CVV:    cvv,
	}, nil
}

// FormatCardNumber форматирует 16 цифр в четыре блока по четыре
func FormatCardNumber(digits string) string {
	if len(digits) != 16 {
		return digits
	}
	return digits[0:4] + " " + digits[4:8] + " " + digits[8:12] + " " + digits[12:16]
}

// normalizeCardNumber убирает пробелы группировки и требует ровно 16 цифр
func normalizeCardNumber(s string) (string, bool) {
	digits := strings.ReplaceAll(strings.TrimSpace(s), " ", "")
	if len(digits) != 16 || !isDigits(digits) {
		return "", false
	}
	return digits, true
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

// ExpiryEnd возвращает последний момент месяца действия карты
func ExpiryEnd(expiry string, loc *time.Location) (time.Time, error) {
	m := expiryRegex.FindStringSubmatch(expiry)
	if m == nil {
		return time.Time{}, fmt.Errorf("неверный формат срока действия: %q", expiry)
	}
	mm, _ := strconv.Atoi(m[1])
	yy, _ := strconv.Atoi(m[2])
	if loc == nil {
		loc = time.UTC
	}
	// Первый день следующего месяца минус наносекунда
	firstNext := time.Date(2000+yy, time.Month(mm), 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
	return firstNext.Add(-time.Nanosecond), nil
}
