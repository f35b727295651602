package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/Everton617/CadCustomer/internal/model"
	"github.com/Everton617/CadCustomer/internal/service"
)

// respondJSON сериализует ответ и устанавливает заголовки
func respondJSON(w http.ResponseWriter, logger *logrus.Logger, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.WithError(err).Error("Ошибка кодирования ответа")
	}
}

// respondError сопоставляет ошибки предметной области со статусами HTTP:
// валидация — 400, отсутствие записи — 404, дубликат — 409, остальное — 500
func respondError(w http.ResponseWriter, logger *logrus.Logger, err error) {
	if verrs, ok := model.AsValidationErrors(err); ok {
		respondJSON(w, logger, http.StatusBadRequest, map[string]interface{}{
			"error":  "ошибка валидации",
			"fields": verrs,
		})
		return
	}

	switch {
	case errors.Is(err, model.ErrUserNotFound),
		errors.Is(err, model.ErrCustomerNotFound),
		errors.Is(err, model.ErrCardNotFound),
		errors.Is(err, service.ErrCEPNotFound):
		respondJSON(w, logger, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, model.ErrCustomerEmailTaken),
		errors.Is(err, model.ErrCardNumberTaken):
		respondJSON(w, logger, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		respondJSON(w, logger, http.StatusInternalServerError, map[string]string{"error": "внутренняя ошибка сервера"})
	}
}
