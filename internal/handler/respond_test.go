package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Everton617/CadCustomer/internal/model"
	"github.com/Everton617/CadCustomer/internal/service"
)

func newHandlerLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestRespondError_StatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"user not found", model.ErrUserNotFound, http.StatusNotFound},
		{"customer not found", model.ErrCustomerNotFound, http.StatusNotFound},
		{"card not found", model.ErrCardNotFound, http.StatusNotFound},
		{"cep not found", service.ErrCEPNotFound, http.StatusNotFound},
		{"duplicate email", model.ErrCustomerEmailTaken, http.StatusConflict},
		{"duplicate card", model.ErrCardNumberTaken, http.StatusConflict},
		{"wrapped sentinel", wrapErr(model.ErrCustomerNotFound), http.StatusNotFound},
		{"unknown error", errors.New("что-то сломалось"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondError(rec, newHandlerLogger(), tc.err)
			assert.Equal(t, tc.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var payload map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
			assert.NotEmpty(t, payload["error"])
		})
	}
}

func wrapErr(err error) error {
	return fmt.Errorf("контекст: %w", err)
}

func TestRespondError_ValidationFields(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, newHandlerLogger(), model.ValidationErrors{
		"email": "неверный формат email",
		"phone": "телефон должен содержать не менее 10 символов",
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var payload struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "ошибка валидации", payload.Error)
	assert.Contains(t, payload.Fields, "email")
	assert.Contains(t, payload.Fields, "phone")
}

func TestRespondError_InternalErrorIsOpaque(t *testing.T) {
	rec := httptest.NewRecorder()
	respondError(rec, newHandlerLogger(), errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	// Детали внутренней ошибки не утекают наружу
	assert.NotContains(t, rec.Body.String(), "pq:")
}
