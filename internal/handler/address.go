package handler

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Everton617/CadCustomer/internal/service"
)

// AddressHandler проксирует поиск адреса по почтовому индексу
type AddressHandler struct {
	viacep *service.ViaCEPClient
	logger *logrus.Logger
}

// NewAddressHandler создает новый AddressHandler
func NewAddressHandler(viacep *service.ViaCEPClient, logger *logrus.Logger) *AddressHandler {
	return &AddressHandler{viacep: viacep, logger: logger}
}

// RegisterRoutes регистрирует маршруты поиска адреса
func (h *AddressHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.LookupAddress).Methods("GET")
}

// LookupAddress возвращает адрес по CEP для автозаполнения формы
func (h *AddressHandler) LookupAddress(w http.ResponseWriter, r *http.Request) {
	cep := strings.TrimSpace(r.URL.Query().Get("cep"))
	if cep == "" {
		h.logger.Warn("Запрос адреса без параметра cep")
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "параметр cep обязателен"})
		return
	}

	address, err := h.viacep.Lookup(r.Context(), cep)
	if err != nil {
		h.logger.WithError(err).Warn("Не удалось найти адрес по CEP")
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"address": address,
		"line":    address.Line(),
	})
}
