package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/Everton617/CadCustomer/internal/model"
	"github.com/Everton617/CadCustomer/internal/service"
)

// CustomerHandler обрабатывает запросы, связанные с клиентами
type CustomerHandler struct {
	customerService *service.CustomerService
	logger          *logrus.Logger
}

// NewCustomerHandler создает новый CustomerHandler
func NewCustomerHandler(customerService *service.CustomerService, logger *logrus.Logger) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
		logger:          logger,
	}
}

// RegisterRoutes регистрирует маршруты для работы с клиентами
func (h *CustomerHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.ListCustomers).Methods("GET")      // Список клиентов владельца
	router.HandleFunc("", h.CreateCustomer).Methods("POST")    // Создание клиента
	router.HandleFunc("", h.DeleteCustomer).Methods("DELETE")  // Удаление клиента с картами
	router.HandleFunc("/{id}", h.UpdateCustomer).Methods("PUT") // Частичное обновление клиента
}

// ListCustomers возвращает клиентов пользователя вместе с картами.
// Отсутствие клиентов — нормальный результат: 200 и пустой список.
func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		h.logger.Warn("Запрос списка клиентов без параметра email")
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "параметр email обязателен"})
		return
	}

	customers, err := h.customerService.ListCustomers(r.Context(), email)
	if err != nil {
		h.logger.WithError(err).Error("Ошибка получения списка клиентов")
		respondError(w, h.logger, err)
		return
	}

	if customers == nil {
		customers = []model.CustomerResponse{}
	}

	respondJSON(w, h.logger, http.StatusOK, customers)
}

// CreateCustomer обрабатывает запрос на создание нового клиента
func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	userEmail := strings.TrimSpace(r.URL.Query().Get("userEmail"))
	if userEmail == "" {
		h.logger.Warn("Попытка создания клиента без параметра userEmail")
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "параметр userEmail обязателен"})
		return
	}

	var input model.CustomerInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.logger.WithError(err).Warn("Ошибка декодирования запроса на создание клиента")
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "неверный формат запроса"})
		return
	}

	customer, err := h.customerService.CreateCustomer(r.Context(), userEmail, input)
	if err != nil {
		h.logger.WithError(err).Error("Ошибка создания клиента")
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"message":  "Клиент успешно создан",
		"customer": customer,
	})
}

// UpdateCustomer обрабатывает запрос на частичное обновление клиента
func (h *CustomerHandler) UpdateCustomer(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	customerID, err := uuid.Parse(vars["id"])
	if err != nil {
		h.logger.WithField("id", vars["id"]).Warn("Неверный формат ID клиента")
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "неверный ID клиента"})
		return
	}

	var upd model.CustomerUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		h.logger.WithError(err).Warn("Ошибка декодирования запроса на обновление клиента")
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "неверный формат запроса"})
		return
	}

	customer, err := h.customerService.UpdateCustomer(r.Context(), customerID, upd)
	if err != nil {
		h.logger.WithError(err).Error("Ошибка обновления клиента")
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":  "Клиент успешно обновлен",
		"customer": customer,
	})
}

// DeleteCustomer обрабатывает запрос на удаление клиента вместе с картами
func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	customerID, err := uuid.Parse(r.URL.Query().Get("customerId"))
	if err != nil {
		h.logger.WithField("customerId", r.URL.Query().Get("customerId")).Warn("Неверный формат ID клиента")
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "неверный ID клиента"})
		return
	}

	customer, err := h.customerService.DeleteCustomer(r.Context(), customerID)
	if err != nil {
		h.logger.WithError(err).Error("Ошибка удаления клиента")
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message":  "Клиент успешно удален",
		"customer": customer,
	})
}
