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

// CardHandler обрабатывает запросы, связанные с картами клиентов
type CardHandler struct {
	cardService     *service.CardService
	customerService *service.CustomerService
	logger          *logrus.Logger
}

// NewCardHandler создает новый CardHandler
func NewCardHandler(cardService *service.CardService, customerService *service.CustomerService, logger *logrus.Logger) *CardHandler {
	return &CardHandler{
		cardService:     cardService,
		customerService: customerService,
		logger:          logger,
	}
}

// RegisterRoutes регистрирует маршруты для работы с картами
func (h *CardHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("", h.ListCustomers).Methods("GET")  // Дублирует список клиентов с картами
	router.HandleFunc("", h.CreateCard).Methods("POST")    // Привязка карты к клиенту
	router.HandleFunc("", h.DeleteCard).Methods("DELETE")  // Удаление карты
}

// CreateCardRequest — тело запроса на привязку карты
type CreateCardRequest struct {
	CustomerID uuid.UUID      `json:"customerId"`
	CardData   model.CardData `json:"cardData"`
}

// ListCustomers отдаёт тот же список клиентов с картами, что и /api/customers
func (h *CardHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		h.logger.Warn("Запрос списка карт без параметра email")
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "параметр email обязателен"})
		return
	}

	customers, err := h.customerService.ListCustomers(r.Context(), email)
	if err != nil {
		h.logger.WithError(err).Error("Ошибка получения списка клиентов с картами")
		respondError(w, h.logger, err)
		return
	}

	if customers == nil {
		customers = []model.CustomerResponse{}
	}

	respondJSON(w, h.logger, http.StatusOK, customers)
}

// CreateCard обрабатывает запрос на привязку карты к клиенту
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Warn("Ошибка декодирования запроса на создание карты")
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "неверный формат запроса"})
		return
	}

	if req.CustomerID == uuid.Nil {
		h.logger.Warn("Попытка создания карты без указания клиента")
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "customerId обязателен"})
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), req.CustomerID, req.CardData)
	if err != nil {
		h.logger.WithError(err).Error("Ошибка создания карты")
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusCreated, map[string]interface{}{
		"message": "Карта успешно добавлена",
		"card":    card,
	})
}

// DeleteCard обрабатывает запрос на удаление карты
func (h *CardHandler) DeleteCard(w http.ResponseWriter, r *http.Request) {
	cardID, err := uuid.Parse(r.URL.Query().Get("cardId"))
	if err != nil {
		h.logger.WithField("cardId", r.URL.Query().Get("cardId")).Warn("Неверный формат ID карты")
		respondJSON(w, h.logger, http.StatusBadRequest, map[string]string{"error": "неверный ID карты"})
		return
	}

	card, err := h.cardService.DeleteCard(r.Context(), cardID)
	if err != nil {
		h.logger.WithError(err).Error("Ошибка удаления карты")
		respondError(w, h.logger, err)
		return
	}

	respondJSON(w, h.logger, http.StatusOK, map[string]interface{}{
		"message": "Карта успешно удалена",
		"card":    card,
	})
}
