package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Everton617/CadCustomer/internal/model"
)

type CustomerService struct {
	userStore     UserStore
	customerStore CustomerStore
	cardStore     CardStore
	cardService   *CardService
	emailSender   *EmailSender
	logger        *logrus.Logger
}

func NewCustomerService(
	userStore UserStore,
	customerStore CustomerStore,
	cardStore CardStore,
	cardService *CardService,
	emailSender *EmailSender,
	logger *logrus.Logger,
) *CustomerService {
	return &CustomerService{
		userStore:     userStore,
		customerStore: customerStore,
		cardStore:     cardStore,
		cardService:   cardService,
		emailSender:   emailSender,
		logger:        logger,
	}
}

// ListCustomers возвращает клиентов пользователя вместе с их картами.
// Пустой список — нормальный результат, а не ошибка.
func (s *CustomerService) ListCustomers(ctx context.Context, ownerEmail string) ([]model.CustomerResponse, error) {
	s.logger.WithField("owner", ownerEmail).Info("Запрос списка клиентов")

	user, err := s.userStore.FindByEmail(ctx, ownerEmail)
	if err != nil {
		s.logger.WithError(err).Warn("Владелец списка клиентов не найден")
		return nil, err
	}

	customers, err := s.customerStore.ListByUser(ctx, user.ID)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении клиентов")
		return nil, err
	}

	cards, err := s.cardStore.ListByUser(ctx, user.ID)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при получении карт клиентов")
		return nil, err
	}

	// Группируем расшифрованные карты по клиентам
	cardsByCustomer := make(map[uuid.UUID][]model.CardResponse)
	for i := range cards {
		response, err := s.cardService.Decrypt(&cards[i])
		if err != nil {
			s.logger.WithError(err).WithField("card_id", cards[i].ID).Error("Ошибка расшифровки карты")
			return nil, err
		}
		cardsByCustomer[cards[i].CustomerID] = append(cardsByCustomer[cards[i].CustomerID], *response)
	}

	responses := make([]model.CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		customerCards := cardsByCustomer[customer.ID]
		if customerCards == nil {
			customerCards = []model.CardResponse{}
		}
		responses = append(responses, model.CustomerResponse{
			Customer: customer,
			Cards:    customerCards,
		})
	}

	s.logger.WithField("count", len(responses)).Info("Список клиентов успешно получен")
	return responses, nil
}

// CreateCustomer создает нового клиента для пользователя
func (s *CustomerService) CreateCustomer(ctx context.Context, ownerEmail string, input model.CustomerInput) (*model.Customer, error) {
	s.logger.WithFields(logrus.Fields{
		"owner": ownerEmail,
		"email": input.Email,
	}).Info("Попытка создания нового клиента")

	fields, verrs := input.Validate()
	if verrs != nil {
		s.logger.WithError(verrs).Warn("Данные клиента не прошли валидацию")
		return nil, verrs
	}

	user, err := s.userStore.FindByEmail(ctx, ownerEmail)
	if err != nil {
		s.logger.WithError(err).Warn("Владелец для нового клиента не найден")
		return nil, err
	}

	now := time.Now()
	customer := &model.Customer{
		ID:        uuid.New(),
		UserID:    user.ID,
		Name:      fields.Name,
		Lastname:  fields.Lastname,
		Email:     fields.Email,
		BirthDate: fields.BirthDate,
		Phone:     fields.Phone,
		Address:   fields.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.customerStore.Create(ctx, customer); err != nil {
		s.logger.WithError(err).Error("Не удалось создать клиента")
		return nil, err
	}

	s.logger.WithField("customer_id", customer.ID).Info("Клиент успешно создан")

	// Приветственное письмо отправляем вне запроса
	go func() {
		if err := s.emailSender.SendCustomerWelcome(customer.Email, customer.Name); err != nil {
			s.logger.WithError(err).Warn("Не удалось отправить приветственное письмо")
		}
	}()

	return customer, nil
}

// UpdateCustomer применяет частичное обновление клиента
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, upd model.CustomerUpdate) (*model.Customer, error) {
	s.logger.WithField("customer_id", id).Info("Попытка обновления клиента")

	if upd.IsEmpty() {
		verrs := model.ValidationErrors{"fields": "не передано ни одного поля для обновления"}
		return nil, verrs
	}

	if verrs, err := upd.Validate(); err != nil {
		s.logger.WithError(verrs).Warn("Данные обновления не прошли валидацию")
		return nil, err
	}

	customer, err := s.customerStore.Update(ctx, id, upd)
	if err != nil {
		s.logger.WithError(err).Warn("Не удалось обновить клиента")
		return nil, err
	}

	s.logger.WithField("customer_id", customer.ID).Info("Клиент успешно обновлен")
	return customer, nil
}

// DeleteCustomer удаляет клиента вместе с его картами
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	s.logger.WithField("customer_id", id).Info("Попытка удаления клиента")

	customer, err := s.customerStore.Delete(ctx, id)
	if err != nil {
		s.logger.WithError(err).Warn("Не удалось удалить клиента")
		return nil, err
	}

	s.logger.WithField("customer_id", customer.ID).Info("Клиент и его карты успешно удалены")
	return customer, nil
}
