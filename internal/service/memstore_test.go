package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Everton617/CadCustomer/internal/model"
)

// memStore — общая in-memory реализация хранилищ для тестов сервисов.
// Повторяет контракт пакета repository, включая каскадное удаление карт
// и уникальные индексы.
type memStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]model.User
	customers map[uuid.UUID]model.Customer
	cards     map[uuid.UUID]model.Card
}

func newMemStore() *memStore {
	return &memStore{
		users:     make(map[uuid.UUID]model.User),
		customers: make(map[uuid.UUID]model.Customer),
		cards:     make(map[uuid.UUID]model.Card),
	}
}

type memUserStore struct{ *memStore }
type memCustomerStore struct{ *memStore }
type memCardStore struct{ *memStore }

func (s *memStore) userStore() UserStore         { return memUserStore{s} }
func (s *memStore) customerStore() CustomerStore { return memCustomerStore{s} }
func (s *memStore) cardStore() CardStore         { return memCardStore{s} }

func (s memUserStore) Create(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = *user
	return nil
}

func (s memUserStore) FindByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email {
			u := user
			return &u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (s memUserStore) ExistsByEmailOrUsername(_ context.Context, email, username string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Email == email || user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (s memUserStore) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if user, ok := s.users[id]; ok {
		return &user, nil
	}
	return nil, model.ErrUserNotFound
}

func (s memCustomerStore) Create(_ context.Context, customer *model.Customer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.customers {
		if existing.UserID == customer.UserID && existing.Email == customer.Email {
			return model.ErrCustomerEmailTaken
		}
	}
	s.customers[customer.ID] = *customer
	return nil
}

func (s memCustomerStore) GetByID(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if customer, ok := s.customers[id]; ok {
		return &customer, nil
	}
	return nil, model.ErrCustomerNotFound
}

func (s memCustomerStore) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Customer
	for _, customer := range s.customers {
		if customer.UserID == userID {
			out = append(out, customer)
		}
	}
	return out, nil
}

func (s memCustomerStore) Update(_ context.Context, id uuid.UUID, upd model.CustomerUpdate) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.customers[id]
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	if upd.Name != nil {
		customer.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Lastname != nil {
		customer.Lastname = strings.TrimSpace(*upd.Lastname)
	}
	if upd.Email != nil {
		customer.Email = strings.TrimSpace(*upd.Email)
	}
	if upd.Birthdate != nil {
		birthDate, err := model.ParseBirthDate(*upd.Birthdate)
		if err != nil {
			return nil, err
		}
		customer.BirthDate = birthDate
	}
	if upd.Phone != nil {
		customer.Phone = strings.TrimSpace(*upd.Phone)
	}
	if upd.Address != nil {
		customer.Address = strings.TrimSpace(*upd.Address)
	}
	customer.UpdatedAt = time.Now()
	s.customers[id] = customer
	return &customer, nil
}

func (s memCustomerStore) Delete(_ context.Context, id uuid.UUID) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	customer, ok := s.customers[id]
	if !ok {
		return nil, model.ErrCustomerNotFound
	}
	delete(s.customers, id)
	// Каскадное удаление карт клиента
	for cardID, card := range s.cards {
		if card.CustomerID == id {
			delete(s.cards, cardID)
		}
	}
	return &customer, nil
}

func (s memCardStore) Create(_ context.Context, card *model.Card) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.cards {
		if existing.NumberHMAC == card.NumberHMAC {
			return model.ErrCardNumberTaken
		}
	}
	s.cards[card.ID] = *card
	return nil
}

func (s memCardStore) Delete(_ context.Context, id uuid.UUID) (*model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	card, ok := s.cards[id]
	if !ok {
		return nil, model.ErrCardNotFound
	}
	delete(s.cards, id)
	return &card, nil
}

func (s memCardStore) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Card
	for _, card := range s.cards {
		if card.CustomerID == customerID {
			out = append(out, card)
		}
	}
	return out, nil
}

func (s memCardStore) ListByUser(_ context.Context, userID uuid.UUID) ([]model.Card, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Card
	for _, card := range s.cards {
		customer, ok := s.customers[card.CustomerID]
		if ok && customer.UserID == userID {
			out = append(out, card)
		}
	}
	return out, nil
}

func (s memCardStore) ListWithOwners(_ context.Context) ([]model.CardOwner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.CardOwner
	for _, card := range s.cards {
		customer, ok := s.customers[card.CustomerID]
		if !ok {
			continue
		}
		user, ok := s.users[customer.UserID]
		if !ok {
			continue
		}
		out = append(out, model.CardOwner{
			Card:          card,
			CustomerName:  customer.Name,
			CustomerEmail: customer.Email,
			OwnerEmail:    user.Email,
		})
	}
	return out, nil
}
