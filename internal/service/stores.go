package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Everton617/CadCustomer/internal/model"
)

// Интерфейсы хранилищ. Реализуются пакетом repository,
// в тестах подменяются на in-memory реализации.

type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	ExistsByEmailOrUsername(ctx context.Context, email, username string) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}

type CustomerStore interface {
	Create(ctx context.Context, customer *model.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Customer, error)
	Update(ctx context.Context, id uuid.UUID, upd model.CustomerUpdate) (*model.Customer, error)
	Delete(ctx context.Context, id uuid.UUID) (*model.Customer, error)
}

type CardStore interface {
	Create(ctx context.Context, card *model.Card) error
	Delete(ctx context.Context, id uuid.UUID) (*model.Card, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Card, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Card, error)
	ListWithOwners(ctx context.Context) ([]model.CardOwner, error)
}
