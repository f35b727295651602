package listing

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/Everton617/CadCustomer/internal/model"
)

// State — состояние экрана списка клиентов
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePopulated
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// API — операции сервера, которыми управляет экран.
// Реализуется пакетом client.
type API interface {
	ListCustomers(ctx context.Context, ownerEmail string) ([]model.CustomerResponse, error)
	CreateCustomer(ctx context.Context, ownerEmail string, input model.CustomerInput) (*model.Customer, error)
	UpdateCustomer(ctx context.Context, id uuid.UUID, upd model.CustomerUpdate) (*model.Customer, error)
	DeleteCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error)
	CreateCard(ctx context.Context, customerID uuid.UUID, data model.CardData) (*model.CardResponse, error)
	DeleteCard(ctx context.Context, cardID uuid.UUID) (*model.CardResponse, error)
}

// Screen держит загруженный список в памяти и пересчитывает видимую
// страницу по текущему запросу. После каждой мутации список
// перечитывается с сервера целиком. Не безопасен для конкурентного
// использования: экран обслуживает одну интерактивную сессию.
type Screen struct {
	api        API
	ownerEmail string
	pageSize   int
	logger     *logrus.Logger

	state State
	err   error
	items []model.CustomerResponse
	query Query
	page  int
}

// NewScreen создает экран списка клиентов в состоянии idle
func NewScreen(api API, ownerEmail string, pageSize int, logger *logrus.Logger) *Screen {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Screen{
		api:        api,
		ownerEmail: ownerEmail,
		pageSize:   pageSize,
		logger:     logger,
		state:      StateIdle,
		page:       1,
	}
}

func (s *Screen) State() State { return s.state }

// Err возвращает ошибку последней загрузки в состоянии error
func (s *Screen) Err() error { return s.err }

// Refresh перечитывает список с сервера: loading → (populated | error)
func (s *Screen) Refresh(ctx context.Context) error {
	s.state = StateLoading
	s.logger.WithField("owner", s.ownerEmail).Debug("Загрузка списка клиентов")

	items, err := s.api.ListCustomers(ctx, s.ownerEmail)
	if err != nil {
		s.state = StateError
		s.err = err
		s.logger.WithError(err).Error("Не удалось загрузить список клиентов")
		return err
	}

	s.items = items
	s.state = StatePopulated
	s.err = nil
	return nil
}

// SetSearch устанавливает поисковую строку и сбрасывает страницу
func (s *Screen) SetSearch(search string) {
	s.query.Search = search
	s.page = 1
}

// SetNameFilter устанавливает фильтр точного совпадения имени
func (s *Screen) SetNameFilter(name string) {
	s.query.Name = name
	s.page = 1
}

// SetAddressFilter устанавливает фильтр подстроки адреса
func (s *Screen) SetAddressFilter(address string) {
	s.query.Address = address
	s.page = 1
}

// ToggleSort делает колонку активной; повторный вызов по той же колонке
// меняет направление сортировки
func (s *Screen) ToggleSort(column SortColumn) {
	if s.query.Order.Column == column {
		s.query.Order.Desc = !s.query.Order.Desc
	} else {
		s.query.Order = Order{Column: column}
	}
}

// Query возвращает текущие параметры фильтрации и сортировки
func (s *Screen) Query() Query { return s.query }

// SetPage переходит на указанную страницу
func (s *Screen) SetPage(page int) {
	if page < 1 {
		page = 1
	}
	s.page = page
}

// NextPage переходит на следующую страницу, если она есть
func (s *Screen) NextPage() {
	if s.page < s.Visible().TotalPages {
		s.page++
	}
}

// PrevPage переходит на предыдущую страницу
func (s *Screen) PrevPage() {
	if s.page > 1 {
		s.page--
	}
}

// Visible возвращает текущую страницу отфильтрованного и
// отсортированного списка
func (s *Screen) Visible() Page {
	return Paginate(Apply(s.items, s.query), s.page, s.pageSize)
}

// CreateCustomer создает клиента и перечитывает список
func (s *Screen) CreateCustomer(ctx context.Context, input model.CustomerInput) (*model.Customer, error) {
	customer, err := s.api.CreateCustomer(ctx, s.ownerEmail, input)
	if err != nil {
		return nil, err
	}
	return customer, s.Refresh(ctx)
}

// UpdateCustomer обновляет клиента и перечитывает список
func (s *Screen) UpdateCustomer(ctx context.Context, id uuid.UUID, upd model.CustomerUpdate) (*model.Customer, error) {
	customer, err := s.api.UpdateCustomer(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	return customer, s.Refresh(ctx)
}

// DeleteCustomer удаляет клиента вместе с картами и перечитывает список
func (s *Screen) DeleteCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	customer, err := s.api.DeleteCustomer(ctx, id)
	if err != nil {
		return nil, err
	}
	return customer, s.Refresh(ctx)
}

// CreateCard привязывает карту к клиенту и перечитывает список
func (s *Screen) CreateCard(ctx context.Context, customerID uuid.UUID, data model.CardData) (*model.CardResponse, error) {
	card, err := s.api.CreateCard(ctx, customerID, data)
	if err != nil {
		return nil, err
	}
	return card, s.Refresh(ctx)
}

// DeleteCard удаляет карту и перечитывает список
func (s *Screen) DeleteCard(ctx context.Context, cardID uuid.UUID) (*model.CardResponse, error) {
	card, err := s.api.DeleteCard(ctx, cardID)
	if err != nil {
		return nil, err
	}
	return card, s.Refresh(ctx)
}
