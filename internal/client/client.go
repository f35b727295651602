// Package client — HTTP клиент API учета клиентов. Используется
// экраном списка (internal/listing) и консольной оболочкой.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Everton617/CadCustomer/internal/model"
	"github.com/Everton617/CadCustomer/internal/service"
)

type Client struct {
	base  string
	http  *http.Client
	token string // JWT, выданный сервером при входе
}

func New(base string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{base: strings.TrimRight(base, "/"), http: hc}
}

// SetToken устанавливает JWT для защищенных маршрутов
func (c *Client) SetToken(token string) { c.token = token }

// SignIn выполняет вход и запоминает выданный токен
func (c *Client) SignIn(ctx context.Context, email, password string) error {
	var resp struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/auth/signin", nil, model.SignInInput{
		Email:    email,
		Password: password,
	}, &resp)
	if err != nil {
		return err
	}
	c.token = resp.Token
	return nil
}

// SignUp регистрирует нового пользователя
func (c *Client) SignUp(ctx context.Context, input model.SignUpInput) error {
	return c.do(ctx, http.MethodPost, "/auth/signup", nil, input, nil)
}

// ListCustomers возвращает клиентов владельца вместе с картами
func (c *Client) ListCustomers(ctx context.Context, ownerEmail string) ([]model.CustomerResponse, error) {
	var customers []model.CustomerResponse
	err := c.do(ctx, http.MethodGet, "/api/customers", url.Values{"email": {ownerEmail}}, nil, &customers)
	if err != nil {
		return nil, err
	}
	return customers, nil
}

// CreateCustomer создает нового клиента
func (c *Client) CreateCustomer(ctx context.Context, ownerEmail string, input model.CustomerInput) (*model.Customer, error) {
	var resp struct {
		Customer *model.Customer `json:"customer"`
	}
	err := c.do(ctx, http.MethodPost, "/api/customers", url.Values{"userEmail": {ownerEmail}}, input, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Customer, nil
}

// UpdateCustomer применяет частичное обновление клиента
func (c *Client) UpdateCustomer(ctx context.Context, id uuid.UUID, upd model.CustomerUpdate) (*model.Customer, error) {
	var resp struct {
		Customer *model.Customer `json:"customer"`
	}
	err := c.do(ctx, http.MethodPut, "/api/customers/"+id.String(), nil, upd, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Customer, nil
}

// DeleteCustomer удаляет клиента вместе с картами
func (c *Client) DeleteCustomer(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	var resp struct {
		Customer *model.Customer `json:"customer"`
	}
	err := c.do(ctx, http.MethodDelete, "/api/customers", url.Values{"customerId": {id.String()}}, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Customer, nil
}

// CreateCard привязывает карту к клиенту
func (c *Client) CreateCard(ctx context.Context, customerID uuid.UUID, data model.CardData) (*model.CardResponse, error) {
	body := struct {
		CustomerID uuid.UUID      `json:"customerId"`
		CardData   model.CardData `json:"cardData"`
	}{CustomerID: customerID, CardData: data}

	var resp struct {
		Card *model.CardResponse `json:"card"`
	}
	err := c.do(ctx, http.MethodPost, "/api/cards", nil, body, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Card, nil
}

// DeleteCard удаляет карту
func (c *Client) DeleteCard(ctx context.Context, cardID uuid.UUID) (*model.CardResponse, error) {
	var resp struct {
		Card *model.CardResponse `json:"card"`
	}
	err := c.do(ctx, http.MethodDelete, "/api/cards", url.Values{"cardId": {cardID.String()}}, nil, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Card, nil
}

// LookupAddress ищет адрес по почтовому индексу для автозаполнения
func (c *Client) LookupAddress(ctx context.Context, cep string) (*service.Address, string, error) {
	var resp struct {
		Address *service.Address `json:"address"`
		Line    string           `json:"line"`
	}
	err := c.do(ctx, http.MethodGet, "/api/address", url.Values{"cep": {cep}}, nil, &resp)
	if err != nil {
		return nil, "", err
	}
	return resp.Address, resp.Line, nil
}

// do выполняет запрос и декодирует ответ. Ошибки сервера преобразуются
// в ошибки с текстом из поля error тела ответа.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out interface{}) error {
	target := c.base + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("не удалось сериализовать запрос: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return c.asError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("не удалось декодировать ответ: %w", err)
		}
	}
	return nil
}

func (c *Client) asError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var payload struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && payload.Error != "" {
		if len(payload.Fields) > 0 {
			return model.ValidationErrors(payload.Fields)
		}
		return fmt.Errorf("сервер вернул %d: %s", resp.StatusCode, payload.Error)
	}

	return fmt.Errorf("сервер вернул %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))
}
