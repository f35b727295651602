package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/beevik/etree"
	"github.com/sirupsen/logrus"

	"github.com/Everton617/CadCustomer/internal/model"
)

// ErrCEPNotFound возвращается, когда сервис не знает такой почтовый индекс
var ErrCEPNotFound = errors.New("CEP не найден")

var cepRegex = regexp.MustCompile(`^\d{5}-\d{3}$`)

// Address — адрес, полученный по почтовому индексу
type Address struct {
	CEP          string `json:"cep"`
	Street       string `json:"street"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
}

// Line собирает однострочный адрес для автозаполнения формы
func (a Address) Line() string {
	return fmt.Sprintf("%s, %s - %s - %s - CEP: %s", a.Street, a.Neighborhood, a.City, a.State, a.CEP)
}

// ViaCEPClient — клиент публичного сервиса ViaCEP
type ViaCEPClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger
}

// NewViaCEPClient создаёт новый экземпляр клиента ViaCEP
func NewViaCEPClient(baseURL string, logger *logrus.Logger) *ViaCEPClient {
	return &ViaCEPClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		logger:  logger,
	}
}

// Lookup запрашивает адрес по 9-символьному коду вида 12345-678
func (c *ViaCEPClient) Lookup(ctx context.Context, cep string) (*Address, error) {
	if !cepRegex.MatchString(cep) {
		return nil, model.ValidationErrors{"cep": "CEP должен иметь формат 12345-678"}
	}

	c.logger.WithField("cep", cep).Info("Запрос адреса по CEP...")

	url := fmt.Sprintf("%s/%s/xml/", c.baseURL, cep)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("Ошибка при выполнении HTTP-запроса к ViaCEP")
		return nil, fmt.Errorf("ошибка при выполнении HTTP-запроса: %w", err)
	}
	defer resp.Body.Close()

	// Сервис отвечает 400 на коды неверной длины
	if resp.StatusCode != http.StatusOK {
		return nil, ErrCEPNotFound
	}

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ошибка при чтении ответа: %w", err)
	}

	address, err := parseCEPResponse(rawBody)
	if err != nil {
		c.logger.WithError(err).Warn("Не удалось разобрать ответ ViaCEP")
		return nil, err
	}

	c.logger.WithField("city", address.City).Info("Адрес успешно получен")
	return address, nil
}

// parseCEPResponse парсит XML-ответ ViaCEP и извлекает поля адреса
func parseCEPResponse(rawBody []byte) (*Address, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("ошибка при разборе XML: %w", err)
	}

	root := doc.FindElement("//xmlcep")
	if root == nil {
		return nil, errors.New("элемент <xmlcep> отсутствует в ответе")
	}

	// Для неизвестного индекса сервис возвращает <erro>true</erro>
	if erro := root.FindElement("./erro"); erro != nil && erro.Text() == "true" {
		return nil, ErrCEPNotFound
	}

	text := func(name string) string {
		if el := root.FindElement("./" + name); el != nil {
			return el.Text()
		}
		return ""
	}

	return &Address{
		CEP:          text("cep"),
		Street:       text("logradouro"),
		Neighborhood: text("bairro"),
		City:         text("localidade"),
		State:        text("uf"),
	}, nil
}
