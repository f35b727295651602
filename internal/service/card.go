package service

import (
	"bytes"
	"context"
	"crypto"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/armor"
	"golang.org/x/crypto/openpgp/packet"

	"github.com/Everton617/CadCustomer/internal/model"
)

// Карты считаются истекающими, если до конца месяца действия
// осталось не более 30 дней
const expiryNoticeWindow = 30 * 24 * time.Hour

type CardService struct {
	customerStore CustomerStore
	cardStore     CardStore
	emailSender   *EmailSender
	pgpKey        *openpgp.Entity
	hmacKey       []byte
	logger        *logrus.Logger
}

func NewCardService(
	customerStore CustomerStore,
	cardStore CardStore,
	emailSender *EmailSender,
	pgpKey *openpgp.Entity,
	hmacKey []byte,
	logger *logrus.Logger,
) *CardService {
	return &CardService{
		customerStore: customerStore,
		cardStore:     cardStore,
		emailSender:   emailSender,
		pgpKey:        pgpKey,
		hmacKey:       hmacKey,
		logger:        logger,
	}
}

// CreateCard привязывает новую карту к клиенту
func (s *CardService) CreateCard(ctx context.Context, customerID uuid.UUID, data model.CardData) (*model.CardResponse, error) {
	s.logger.WithField("customer_id", customerID).Info("Попытка создания новой карты")

	// 1. Валидация данных формы
	fields, verrs := data.Validate()
	if verrs != nil {
		s.logger.WithError(verrs).Warn("Данные карты не прошли валидацию")
		return nil, verrs
	}

	// 2. Проверяем, что клиент существует
	if _, err := s.customerStore.GetByID(ctx, customerID); err != nil {
		s.logger.WithError(err).Warn("Клиент для привязки карты не найден")
		return nil, err
	}

	// 3. Шифрование номера и срока действия
	cardData := fmt.Sprintf("%s|%s", fields.Number, fields.Expiry)
	encryptedData, err := s.encryptData(cardData)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при шифровании данных карты")
		return nil, err
	}

	// 4. HMAC номера: целостность и уникальный индекс
	numberHMAC := s.numberHMAC(fields.Number)

	// 5. Хеширование CVV
	cvvHash, err := bcrypt.GenerateFromPassword([]byte(fields.CVV), bcrypt.DefaultCost)
	if err != nil {
		s.logger.WithError(err).Error("Ошибка при хешировании CVV")
		return nil, err
	}

	// 6. Сохранение в базу данных
	card := &model.Card{
		ID:            uuid.New(),
		CustomerID:    customerID,
		EncryptedData: string(encryptedData),
		CVVHash:       string(cvvHash),
		NumberHMAC:    numberHMAC,
		CreatedAt:     time.Now(),
	}

	if err := s.cardStore.Create(ctx, card); err != nil {
		s.logger.WithError(err).Error("Ошибка при сохранении карты")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"card_id":     card.ID,
		"masked_card": maskCardNumber(fields.Number),
	}).Info("Карта успешно создана")

	return &model.CardResponse{
		ID:         card.ID,
		CustomerID: card.CustomerID,
		Number:     fields.Number,
		Expiry:     fields.Expiry,
		CreatedAt:  card.CreatedAt,
	}, nil
}

// DeleteCard удаляет карту и возвращает удаленную запись
func (s *CardService) DeleteCard(ctx context.Context, cardID uuid.UUID) (*model.CardResponse, error) {
	s.logger.WithField("card_id", cardID).Info("Удаление карты")

	card, err := s.cardStore.Delete(ctx, cardID)
	if err != nil {
		s.logger.WithError(err).Warn("Не удалось удалить карту")
		return nil, err
	}

	response, err := s.Decrypt(card)
	if err != nil {
		// Запись уже удалена: возвращаем хотя бы идентификаторы
		s.logger.WithError(err).Error("Не удалось расшифровать удаленную карту")
		return &model.CardResponse{ID: card.ID, CustomerID: card.CustomerID, CreatedAt: card.CreatedAt}, nil
	}

	s.logger.WithField("card_id", cardID).Info("Карта успешно удалена")
	return response, nil
}

// Decrypt восстанавливает данные карты для выдачи наружу и проверяет
// целостность номера по HMAC
func (s *CardService) Decrypt(card *model.Card) (*model.CardResponse, error) {
	data, err := s.decryptCardData(card.EncryptedData)
	if err != nil {
		return nil, fmt.Errorf("не удалось расшифровать данные карты %s: %w", card.ID, err)
	}

	expected := s.numberHMAC(data.Number)
	if !hmac.Equal([]byte(card.NumberHMAC), []byte(expected)) {
		s.logger.WithField("card_id", card.ID).Error("Нарушение целостности данных карты")
		return nil, fmt.Errorf("проверка целостности не пройдена для карты %s", card.ID)
	}

	return &model.CardResponse{
		ID:         card.ID,
		CustomerID: card.CustomerID,
		Number:     data.Number,
		Expiry:     data.Expiry,
		CreatedAt:  card.CreatedAt,
	}, nil
}

// NotifyExpiring рассылает владельцам уведомления о картах, срок действия
// которых заканчивается в ближайшие 30 дней. Запускается планировщиком.
func (s *CardService) NotifyExpiring(ctx context.Context) error {
	s.logger.Info("Поиск истекающих карт...")

	cards, err := s.cardStore.ListWithOwners(ctx)
	if err != nil {
		return fmt.Errorf("не удалось получить список карт: %w", err)
	}

	now := time.Now()
	notified := 0
	for _, card := range cards {
		data, err := s.decryptCardData(card.EncryptedData)
		if err != nil {
			s.logger.WithError(err).WithField("card_id", card.ID).Error("Ошибка расшифровки карты при проверке срока действия")
			continue
		}

		end, err := model.ExpiryEnd(data.Expiry, time.UTC)
		if err != nil {
			s.logger.WithError(err).WithField("card_id", card.ID).Warn("Карта с нераспознанным сроком действия")
			continue
		}

		// Уже истекла или истекает позже окна уведомления
		if end.Before(now) || end.Sub(now) > expiryNoticeWindow {
			continue
		}

		if err := s.emailSender.SendCardExpiryNotification(
			card.OwnerEmail,
			card.CustomerName,
			maskCardNumber(data.Number),
			data.Expiry,
		); err != nil {
			s.logger.WithError(err).Warn("Не удалось отправить уведомление об истекающей карте")
			continue
		}
		notified++
	}

	s.logger.WithField("notified", notified).Info("Проверка истекающих карт завершена")
	return nil
}

// numberHMAC вычисляет детерминированный HMAC-SHA256 канонического номера
func (s *CardService) numberHMAC(number string) string {
	h := hmac.New(sha256.New, s.hmacKey)
	h.Write([]byte(number))
	return fmt.Sprintf("%x", h.Sum(nil))
}

func (s *CardService) decryptCardData(encrypted string) (*model.CardData, error) {
	block, err := armor.Decode(strings.NewReader(encrypted))
	if err != nil {
		return nil, fmt.Errorf("не удалось декодировать armor: %w", err)
	}

	md, err := openpgp.ReadMessage(block.Body, openpgp.EntityList{s.pgpKey}, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка расшифровки: %w", err)
	}

	plaintext, err := io.ReadAll(md.UnverifiedBody)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать расшифрованные данные: %w", err)
	}

	parts := strings.Split(string(plaintext), "|")
	if len(parts) != 2 {
		return nil, fmt.Errorf("неверный формат данных карты")
	}

	return &model.CardData{
		Number: parts[0],
		Expiry: parts[1],
	}, nil
}

func (s *CardService) encryptData(data string) ([]byte, error) {
	buf := new(bytes.Buffer)

	armorWriter, err := armor.Encode(buf, "PGP MESSAGE", nil)
	if err != nil {
		return nil, fmt.Errorf("не удалось создать armor writer: %w", err)
	}

	config := &packet.Config{
		DefaultHash:            crypto.SHA256,
		DefaultCipher:          packet.CipherAES256,
		DefaultCompressionAlgo: packet.CompressionZLIB,
	}

	plaintextWriter, err := openpgp.Encrypt(armorWriter, []*openpgp.Entity{s.pgpKey}, nil, nil, config)
	if err != nil {
		armorWriter.Close()
		return nil, fmt.Errorf("не удалось создать writer для шифрования: %w", err)
	}

	if _, err := plaintextWriter.Write([]byte(data)); err != nil {
		armorWriter.Close()
		return nil, fmt.Errorf("ошибка при записи открытого текста: %w", err)
	}

	if err := plaintextWriter.Close(); err != nil {
		armorWriter.Close()
		return nil, fmt.Errorf("ошибка при закрытии writer текста: %w", err)
	}

	if err := armorWriter.Close(); err != nil {
		return nil, fmt.Errorf("ошибка при закрытии armor writer: %w", err)
	}

	return buf.Bytes(), nil
}

func maskCardNumber(number string) string {
	digits := strings.ReplaceAll(number, " ", "")
	if len(digits) < 4 {
		return "****"
	}
	return "**** **** **** " + digits[len(digits)-4:]
}
