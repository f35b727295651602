package service

import (
	"crypto"
	"crypto/rand"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/openpgp"
	"golang.org/x/crypto/openpgp/packet"
)

var testHMACKey = []byte("0123456789abcdef0123456789abcdef")

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// newTestEntity генерирует короткий RSA ключ, чтобы не замедлять тесты
func newTestEntity(t *testing.T) *openpgp.Entity {
	t.Helper()
	config := &packet.Config{
		Rand:          rand.Reader,
		RSABits:       1024,
		DefaultHash:   crypto.SHA256,
		DefaultCipher: packet.CipherAES256,
	}
	entity, err := openpgp.NewEntity("test", "", "test@example.com", config)
	require.NoError(t, err)
	return entity
}

// newTestServices собирает сервисы поверх общего in-memory хранилища
func newTestServices(t *testing.T) (*memStore, *CustomerService, *CardService) {
	t.Helper()
	store := newMemStore()
	logger := newTestLogger()
	emailSender := NewEmailSender(logger)

	cardService := NewCardService(
		store.customerStore(),
		store.cardStore(),
		emailSender,
		newTestEntity(t),
		testHMACKey,
		logger,
	)
	customerService := NewCustomerService(
		store.userStore(),
		store.customerStore(),
		store.cardStore(),
		cardService,
		emailSender,
		logger,
	)
	return store, customerService, cardService
}
