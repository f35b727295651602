package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Everton617/CadCustomer/internal/model"
)

func seedCustomer(t *testing.T, store *memStore, customers *CustomerService) *model.Customer {
	t.Helper()
	seedUser(t, store, "owner@example.com")
	created, err := customers.CreateCustomer(context.Background(), "owner@example.com", validCustomerInput())
	require.NoError(t, err)
	return created
}

func TestCreateCard_EncryptsAndFormats(t *testing.T) {
	store, customers, cards := newTestServices(t)
	customer := seedCustomer(t, store, customers)

	card, err := cards.CreateCard(context.Background(), customer.ID, model.CardData{
		Number: "1111222233334444",
		Expiry: "12/30",
		CVV:    "123",
	})
	require.NoError(t, err)

	// Номер в ответе сгруппирован по четыре цифры
	assert.Equal(t, "1111 2222 3333 4444", card.Number)
	assert.Equal(t, "12/30", card.Expiry)
	assert.Equal(t, customer.ID, card.CustomerID)

	// В хранилище ни номер, ни CVV не лежат в открытом виде
	stored, err := store.cardStore().ListByCustomer(context.Background(), customer.ID)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.NotContains(t, stored[0].EncryptedData, "1111")
	assert.NotContains(t, stored[0].CVVHash, "123")

	// Расшифровка восстанавливает данные для выдачи
	decrypted, err := cards.Decrypt(&stored[0])
	require.NoError(t, err)
	assert.Equal(t, "1111 2222 3333 4444", decrypted.Number)
	assert.Equal(t, "12/30", decrypted.Expiry)
}

func TestCreateCard_CustomerNotFound(t *testing.T) {
	store, _, cards := newTestServices(t)

	_, err := cards.CreateCard(context.Background(), uuid.New(), model.CardData{
		Number: "1111222233334444",
		Expiry: "12/30",
		CVV:    "123",
	})
	assert.ErrorIs(t, err, model.ErrCustomerNotFound)

	// Запись не должна была сохраниться
	all, err := store.cardStore().ListWithOwners(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestCreateCard_InvalidData(t *testing.T) {
	store, customers, cards := newTestServices(t)
	customer := seedCustomer(t, store, customers)

	_, err := cards.CreateCard(context.Background(), customer.ID, model.CardData{
		Number: "1111",
		Expiry: "13/40",
		CVV:    "12",
	})
	verrs, ok := model.AsValidationErrors(err)
	require.True(t, ok)
	assert.Contains(t, verrs, "number")
	assert.Contains(t, verrs, "expiry")
	assert.Contains(t, verrs, "cvv")
}

func TestCreateCard_DuplicateNumber(t *testing.T) {
	store, customers, cards := newTestServices(t)
	customer := seedCustomer(t, store, customers)

	data := model.CardData{Number: "1111222233334444", Expiry: "12/30", CVV: "123"}
	_, err := cards.CreateCard(context.Background(), customer.ID, data)
	require.NoError(t, err)

	// Тот же номер с другой группировкой — тот же HMAC
	data.Number = "1111 2222 3333 4444"
	_, err = cards.CreateCard(context.Background(), customer.ID, data)
	assert.ErrorIs(t, err, model.ErrCardNumberTaken)
}

func TestDeleteCard(t *testing.T) {
	store, customers, cards := newTestServices(t)
	customer := seedCustomer(t, store, customers)

	created, err := cards.CreateCard(context.Background(), customer.ID, model.CardData{
		Number: "1111222233334444",
		Expiry: "12/30",
		CVV:    "123",
	})
	require.NoError(t, err)

	deleted, err := cards.DeleteCard(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, deleted.ID)
	assert.Equal(t, "1111 2222 3333 4444", deleted.Number)

	_, err = cards.DeleteCard(context.Background(), created.ID)
	assert.ErrorIs(t, err, model.ErrCardNotFound)
}

func TestNotifyExpiring_SkipsDistantAndExpired(t *testing.T) {
	store, customers, cards := newTestServices(t)
	customer := seedCustomer(t, store, customers)

	// Карта с запасом в несколько лет: уведомление не требуется
	farExpiry := time.Now().AddDate(3, 0, 0).Format("01/06")
	_, err := cards.CreateCard(context.Background(), customer.ID, model.CardData{
		Number: "1111222233334444",
		Expiry: farExpiry,
		CVV:    "123",
	})
	require.NoError(t, err)

	// Рассылка отключена в тестах, важно лишь отсутствие ошибок
	require.NoError(t, cards.NotifyExpiring(context.Background()))
}
