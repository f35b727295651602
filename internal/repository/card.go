package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Everton617/CadCustomer/internal/model"
)

type CardRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewCardRepository(db *sql.DB, logger *logrus.Logger) *CardRepository {
	return &CardRepository{db: db, logger: logger}
}

func (r *CardRepository) Create(ctx context.Context, card *model.Card) error {
	query := `
        INSERT INTO cards (id, customer_id, encrypted_data, cvv_hash, number_hmac, created_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `
	_, err := r.db.ExecContext(ctx, query,
		card.ID,
		card.CustomerID,
		card.EncryptedData,
		card.CVVHash,
		card.NumberHMAC,
		card.CreatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			// Уникальность номера карты обеспечивается индексом
			// cards_number_hmac_key по детерминированному HMAC номера
			if pqErr.Code.Name() == "unique_violation" {
				return model.ErrCardNumberTaken
			}
		}
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// Delete удаляет карту и возвращает удаленную запись
func (r *CardRepository) Delete(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	query := `
		DELETE FROM cards
		WHERE id = $1
		RETURNING id, customer_id, encrypted_data, cvv_hash, number_hmac, created_at
	`

	var card model.Card
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.CustomerID,
		&card.EncryptedData,
		&card.CVVHash,
		&card.NumberHMAC,
		&card.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrCardNotFound
		}
		return nil, fmt.Errorf("failed to delete card: %w", err)
	}

	return &card, nil
}

func (r *CardRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]model.Card, error) {
	query := `
        SELECT id, customer_id, encrypted_data, cvv_hash, number_hmac, created_at
        FROM cards
        WHERE customer_id = $1
        ORDER BY created_at DESC
    `
	return r.queryCards(ctx, query, customerID)
}

// ListByUser возвращает карты всех клиентов пользователя
func (r *CardRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Card, error) {
	query := `
        SELECT c.id, c.customer_id, c.encrypted_data, c.cvv_hash, c.number_hmac, c.created_at
        FROM cards c
        JOIN customers cu ON cu.id = c.customer_id
        WHERE cu.user_id = $1
        ORDER BY c.created_at DESC
    `
	return r.queryCards(ctx, query, userID)
}

func (r *CardRepository) queryCards(ctx context.Context, query string, args ...interface{}) ([]model.Card, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []model.Card
	for rows.Next() {
		var card model.Card
		if err := rows.Scan(
			&card.ID,
			&card.CustomerID,
			&card.EncryptedData,
			&card.CVVHash,
			&card.NumberHMAC,
			&card.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return cards, nil
}

// ListWithOwners возвращает все карты вместе с данными клиента и владельца.
// Используется планировщиком уведомлений об истекающих картах.
func (r *CardRepository) ListWithOwners(ctx context.Context) ([]model.CardOwner, error) {
	query := `
        SELECT c.id, c.customer_id, c.encrypted_data, c.cvv_hash, c.number_hmac, c.created_at,
               cu.name, cu.email, u.email
        FROM cards c
        JOIN customers cu ON cu.id = c.customer_id
        JOIN users u ON u.id = cu.user_id
        ORDER BY c.created_at
    `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards with owners: %w", err)
	}
	defer rows.Close()

	var cards []model.CardOwner
	for rows.Next() {
		var card model.CardOwner
		if err := rows.Scan(
			&card.ID,
			&card.CustomerID,
			&card.EncryptedData,
			&card.CVVHash,
			&card.NumberHMAC,
			&card.CreatedAt,
			&card.CustomerName,
			&card.CustomerEmail,
			&card.OwnerEmail,
		); err != nil {
			return nil, fmt.Errorf("failed to scan card with owner: %w", err)
		}
		cards = append(cards, card)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return cards, nil
}
