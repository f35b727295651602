package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Everton617/CadCustomer/internal/model"
)

type CustomerRepository struct {
	db     *sql.DB
	logger *logrus.Logger
}

func NewCustomerRepository(db *sql.DB, logger *logrus.Logger) *CustomerRepository {
	return &CustomerRepository{db: db, logger: logger}
}

func (r *CustomerRepository) Create(ctx context.Context, customer *model.Customer) error {
	query := `
		INSERT INTO customers (id, user_id, name, lastname, email, birth_date, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.UserID,
		customer.Name,
		customer.Lastname,
		customer.Email,
		customer.BirthDate,
		customer.Phone,
		customer.Address,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			// Уникальность email клиента в рамках одного пользователя
			// обеспечивается индексом customers_user_id_email_key
			if pqErr.Code.Name() == "unique_violation" {
				return model.ErrCustomerEmailTaken
			}
		}
		return fmt.Errorf("failed to create customer: %w", err)
	}

	return nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	query := `
		SELECT id, user_id, name, lastname, email, birth_date, phone, address, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	var customer model.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.UserID,
		&customer.Name,
		&customer.Lastname,
		&customer.Email,
		&customer.BirthDate,
		&customer.Phone,
		&customer.Address,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID: %w", err)
	}

	return &customer, nil
}

func (r *CustomerRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Customer, error) {
	query := `
		SELECT id, user_id, name, lastname, email, birth_date, phone, address, created_at, updated_at
		FROM customers
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query user customers: %w", err)
	}
	defer rows.Close()

	var customers []model.Customer
	for rows.Next() {
		var customer model.Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.UserID,
			&customer.Name,
			&customer.Lastname,
			&customer.Email,
			&customer.BirthDate,
			&customer.Phone,
			&customer.Address,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, customer)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}

	return customers, nil
}

// Update применяет частичное обновление и возвращает обновленную запись
func (r *CustomerRepository) Update(ctx context.Context, id uuid.UUID, upd model.CustomerUpdate) (*model.Customer, error) {
	set := []string{}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if upd.Name != nil {
		set = append(set, "name = "+arg(strings.TrimSpace(*upd.Name)))
	}
	if upd.Lastname != nil {
		set = append(set, "lastname = "+arg(strings.TrimSpace(*upd.Lastname)))
	}
	if upd.Email != nil {
		set = append(set, "email = "+arg(strings.TrimSpace(*upd.Email)))
	}
	if upd.Birthdate != nil {
		birthDate, err := model.ParseBirthDate(*upd.Birthdate)
		if err != nil {
			return nil, fmt.Errorf("invalid birth date: %w", err)
		}
		set = append(set, "birth_date = "+arg(birthDate))
	}
	if upd.Phone != nil {
		set = append(set, "phone = "+arg(strings.TrimSpace(*upd.Phone)))
	}
	if upd.Address != nil {
		set = append(set, "address = "+arg(strings.TrimSpace(*upd.Address)))
	}

	set = append(set, "updated_at = "+arg(time.Now()))

	query := fmt.Sprintf(`
		UPDATE customers
		SET %s
		WHERE id = %s
		RETURNING id, user_id, name, lastname, email, birth_date, phone, address, created_at, updated_at
	`, strings.Join(set, ", "), arg(id))

	var customer model.Customer
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&customer.ID,
		&customer.UserID,
		&customer.Name,
		&customer.Lastname,
		&customer.Email,
		&customer.BirthDate,
		&customer.Phone,
		&customer.Address,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrCustomerNotFound
		}
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code.Name() == "unique_violation" {
			return nil, model.ErrCustomerEmailTaken
		}
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}

	return &customer, nil
}

// Delete удаляет клиента вместе с его картами в одной транзакции
// и возвращает удаленную запись
func (r *CustomerRepository) Delete(ctx context.Context, id uuid.UUID) (*model.Customer, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		SELECT id, user_id, name, lastname, email, birth_date, phone, address, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	var customer model.Customer
	err = tx.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.UserID,
		&customer.Name,
		&customer.Lastname,
		&customer.Email,
		&customer.BirthDate,
		&customer.Phone,
		&customer.Address,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, model.ErrCustomerNotFound
		}
		return nil, fmt.Errorf("failed to find customer for delete: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cards WHERE customer_id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete customer cards: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete customer: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit delete: %w", err)
	}

	return &customer, nil
}
