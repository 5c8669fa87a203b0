package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/doug-martin/goqu/v9"
	"github.com/wecare/healthtracker/internal/domain/entities"
	"github.com/wecare/healthtracker/internal/domain/repositories"
	"github.com/wecare/healthtracker/internal/infrastructure/clients/postgres"
	apperrors "github.com/wecare/healthtracker/pkg/errors"
)

// UserAdapter implements the UserRepository interface
type UserAdapter struct {
	client *postgres.Client
}

// NewUserAdapter creates a new user adapter
func NewUserAdapter(client *postgres.Client) repositories.UserRepository {
	return &UserAdapter{client: client}
}

// Create inserts a user
func (a *UserAdapter) Create(ctx context.Context, user *entities.User) error {
	record := goqu.Record{
		"name":               user.Name,
		"email":              user.Email,
		"age":                nullableInt(user.Age),
		"gender":             nullableString(user.Gender),
		"blood_type":         nullableString(user.BloodType),
		"allergies":          nullableString(user.Allergies),
		"chronic_conditions": nullableString(user.ChronicConditions),
		"emergency_contact":  nullableString(user.EmergencyContact),
	}

	query, args, err := dialect.Insert(tableUsers).
		Rows(record).
		Returning(userColumns...).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	created, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if err != nil {
		return apperrors.NewInternalError("failed to create user", err)
	}

	*user = *created
	return nil
}

// GetByID retrieves a user by ID
func (a *UserAdapter) GetByID(ctx context.Context, id int64) (*entities.User, error) {
	return getUser(ctx, a.client.DB(), id)
}

// GetByEmail retrieves a user by email
func (a *UserAdapter) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	query, args, err := dialect.Select(userColumns...).
		From(tableUsers).
		Where(goqu.Ex{"email": email}).
		Limit(1).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user, err := scanUser(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}

// List retrieves all users newest first
func (a *UserAdapter) List(ctx context.Context) ([]*entities.User, error) {
	query, args, err := dialect.Select(userColumns...).
		From(tableUsers).
		Order(goqu.I("created_at").Desc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build list query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list users", err)
	}
	defer rows.Close()

	users := make([]*entities.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan user", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate users", err)
	}

	return users, nil
}

func getUser(ctx context.Context, q queryer, id int64) (*entities.User, error) {
	query, args, err := dialect.Select(userColumns...).
		From(tableUsers).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	user, err := scanUser(q.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("user with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get user", err)
	}
	return user, nil
}
