package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/records-api/infrastructure/database"
	"github.com/vfg2006/records-api/internal/domain"
)

//go:generate mockgen -source=user.go -destination=mocks/user.go -package=mocks

const (
	usersTable = "users u"
)

var userColumns = []string{
	"u.id", "u.username", "u.name", "u.lastname", "u.email", "u.password_hash",
	"u.active", "u.role_id", "COALESCE(ro.name, '')", "u.created_at", "u.updated_at",
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	DeleteUser(ctx context.Context, userID int) (bool, error)
	GetUserByLogin(ctx context.Context, login string) (*domain.User, error)
	GetUserByID(ctx context.Context, userID int) (*domain.User, error)
	ListUsers(ctx context.Context, page, perPage int) ([]*domain.User, int, error)
}

type userRepository struct {
	conn *database.Connection
}

func NewUserRepository(conn *database.Connection) UserRepository {
	return &userRepository{
		conn: conn,
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	query, args, err := r.conn.Builder().
		Insert("users").
		Columns("username", "name", "lastname", "email", "password_hash", "active", "role_id", "created_at", "updated_at").
		Values(user.Username, user.Name, user.Lastname, user.Email, user.PasswordHash, user.Active, user.RoleID, user.CreatedAt, user.UpdatedAt).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&user.ID); err != nil {
		return nil, fmt.Errorf("erro ao inserir usuário: %w", err)
	}

	return user, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()

	query, args, err := r.conn.Builder().
		Update("users").
		Set("username", user.Username).
		Set("name", user.Name).
		Set("lastname", user.Lastname).
		Set("email", user.Email).
		Set("password_hash", user.PasswordHash).
		Set("active", user.Active).
		Set("role_id", user.RoleID).
		Set("updated_at", user.UpdatedAt).
		Where(squirrel.Eq{"id": user.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("erro ao construir a query: %w", err)
	}

	if _, err := r.conn.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("erro ao atualizar usuário %d: %w", user.ID, err)
	}

	return nil
}

func (r *userRepository) DeleteUser(ctx context.Context, userID int) (bool, error) {
	query, args, err := r.conn.Builder().
		Delete("users").
		Where(squirrel.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao remover usuário %d: %w", userID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("erro ao remover usuário %d: %w", userID, err)
	}

	return affected > 0, nil
}

// GetUserByLogin busca por username ou email; retorna nil quando não encontra
func (r *userRepository) GetUserByLogin(ctx context.Context, login string) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Or{
		squirrel.Eq{"u.username": login},
		squirrel.Eq{"u.email": login},
	})
}

// GetUserByID retorna nil quando o usuário não existe
func (r *userRepository) GetUserByID(ctx context.Context, userID int) (*domain.User, error) {
	return r.getOne(ctx, squirrel.Eq{"u.id": userID})
}

func (r *userRepository) getOne(ctx context.Context, where squirrel.Sqlizer) (*domain.User, error) {
	query, args, err := r.selectUsers().Where(where).Limit(1).ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	user, err := scanUser(r.conn.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar usuário: %w", err)
	}

	return user, nil
}

func (r *userRepository) ListUsers(ctx context.Context, page, perPage int) ([]*domain.User, int, error) {
	countQuery, countArgs, err := r.conn.Builder().Select("COUNT(*)").From("users").ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	var total int
	if err := r.conn.QueryRowContext(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("erro ao contar usuários: %w", err)
	}

	query, args, err := r.selectUsers().
		OrderBy("u.username ASC").
		Limit(uint64(perPage)).
		Offset(uint64((page - 1) * perPage)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("erro ao listar usuários: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("erro ao processar resultado: %w", err)
		}
		user.PasswordHash = ""
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("erro durante iteração: %w", err)
	}

	return users, total, nil
}

func (r *userRepository) selectUsers() squirrel.SelectBuilder {
	return r.conn.Builder().
		Select(userColumns...).
		From(usersTable).
		LeftJoin("roles ro ON ro.id = u.role_id")
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Name,
		&user.Lastname,
		&user.Email,
		&user.PasswordHash,
		&user.Active,
		&user.RoleID,
		&user.RoleName,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}

	return &user, nil
}
