package repository

import (
	"context"
	"fmt"

	"github.com/vfg2006/records-api/infrastructure/database"
	"github.com/vfg2006/records-api/internal/domain"
)

//go:generate mockgen -source=role.go -destination=mocks/role.go -package=mocks

type RoleRepository interface {
	ListRoles(ctx context.Context) ([]*domain.Role, error)
}

type roleRepository struct {
	conn *database.Connection
}

func NewRoleRepository(conn *database.Connection) RoleRepository {
	return &roleRepository{
		conn: conn,
	}
}

func (r *roleRepository) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	query, args, err := r.conn.Builder().
		Select("id", "name").
		From("roles").
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar papéis: %w", err)
	}
	defer rows.Close()

	roles := make([]*domain.Role, 0)
	for rows.Next() {
		var role domain.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("erro ao processar resultado: %w", err)
		}
		roles = append(roles, &role)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	return roles, nil
}
