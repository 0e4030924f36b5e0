package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/vfg2006/records-api/infrastructure/database"
	"github.com/vfg2006/records-api/internal/domain"
)

//go:generate mockgen -source=nav_item.go -destination=mocks/nav_item.go -package=mocks

const navItemsTable = "nav_items"

type NavItemRepository interface {
	ListNavItems(ctx context.Context, onlyVisible bool) ([]*domain.NavItem, error)
	GetNavItemByID(ctx context.Context, id int) (*domain.NavItem, error)
	CreateNavItem(ctx context.Context, item *domain.NavItem) (*domain.NavItem, error)
	UpdateNavItem(ctx context.Context, item *domain.NavItem) (bool, error)
	DeleteNavItem(ctx context.Context, id int) (bool, error)
}

type navItemRepository struct {
	conn *database.Connection
}

func NewNavItemRepository(conn *database.Connection) NavItemRepository {
	return &navItemRepository{
		conn: conn,
	}
}

// ListNavItems retorna os itens ordenados pela posição
func (r *navItemRepository) ListNavItems(ctx context.Context, onlyVisible bool) ([]*domain.NavItem, error) {
	builder := r.conn.Builder().
		Select("id", "title", "endpoint", "position", "visible", "roles_allowed").
		From(navItemsTable).
		OrderBy("position ASC", "id ASC")

	if onlyVisible {
		builder = builder.Where(squirrel.Eq{"visible": true})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	rows, err := r.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar itens de navegação: %w", err)
	}
	defer rows.Close()

	items := make([]*domain.NavItem, 0)
	for rows.Next() {
		item, err := scanNavItem(rows)
		if err != nil {
			return nil, fmt.Errorf("erro ao processar resultado: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro durante iteração: %w", err)
	}

	return items, nil
}

// GetNavItemByID retorna nil quando o item não existe
func (r *navItemRepository) GetNavItemByID(ctx context.Context, id int) (*domain.NavItem, error) {
	query, args, err := r.conn.Builder().
		Select("id", "title", "endpoint", "position", "visible", "roles_allowed").
		From(navItemsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	item, err := scanNavItem(r.conn.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar item de navegação %d: %w", id, err)
	}

	return item, nil
}

func (r *navItemRepository) CreateNavItem(ctx context.Context, item *domain.NavItem) (*domain.NavItem, error) {
	query, args, err := r.conn.Builder().
		Insert(navItemsTable).
		Columns("title", "endpoint", "position", "visible", "roles_allowed").
		Values(item.Title, item.Endpoint, item.Position, item.Visible, item.RolesAllowed).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("erro ao construir a query: %w", err)
	}

	if err := r.conn.QueryRowContext(ctx, query, args...).Scan(&item.ID); err != nil {
		return nil, fmt.Errorf("erro ao inserir item de navegação: %w", err)
	}

	return item, nil
}

func (r *navItemRepository) UpdateNavItem(ctx context.Context, item *domain.NavItem) (bool, error) {
	query, args, err := r.conn.Builder().
		Update(navItemsTable).
		Set("title", item.Title).
		Set("endpoint", item.Endpoint).
		Set("position", item.Position).
		Set("visible", item.Visible).
		Set("roles_allowed", item.RolesAllowed).
		Where(squirrel.Eq{"id": item.ID}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao atualizar item de navegação %d: %w", item.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func (r *navItemRepository) DeleteNavItem(ctx context.Context, id int) (bool, error) {
	query, args, err := r.conn.Builder().
		Delete(navItemsTable).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("erro ao construir a query: %w", err)
	}

	result, err := r.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("erro ao remover item de navegação %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}

func scanNavItem(row rowScanner) (*domain.NavItem, error) {
	var item domain.NavItem
	if err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Endpoint,
		&item.Position,
		&item.Visible,
		&item.RolesAllowed,
	); err != nil {
		return nil, err
	}

	return &item, nil
}
