package navigating

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/records-api/infrastructure/repository"
	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/pkg/apiErrors"
)

type Navigator interface {
	Menu(ctx context.Context, roleName string) ([]domain.MenuEntry, error)
	ListItems(ctx context.Context) ([]*domain.NavItem, error)
	CreateItem(ctx context.Context, request *domain.NavItemRequest) (*domain.NavItem, error)
	UpdateItem(ctx context.Context, id int, request *domain.NavItemRequest) (*domain.NavItem, error)
	DeleteItem(ctx context.Context, id int) error
}

type Service struct {
	navItemRepo repository.NavItemRepository
}

func NewService(navItemRepo repository.NavItemRepository) *Service {
	return &Service{
		navItemRepo: navItemRepo,
	}
}

// Menu devolve os itens visíveis, por posição, liberados para o papel informado.
// Itens sem papéis definidos aparecem para todos.
func (s *Service) Menu(ctx context.Context, roleName string) ([]domain.MenuEntry, error) {
	items, err := s.navItemRepo.ListNavItems(ctx, true)
	if err != nil {
		logrus.WithError(err).Error("Erro ao carregar itens de navegação")
		return nil, NewNavError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, 0, "Erro ao carregar menu")
	}

	allowed := lo.Filter(items, func(item *domain.NavItem, _ int) bool {
		return IsAllowed(item, roleName)
	})

	return lo.Map(allowed, func(item *domain.NavItem, _ int) domain.MenuEntry {
		return domain.MenuEntry{Title: item.Title, Endpoint: item.Endpoint}
	}), nil
}

// IsAllowed compara o papel com a lista separada por vírgulas do item
func IsAllowed(item *domain.NavItem, roleName string) bool {
	roles := ParseRoles(item.RolesAllowed)
	if len(roles) == 0 {
		return true
	}
	return roleName != "" && lo.Contains(roles, roleName)
}

func ParseRoles(rolesAllowed string) []string {
	roles := lo.Map(strings.Split(rolesAllowed, ","), func(role string, _ int) string {
		return strings.TrimSpace(role)
	})
	return lo.Uniq(lo.Compact(roles))
}

func (s *Service) ListItems(ctx context.Context) ([]*domain.NavItem, error) {
	items, err := s.navItemRepo.ListNavItems(ctx, false)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar itens de navegação")
		return nil, NewNavError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, 0, "Erro ao listar itens de navegação")
	}

	return items, nil
}

func (s *Service) CreateItem(ctx context.Context, request *domain.NavItemRequest) (*domain.NavItem, error) {
	item, err := buildItem(request)
	if err != nil {
		return nil, err
	}

	created, err := s.navItemRepo.CreateNavItem(ctx, item)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar item de navegação")
		return nil, NewNavError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, 0, "Erro ao criar item de navegação")
	}

	return created, nil
}

func (s *Service) UpdateItem(ctx context.Context, id int, request *domain.NavItemRequest) (*domain.NavItem, error) {
	item, err := buildItem(request)
	if err != nil {
		return nil, err
	}
	item.ID = id

	found, err := s.navItemRepo.UpdateNavItem(ctx, item)
	if err != nil {
		logrus.WithError(err).WithField("nav_item_id", id).Error("Erro ao atualizar item de navegação")
		return nil, NewNavError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, id, "Erro ao atualizar item de navegação")
	}
	if !found {
		return nil, NewNavError(ErrNavItemNotFound, apiErrors.ErrNavItemNotFound, id, "Item de navegação não encontrado")
	}

	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, id int) error {
	found, err := s.navItemRepo.DeleteNavItem(ctx, id)
	if err != nil {
		logrus.WithError(err).WithField("nav_item_id", id).Error("Erro ao remover item de navegação")
		return NewNavError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, id, "Erro ao remover item de navegação")
	}
	if !found {
		return NewNavError(ErrNavItemNotFound, apiErrors.ErrNavItemNotFound, id, "Item de navegação não encontrado")
	}

	return nil
}

func buildItem(request *domain.NavItemRequest) (*domain.NavItem, error) {
	title := strings.TrimSpace(request.Title)
	endpoint := strings.TrimSpace(request.Endpoint)

	if title == "" || endpoint == "" {
		return nil, NewNavError(ErrInvalidNavItem, apiErrors.ErrMissingRequiredData, 0, "Título e endpoint são obrigatórios")
	}

	return &domain.NavItem{
		Title:        title,
		Endpoint:     endpoint,
		Position:     request.Position,
		Visible:      request.Visible,
		RolesAllowed: strings.Join(ParseRoles(strings.Join(request.Roles, ",")), ", "),
	}, nil
}
