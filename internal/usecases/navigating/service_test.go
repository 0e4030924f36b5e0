package navigating

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vfg2006/records-api/infrastructure/repository/mocks"
	"github.com/vfg2006/records-api/internal/domain"
	"go.uber.org/mock/gomock"
)

func newTestService(t *testing.T) (*Service, *mocks.MockNavItemRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockNavItemRepository(ctrl)
	return NewService(repo), repo
}

func TestService_Menu(t *testing.T) {
	items := []*domain.NavItem{
		{ID: 1, Title: "Registros", Endpoint: "/records", Position: 1, Visible: true},
		{ID: 2, Title: "Admin", Endpoint: "/admin", Position: 2, Visible: true, RolesAllowed: "Admin"},
		{ID: 3, Title: "Relatórios", Endpoint: "/reports", Position: 3, Visible: true, RolesAllowed: "Admin, Analyst"},
	}

	tests := []struct {
		role      string
		endpoints []string
	}{
		{role: "Admin", endpoints: []string{"/records", "/admin", "/reports"}},
		{role: "Analyst", endpoints: []string{"/records", "/reports"}},
		{role: "Viewer", endpoints: []string{"/records"}},
		{role: "", endpoints: []string{"/records"}},
	}

	for _, tt := range tests {
		t.Run("papel "+tt.role, func(t *testing.T) {
			service, repo := newTestService(t)
			repo.EXPECT().ListNavItems(gomock.Any(), true).Return(items, nil)

			menu, err := service.Menu(context.Background(), tt.role)
			require.NoError(t, err)

			endpoints := make([]string, 0, len(menu))
			for _, entry := range menu {
				endpoints = append(endpoints, entry.Endpoint)
			}
			assert.Equal(t, tt.endpoints, endpoints)
		})
	}
}

func TestParseRoles(t *testing.T) {
	assert.Equal(t, []string{"Admin", "Analyst"}, ParseRoles(" Admin,Analyst , ,Admin"))
	assert.Empty(t, ParseRoles(""))
}

func TestService_CreateItem(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().CreateNavItem(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, item *domain.NavItem) (*domain.NavItem, error) {
		assert.Equal(t, "Admin, Analyst", item.RolesAllowed)
		item.ID = 7
		return item, nil
	})

	item, err := service.CreateItem(context.Background(), &domain.NavItemRequest{
		Title: " Relatórios ", Endpoint: "/reports", Position: 2, Visible: true, Roles: []string{"Admin", " Analyst", ""},
	})
	require.NoError(t, err)
	assert.Equal(t, 7, item.ID)
	assert.Equal(t, "Relatórios", item.Title)

	_, err = service.CreateItem(context.Background(), &domain.NavItemRequest{Title: "", Endpoint: "/x"})
	assert.ErrorIs(t, err, ErrInvalidNavItem)
}

func TestService_UpdateAndDelete_NotFound(t *testing.T) {
	service, repo := newTestService(t)

	repo.EXPECT().UpdateNavItem(gomock.Any(), gomock.Any()).Return(false, nil)
	repo.EXPECT().DeleteNavItem(gomock.Any(), 9).Return(false, nil)

	_, err := service.UpdateItem(context.Background(), 9, &domain.NavItemRequest{Title: "A", Endpoint: "/a"})
	assert.ErrorIs(t, err, ErrNavItemNotFound)

	err = service.DeleteItem(context.Background(), 9)
	assert.ErrorIs(t, err, ErrNavItemNotFound)
}
