package handler

import (
	"net/http"

	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/internal/usecases/navigating"
	"github.com/vfg2006/records-api/pkg/apiErrors"
	"github.com/vfg2006/records-api/pkg/middleware"
)

// GetMenu devolve os itens visíveis para o papel do usuário logado
func GetMenu(service navigating.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userClaims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		menu, err := service.Menu(r.Context(), userClaims.UserRoleName)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao carregar menu")
			return
		}

		writeJSON(w, http.StatusOK, menu)
	}
}

func ListNavItems(service navigating.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := service.ListItems(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar itens de navegação")
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}

func CreateNavItem(service navigating.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req domain.NavItemRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		item, err := service.CreateItem(r.Context(), &req)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao criar item de navegação")
			return
		}

		writeJSON(w, http.StatusCreated, item)
	}
}

func UpdateNavItem(service navigating.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do item inválido", nil)
			return
		}

		var req domain.NavItemRequest
		if err := decodeBody(r, &req); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		item, err := service.UpdateItem(r.Context(), int(id), &req)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao atualizar item de navegação")
			return
		}

		writeJSON(w, http.StatusOK, item)
	}
}

func DeleteNavItem(service navigating.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do item inválido", nil)
			return
		}

		if err := service.DeleteItem(r.Context(), int(id)); err != nil {
			writeServiceError(w, r, err, "Erro ao remover item de navegação")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
