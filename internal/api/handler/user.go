package handler

import (
	"net/http"

	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/internal/usecases/authenticating"
	"github.com/vfg2006/records-api/pkg/apiErrors"
	"github.com/vfg2006/records-api/pkg/middleware"
)

func GetUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do usuário inválido", nil)
			return
		}

		user, err := service.GetUserProfile(r.Context(), int(id))
		if err != nil {
			writeServiceError(w, r, err, "Erro ao buscar usuário")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

// CreateUser cria um usuário com o papel informado pelo administrador
func CreateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var user domain.User
		if err := decodeBody(r, &user); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		created, err := service.CreateUser(r.Context(), &user)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao criar usuário")
			return
		}

		writeJSON(w, http.StatusCreated, created)
	}
}

func ListUsers(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := intParam(r, "page", 1)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar usuários")
			return
		}

		users, err := service.ListUsers(r.Context(), page)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar usuários")
			return
		}

		writeJSON(w, http.StatusOK, users)
	}
}

func UpdateUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do usuário inválido", nil)
			return
		}

		var updateReq domain.UpdateUserRequest
		if err := decodeBody(r, &updateReq); err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}
		updateReq.ID = int(id)

		user, err := service.UpdateUser(r.Context(), &updateReq)
		if err != nil {
			writeServiceError(w, r, err, "Erro ao atualizar usuário")
			return
		}

		writeJSON(w, http.StatusOK, user)
	}
}

// DeleteUser remove um usuário; o administrador não pode remover a si mesmo
func DeleteUser(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID do usuário inválido", nil)
			return
		}

		userClaims, ok := middleware.ClaimsFromContext(r.Context())
		if !ok {
			apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
			return
		}

		if err := service.DeleteUser(r.Context(), userClaims.UserID, int(id)); err != nil {
			writeServiceError(w, r, err, "Erro ao remover usuário")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func ListRoles(service authenticating.Authenticator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roles, err := service.ListRoles(r.Context())
		if err != nil {
			writeServiceError(w, r, err, "Erro ao listar papéis")
			return
		}

		writeJSON(w, http.StatusOK, roles)
	}
}
