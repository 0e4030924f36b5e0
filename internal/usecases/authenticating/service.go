package authenticating

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/records-api/infrastructure/repository"
	"github.com/vfg2006/records-api/internal/config"
	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

// Tamanho da página na listagem administrativa de usuários
const UsersPerPage = 20

const tokenTTL = 24 * time.Hour

type Authenticator interface {
	Register(ctx context.Context, user *domain.User) (*domain.User, error)
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdateUser(ctx context.Context, request *domain.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, actorID, userID int) error
	ListUsers(ctx context.Context, page int) (*domain.UserPage, error)
	GetUserProfile(ctx context.Context, userID int) (*domain.User, error)
	LoginUser(ctx context.Context, login, password string) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
	GenerateStrongPassword(ctx context.Context, targetUserID int) (string, error)
	ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error
	ValidatePasswordStrength(password string) error
	ListRoles(ctx context.Context) ([]*domain.Role, error)
}

type Service struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	cfg        *config.Config
	bcryptCost int
}

func NewService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, cfg *config.Config) *Service {
	return &Service{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		cfg:        cfg,
		bcryptCost: bcrypt.DefaultCost,
	}
}

// Register cria uma conta ativa com o papel Viewer
func (s *Service) Register(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.RoleID = domain.RoleViewer
	user.Active = true
	return s.createUser(ctx, user)
}

// CreateUser é usado pelo administrador e respeita o papel informado
func (s *Service) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	if user.RoleID == 0 {
		user.RoleID = domain.RoleViewer
	}
	return s.createUser(ctx, user)
}

func (s *Service) createUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = handleEmail(user.Email)

	if user.Username == "" || user.Email == "" || user.PasswordHash == "" {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Usuário, email e senha são obrigatórios")
	}

	if !isValidRole(user.RoleID) {
		return nil, NewAuthError(ErrInvalidRequest, apiErrors.ErrInvalidRequest, "Papel inválido")
	}

	if err := s.ensureUnique(ctx, 0, user.Username, user.Email); err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(user.PasswordHash), s.bcryptCost)
	if err != nil {
		return nil, NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao processar senha")
	}
	user.PasswordHash = string(hashedPassword)

	created, err := s.userRepo.CreateUser(ctx, user)
	if err != nil {
		logrus.WithError(err).Error("Erro ao criar usuário")
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao criar usuário")
	}

	logrus.WithField("user_id", created.ID).Info("Usuário criado")

	created.PasswordHash = ""
	return created, nil
}

// ensureUnique verifica se username e email estão livres, ignorando o próprio usuário
func (s *Service) ensureUnique(ctx context.Context, userID int, logins ...string) error {
	for _, login := range logins {
		existing, err := s.userRepo.GetUserByLogin(ctx, login)
		if err != nil {
			return NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário no banco de dados")
		}
		if existing != nil && existing.ID != userID {
			return NewAuthError(ErrUserAlreadyExists, apiErrors.ErrUserAlreadyExists, "Usuário ou email já cadastrado")
		}
	}
	return nil
}

func (s *Service) UpdateUser(ctx context.Context, request *domain.UpdateUserRequest) (*domain.User, error) {
	if request.ID == 0 {
		return nil, NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "ID é obrigatório")
	}

	user, err := s.getUser(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	if request.Username != nil {
		user.Username = strings.TrimSpace(*request.Username)
	}

	if request.Name != nil {
		user.Name = *request.Name
	}

	if request.Lastname != nil {
		user.Lastname = *request.Lastname
	}

	if request.Email != nil {
		user.Email = handleEmail(*request.Email)
	}

	if request.Active != nil {
		user.Active = *request.Active
	}

	if request.RoleID != nil {
		if !isValidRole(*request.RoleID) {
			return nil, NewUserAuthError(ErrInvalidRequest, apiErrors.ErrInvalidRequest, user.ID, "Papel inválido")
		}
		user.RoleID = *request.RoleID
	}

	if user.Username == "" || user.Email == "" {
		return nil, NewUserAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, user.ID, "Usuário e email são obrigatórios")
	}

	if err := s.ensureUnique(ctx, user.ID, user.Username, user.Email); err != nil {
		return nil, err
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Erro ao atualizar usuário")
		return nil, NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, user.ID, "Erro ao atualizar usuário")
	}

	user.PasswordHash = ""
	return user, nil
}

// DeleteUser remove o usuário; o administrador não pode remover a si mesmo
func (s *Service) DeleteUser(ctx context.Context, actorID, userID int) error {
	if actorID == userID {
		return NewUserAuthError(ErrCannotDeleteSelf, apiErrors.ErrSelfDelete, userID, "Você não pode remover sua própria conta")
	}

	found, err := s.userRepo.DeleteUser(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Erro ao remover usuário")
		return NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, userID, "Erro ao remover usuário")
	}
	if !found {
		return NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, userID, "Usuário não encontrado")
	}

	return nil
}

func (s *Service) ListUsers(ctx context.Context, page int) (*domain.UserPage, error) {
	if page < 1 {
		page = 1
	}

	users, total, err := s.userRepo.ListUsers(ctx, page, UsersPerPage)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar usuários")
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao listar usuários")
	}

	return &domain.UserPage{
		Users:   users,
		Total:   total,
		Page:    page,
		PerPage: UsersPerPage,
	}, nil
}

// LoginUser aceita username ou email
func (s *Service) LoginUser(ctx context.Context, login, password string) (string, error) {
	login = strings.TrimSpace(login)
	if login == "" || password == "" {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Usuário e senha são obrigatórios")
	}

	if strings.Contains(login, "@") {
		login = handleEmail(login)
	}

	user, err := s.userRepo.GetUserByLogin(ctx, login)
	if err != nil {
		logrus.WithError(err).Error("Erro ao consultar usuário")
		return "", NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao consultar usuário no banco de dados")
	}

	if user == nil {
		return "", NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Usuário ou senha inválidos")
	}

	if !user.Active {
		return "", NewUserAuthError(ErrUserDisabled, apiErrors.ErrUserDisabled, user.ID, "Conta desativada")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, user.ID, "Usuário ou senha inválidos")
	}

	token, err := generateJWT(user, s.cfg.SecretKey)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	return token, nil
}

func (s *Service) GetUserProfile(ctx context.Context, userID int) (*domain.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) getUser(ctx context.Context, userID int) (*domain.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Erro ao buscar usuário")
		return nil, NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, userID, "Erro ao buscar usuário")
	}
	if user == nil {
		return nil, NewUserAuthError(ErrUserNotFound, apiErrors.ErrUserNotFound, userID, "Usuário não encontrado")
	}

	return user, nil
}

func (s *Service) ListRoles(ctx context.Context) ([]*domain.Role, error) {
	roles, err := s.roleRepo.ListRoles(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar papéis")
		return nil, NewAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "Erro ao listar papéis")
	}

	return roles, nil
}

func generateJWT(user *domain.User, secretKey string) (string, error) {
	claims := domain.Claims{
		UserID:       user.ID,
		UserName:     user.Name,
		UserUsername: user.Username,
		UserEmail:    user.Email,
		UserActive:   user.Active,
		UserRoleID:   user.RoleID,
		UserRoleName: user.RoleName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprint(user.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secretKey))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.SecretKey), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %w", ErrExpiredToken, err)
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func isValidRole(roleID int) bool {
	return roleID == domain.RoleAdmin || roleID == domain.RoleAnalyst || roleID == domain.RoleViewer
}
