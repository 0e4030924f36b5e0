package authenticating

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/records-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

const (
	generatedPasswordLength = 12

	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	numberChars  = "0123456789"
	specialChars = "!@#$%^&*()-_=+[]{}|;:,.<>?"
)

// GenerateStrongPassword gera e grava uma nova senha para o usuário alvo.
// A rota é restrita a administradores; a senha em texto é devolvida uma única vez.
func (s *Service) GenerateStrongPassword(ctx context.Context, targetUserID int) (string, error) {
	targetUser, err := s.getUser(ctx, targetUserID)
	if err != nil {
		return "", err
	}

	newPassword, err := generateStrongPassword(generatedPasswordLength)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar senha")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao processar senha")
	}

	targetUser.PasswordHash = string(hashedPassword)
	if err := s.userRepo.UpdateUser(ctx, targetUser); err != nil {
		logrus.WithError(err).WithField("user_id", targetUserID).Error("Erro ao gravar nova senha")
		return "", NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, targetUserID, "Erro ao gravar nova senha")
	}

	return newPassword, nil
}

// generateStrongPassword garante ao menos um caractere de cada classe
func generateStrongPassword(length int) (string, error) {
	if length < 8 {
		length = 8
	}

	classes := []string{lowerChars, upperChars, numberChars, specialChars}
	allChars := strings.Join(classes, "")

	password := make([]byte, length)
	for i := range password {
		charset := allChars
		if i < len(classes) {
			charset = classes[i]
		}

		randomChar, err := getRandomChar(charset)
		if err != nil {
			return "", err
		}
		password[i] = randomChar
	}

	// Embaralha para que as classes obrigatórias não fiquem no início
	for i := range password {
		j, err := randomInt(int64(len(password)))
		if err != nil {
			return "", err
		}
		password[i], password[j] = password[j], password[i]
	}

	return string(password), nil
}

func getRandomChar(charset string) (byte, error) {
	n, err := randomInt(int64(len(charset)))
	if err != nil {
		return 0, err
	}
	return charset[n], nil
}

// randomInt gera um número aleatório seguro entre 0 e max-1
func randomInt(max int64) (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(max))
	if err != nil {
		return 0, err
	}
	return int(n.Int64()), nil
}

// ValidatePasswordStrength exige 8 caracteres com maiúsculas, minúsculas, números e especiais
func (s *Service) ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return NewAuthError(ErrWeakPassword, apiErrors.ErrInvalidFormat, "a senha deve conter pelo menos 8 caracteres")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case strings.ContainsRune(lowerChars, char):
			hasLower = true
		case strings.ContainsRune(upperChars, char):
			hasUpper = true
		case strings.ContainsRune(numberChars, char):
			hasNumber = true
		case strings.ContainsRune(specialChars, char):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return NewAuthError(ErrWeakPassword, apiErrors.ErrInvalidFormat, "a senha deve conter pelo menos uma letra maiúscula")
	case !hasLower:
		return NewAuthError(ErrWeakPassword, apiErrors.ErrInvalidFormat, "a senha deve conter pelo menos uma letra minúscula")
	case !hasNumber:
		return NewAuthError(ErrWeakPassword, apiErrors.ErrInvalidFormat, "a senha deve conter pelo menos um número")
	case !hasSpecial:
		return NewAuthError(ErrWeakPassword, apiErrors.ErrInvalidFormat, "a senha deve conter pelo menos um caractere especial")
	}

	return nil
}

// ChangePassword troca a senha do próprio usuário após conferir a atual
func (s *Service) ChangePassword(ctx context.Context, userID int, currentPassword, newPassword string) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		return NewUserAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, userID, "Senha atual incorreta")
	}

	if currentPassword == newPassword {
		return NewUserAuthError(ErrSamePassword, apiErrors.ErrInvalidRequest, userID, "A nova senha deve ser diferente da atual")
	}

	if err := s.ValidatePasswordStrength(newPassword); err != nil {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(newPassword), s.bcryptCost)
	if err != nil {
		return NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao processar senha")
	}

	user.PasswordHash = string(hashedPassword)
	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		logrus.WithError(err).WithField("user_id", userID).Error("Erro ao trocar senha")
		return NewUserAuthError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, userID, "Erro ao trocar senha")
	}

	return nil
}

