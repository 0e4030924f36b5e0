// Comando de carga inicial: cria o administrador, o menu padrão e importa um CSV opcional.
//
//	go run ./cmd/seed --admin-username admin --admin-email admin@empresa.com --admin-password 'Senha@123' --csv dados.csv
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/vfg2006/records-api/infrastructure/database"
	"github.com/vfg2006/records-api/infrastructure/repository"
	"github.com/vfg2006/records-api/internal/config"
	"github.com/vfg2006/records-api/internal/domain"
	"github.com/vfg2006/records-api/internal/usecases/authenticating"
	"github.com/vfg2006/records-api/internal/usecases/navigating"
	"github.com/vfg2006/records-api/internal/usecases/recording"
	"github.com/vfg2006/records-api/pkg/log"
)

// Menu criado quando a tabela nav_items está vazia
var defaultMenu = []domain.NavItemRequest{
	{Title: "Registros", Endpoint: "/records", Position: 1, Visible: true},
	{Title: "Relatórios", Endpoint: "/reports", Position: 2, Visible: true},
	{Title: "Importar CSV", Endpoint: "/records/upload", Position: 3, Visible: true, Roles: []string{"Admin", "Analyst"}},
	{Title: "Usuários", Endpoint: "/admin/users", Position: 4, Visible: true, Roles: []string{"Admin"}},
	{Title: "Menu", Endpoint: "/admin/nav", Position: 5, Visible: true, Roles: []string{"Admin"}},
}

type options struct {
	username string
	email    string
	password string
	csvPath  string
}

func main() {
	_ = log.Configure("info")

	var opts options
	pflag.StringVar(&opts.username, "admin-username", "admin", "usuário do administrador inicial")
	pflag.StringVar(&opts.email, "admin-email", "", "email do administrador inicial")
	pflag.StringVar(&opts.password, "admin-password", os.Getenv("ADMIN_PASSWORD"), "senha do administrador inicial (padrão: $ADMIN_PASSWORD)")
	pflag.StringVar(&opts.csvPath, "csv", "", "arquivo CSV com registros a importar")
	pflag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	conn, err := database.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao banco de dados")
	}
	defer conn.Close()

	if err := database.RunMigrations(conn, cfg.Database); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar migrações")
	}

	auth := authenticating.NewService(repository.NewUserRepository(conn), repository.NewRoleRepository(conn), cfg)
	navigator := navigating.NewService(repository.NewNavItemRepository(conn))
	recorder := recording.NewService(repository.NewRecordRepository(conn), nil)

	adminID, err := seedAdmin(ctx, auth, opts)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao criar administrador")
	}

	if err := seedMenu(ctx, navigator); err != nil {
		logrus.WithError(err).Fatal("Erro ao criar menu padrão")
	}

	if opts.csvPath != "" {
		if err := importFile(ctx, recorder, adminID, opts.csvPath); err != nil {
			logrus.WithError(err).Fatal("Erro ao importar CSV")
		}
	}

	logrus.Info("Carga inicial concluída")
}

func seedAdmin(ctx context.Context, auth *authenticating.Service, opts options) (int, error) {
	if opts.email == "" || opts.password == "" {
		logrus.Info("Email ou senha do administrador não informados, pulando criação")
		return 0, nil
	}

	if err := auth.ValidatePasswordStrength(opts.password); err != nil {
		return 0, err
	}

	admin, err := auth.CreateUser(ctx, &domain.User{
		Username:     opts.username,
		Email:        opts.email,
		PasswordHash: opts.password,
		Active:       true,
		RoleID:       domain.RoleAdmin,
	})
	if errors.Is(err, authenticating.ErrUserAlreadyExists) {
		logrus.WithField("username", opts.username).Info("Administrador já existe")
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	logrus.WithField("user_id", admin.ID).Info("Administrador criado")
	return admin.ID, nil
}

func seedMenu(ctx context.Context, navigator *navigating.Service) error {
	items, err := navigator.ListItems(ctx)
	if err != nil {
		return err
	}
	if len(items) > 0 {
		logrus.WithField("items", len(items)).Info("Menu já configurado")
		return nil
	}

	for i := range defaultMenu {
		if _, err := navigator.CreateItem(ctx, &defaultMenu[i]); err != nil {
			return err
		}
	}

	logrus.WithField("items", len(defaultMenu)).Info("Menu padrão criado")
	return nil
}

func importFile(ctx context.Context, recorder *recording.Service, actorID int, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	startTime := time.Now()
	result, err := recorder.ImportCSV(ctx, actorID, file)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"batch_id": result.BatchID,
		"rows":     result.Rows,
		"duration": time.Since(startTime).String(),
	}).Info("Arquivo importado")
	return nil
}
