package main

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/records-api/infrastructure/database"
	"github.com/vfg2006/records-api/infrastructure/repository"
	"github.com/vfg2006/records-api/internal/api"
	"github.com/vfg2006/records-api/internal/cache"
	"github.com/vfg2006/records-api/internal/config"
	"github.com/vfg2006/records-api/internal/scheduler"
	"github.com/vfg2006/records-api/internal/usecases/authenticating"
	"github.com/vfg2006/records-api/internal/usecases/navigating"
	"github.com/vfg2006/records-api/internal/usecases/recording"
	"github.com/vfg2006/records-api/internal/usecases/reporting"
	"github.com/vfg2006/records-api/pkg/log"
)

func main() {
	_ = log.Configure("info")

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	if err := log.Configure(cfg.App.LogLevel); err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
	}
	logrus.Infof("Nível de log configurado para: %s", logrus.GetLevel())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := dbconn(ctx, cfg.Database)
	defer conn.Close()

	if err := database.RunMigrations(conn, cfg.Database); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar migrações")
	}

	recordRepo := repository.NewRecordRepository(conn)
	userRepo := repository.NewUserRepository(conn)
	roleRepo := repository.NewRoleRepository(conn)
	navItemRepo := repository.NewNavItemRepository(conn)

	resultCache := cache.New(cfg.Cache.TTL)

	recorder := recording.NewService(recordRepo, resultCache)
	reporter := reporting.NewService(recordRepo, resultCache, cfg.Records.TimeSeriesDefaultDays)
	authenticator := authenticating.NewService(userRepo, roleRepo, cfg)
	navigator := navigating.NewService(navItemRepo)

	cacheJanitor := scheduler.NewCacheJanitorService(resultCache, cfg)
	if err := cacheJanitor.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de limpeza do cache")
	} else {
		logrus.Info("Agendador de limpeza do cache iniciado com sucesso")
	}

	server, err := api.New(cfg, recorder, reporter, authenticator, navigator, cacheJanitor)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// dbconn cria a conexão com o banco configurado (PostgreSQL ou SQLite)
func dbconn(ctx context.Context, dbConfig config.Database) *database.Connection {
	conn, err := database.NewConnection(ctx, dbConfig)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao banco de dados")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com o banco de dados")
	}

	logrus.WithField("driver", dbConfig.Driver).Info("Conexão com o banco de dados estabelecida com sucesso")
	return conn
}
