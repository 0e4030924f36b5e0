package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepostgres "github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/records-api/internal/config"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFiles embed.FS

// RunMigrations aplica as migrações pendentes do driver configurado.
// Com autoMigrate desligado apenas registra a versão atual.
func RunMigrations(conn *Connection, cfg config.Database) error {
	switch conn.Driver {
	case config.DriverSQLite:
		// Conexão separada: o driver de migração fecha o banco ao terminar
		migrateDB, err := sql.Open("sqlite", cfg.DSN)
		if err != nil {
			return fmt.Errorf("erro ao abrir banco para migração: %w", err)
		}
		defer migrateDB.Close()

		driver, err := migratesqlite.WithInstance(migrateDB, &migratesqlite.Config{})
		if err != nil {
			return fmt.Errorf("erro ao criar driver de migração sqlite: %w", err)
		}

		m, err := newMigrate("migrations/sqlite", "sqlite", driver)
		if err != nil {
			return err
		}
		defer m.Close()

		return runUp(m, cfg.AutoMigrate)
	default:
		driver, err := migratepostgres.WithInstance(conn.DB, &migratepostgres.Config{})
		if err != nil {
			return fmt.Errorf("erro ao criar driver de migração postgres: %w", err)
		}

		m, err := newMigrate("migrations/postgres", "postgres", driver)
		if err != nil {
			return err
		}

		return runUp(m, cfg.AutoMigrate)
	}
}

func newMigrate(dir, driverName string, driver migratedb.Driver) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, dir)
	if err != nil {
		return nil, fmt.Errorf("erro ao carregar migrações embutidas: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		return nil, fmt.Errorf("erro ao criar instância de migração: %w", err)
	}

	return m, nil
}

func runUp(m *migrate.Migrate, autoMigrate bool) error {
	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("erro ao consultar versão das migrações: %w", err)
	}

	if dirty {
		logrus.WithField("version", version).Warn("Banco em estado dirty, forçando a versão atual")
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("erro ao recuperar estado dirty na versão %d: %w", version, err)
		}
	}

	if !autoMigrate {
		logrus.WithField("version", version).Info("Migração automática desabilitada")
		return nil
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			logrus.WithField("version", version).Info("Esquema do banco atualizado")
			return nil
		}
		return fmt.Errorf("erro ao executar migrações: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("erro ao consultar nova versão das migrações: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"from_version": version,
		"to_version":   newVersion,
	}).Info("Migrações aplicadas com sucesso")

	return nil
}
