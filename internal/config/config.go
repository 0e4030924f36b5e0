package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Cache        Cache        `mapstructure:",squash"`
	CacheJanitor CacheJanitor `mapstructure:",squash"`
	Records      Records      `mapstructure:",squash"`
	SecretKey    string       `mapstructure:"secret_key"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type Database struct {
	DSN         string `mapstructure:"-"`
	Driver      string `mapstructure:"database_driver"`
	Password    string `mapstructure:"database_password"`
	URL         string `mapstructure:"database_url"`
	User        string `mapstructure:"database_user"`
	Path        string `mapstructure:"database_path"` // Arquivo do SQLite
	AutoMigrate bool   `mapstructure:"database_auto_migrate"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Cache struct {
	TTL time.Duration `mapstructure:"cache_ttl"`
}

type CacheJanitor struct {
	CronSchedule string `mapstructure:"cache_janitor_cron"`
	Enabled      bool   `mapstructure:"cache_janitor_enabled"`
}

type Records struct {
	UploadMaxBytes        int64 `mapstructure:"upload_max_bytes"`
	DefaultPageSize       int   `mapstructure:"records_default_page_size"`
	TimeSeriesDefaultDays int   `mapstructure:"timeseries_default_days"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", DriverPostgres)
	viper.SetDefault("DATABASE_URL", "localhost:5432/records?sslmode=disable")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")
	viper.SetDefault("DATABASE_PATH", "data/records.db")
	viper.SetDefault("DATABASE_AUTO_MIGRATE", true)

	viper.SetDefault("SECRET_KEY", "your_secret_key")

	viper.SetDefault("CACHE_TTL", "60s")
	viper.SetDefault("CACHE_JANITOR_CRON", "*/5 * * * *") // A cada 5 minutos
	viper.SetDefault("CACHE_JANITOR_ENABLED", true)

	viper.SetDefault("UPLOAD_MAX_BYTES", 16*1024*1024) // 16MB
	viper.SetDefault("RECORDS_DEFAULT_PAGE_SIZE", 50)
	viper.SetDefault("TIMESERIES_DEFAULT_DAYS", 30)

	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = config.Database.BuildDSN()

	return config, nil
}

// Validate verifica combinações de configuração que impedem a aplicação de subir
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("DATABASE_DRIVER inválido: %q (use %s ou %s)", c.Database.Driver, DriverPostgres, DriverSQLite)
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL deve ser positivo: %s", c.Cache.TTL)
	}

	if c.Records.UploadMaxBytes <= 0 {
		return fmt.Errorf("UPLOAD_MAX_BYTES deve ser positivo: %d", c.Records.UploadMaxBytes)
	}

	if c.Records.DefaultPageSize < 1 || c.Records.DefaultPageSize > 1000 {
		return fmt.Errorf("RECORDS_DEFAULT_PAGE_SIZE deve estar entre 1 e 1000: %d", c.Records.DefaultPageSize)
	}

	return nil
}

// BuildDSN monta a string de conexão conforme o driver
func (d Database) BuildDSN() string {
	if d.Driver == DriverSQLite {
		return fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite", d.Path)
	}

	return fmt.Sprintf(
		"%s://%s:%s@%s",
		d.Driver,
		d.User,
		d.Password,
		d.URL,
	)
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
