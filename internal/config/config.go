package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bnema/haggle/internal/domain"
	"github.com/spf13/viper"
)

const (
	EnvPrefix = "HAGGLE"

	configName = "config"
	configType = "toml"
	configDir  = ".haggle"

	DriverTOML   = "toml"
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"

	KeyStorageDriver      = "storage.driver"
	KeyCatalogPath        = "storage.catalog_path"
	KeyNegotiationsPath   = "storage.negotiations_path"
	KeySQLitePath         = "storage.sqlite_path"
	KeyMySQLUser          = "storage.mysql.user"
	KeyMySQLPassword      = "storage.mysql.password"
	KeyMySQLAddr          = "storage.mysql.addr"
	KeyMySQLDatabase      = "storage.mysql.database"
	KeyServerListen       = "server.listen"
	KeyLogLevel           = "log.level"
	KeyLogFormat          = "log.format"
	KeySecretsDir         = "secrets.dir"
	KeySecretsPassphrase  = "secrets.token_passphrase"
	strategyKeyPattern    = "strategy.%s.%s"
	defaultListen         = "127.0.0.1:8080"
	defaultSQLiteFile     = "haggle.db"
	defaultSecretsDirName = "secrets"
	defaultMySQLDatabase  = "haggle"
	defaultMySQLAddr      = "127.0.0.1:3306"
	defaultLogLevel       = "info"
	defaultLogFormat      = "text"
)

type Config struct {
	Storage    Storage
	Strategies map[domain.Kind]domain.Strategy
	Server     Server
	Log        Log
	Secrets    Secrets
}

type Storage struct {
	Driver           string
	CatalogPath      string
	NegotiationsPath string
	SQLitePath       string
	MySQL            MySQL
}

type MySQL struct {
	User     string
	Password string
	Addr     string
	Database string
}

type Server struct {
	Listen string
}

type Log struct {
	Level  string
	Format string
}

type Secrets struct {
	Dir             string
	TokenPassphrase string
}

// NewViper builds the viper instance every adapter reads from. configFile
// overrides the default ~/.haggle/config.toml lookup.
func NewViper(configFile string) (*viper.Viper, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	baseDir := filepath.Join(homeDir, configDir)

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, baseDir)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType(configType)
		v.AddConfigPath(baseDir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper, baseDir string) {
	v.SetDefault(KeyStorageDriver, DriverTOML)
	v.SetDefault(KeyCatalogPath, filepath.Join(baseDir, "catalog.toml"))
	v.SetDefault(KeyNegotiationsPath, filepath.Join(baseDir, "negotiations.toml"))
	v.SetDefault(KeySQLitePath, filepath.Join(baseDir, defaultSQLiteFile))
	v.SetDefault(KeyMySQLAddr, defaultMySQLAddr)
	v.SetDefault(KeyMySQLDatabase, defaultMySQLDatabase)
	v.SetDefault(KeyServerListen, defaultListen)
	v.SetDefault(KeyLogLevel, defaultLogLevel)
	v.SetDefault(KeyLogFormat, defaultLogFormat)
	v.SetDefault(KeySecretsDir, filepath.Join(baseDir, defaultSecretsDirName))

	for _, kind := range []domain.Kind{domain.KindProduct, domain.KindDelivery} {
		strategy := domain.DefaultStrategy(kind)
		v.SetDefault(strategyKey(kind, "round_cap"), strategy.RoundCap)
		v.SetDefault(strategyKey(kind, "accept_threshold"), strategy.AcceptThreshold)
		v.SetDefault(strategyKey(kind, "eagerness"), strategy.Eagerness)
		v.SetDefault(strategyKey(kind, "flexibility"), strategy.Flexibility)
		v.SetDefault(strategyKey(kind, "convergence_delta"), strategy.ConvergenceDelta)
	}
}

// Load reads and validates every setting from v.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		return Config{}, errors.New("config is nil")
	}

	cfg := Config{
		Storage: Storage{
			Driver:           strings.ToLower(strings.TrimSpace(v.GetString(KeyStorageDriver))),
			CatalogPath:      v.GetString(KeyCatalogPath),
			NegotiationsPath: v.GetString(KeyNegotiationsPath),
			SQLitePath:       v.GetString(KeySQLitePath),
			MySQL: MySQL{
				User:     v.GetString(KeyMySQLUser),
				Password: v.GetString(KeyMySQLPassword),
				Addr:     v.GetString(KeyMySQLAddr),
				Database: v.GetString(KeyMySQLDatabase),
			},
		},
		Strategies: map[domain.Kind]domain.Strategy{},
		Server:     Server{Listen: v.GetString(KeyServerListen)},
		Log: Log{
			Level:  strings.ToLower(v.GetString(KeyLogLevel)),
			Format: strings.ToLower(v.GetString(KeyLogFormat)),
		},
		Secrets: Secrets{
			Dir:             v.GetString(KeySecretsDir),
			TokenPassphrase: v.GetString(KeySecretsPassphrase),
		},
	}

	for _, kind := range []domain.Kind{domain.KindProduct, domain.KindDelivery} {
		cfg.Strategies[kind] = domain.Strategy{
			RoundCap:         v.GetInt(strategyKey(kind, "round_cap")),
			AcceptThreshold:  v.GetFloat64(strategyKey(kind, "accept_threshold")),
			Eagerness:        v.GetFloat64(strategyKey(kind, "eagerness")),
			Flexibility:      v.GetFloat64(strategyKey(kind, "flexibility")),
			ConvergenceDelta: v.GetFloat64(strategyKey(kind, "convergence_delta")),
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverTOML:
	case DriverSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("%s is required for the sqlite driver", KeySQLitePath)
		}
	case DriverMySQL:
		if c.Storage.MySQL.Addr == "" || c.Storage.MySQL.Database == "" {
			return fmt.Errorf("%s and %s are required for the mysql driver", KeyMySQLAddr, KeyMySQLDatabase)
		}
	default:
		return fmt.Errorf("unsupported %s %q (want toml, sqlite or mysql)", KeyStorageDriver, c.Storage.Driver)
	}

	for kind, strategy := range c.Strategies {
		if err := strategy.Validate(); err != nil {
			return fmt.Errorf("strategy.%s: %w", kind, err)
		}
	}

	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return fmt.Errorf("unsupported %s %q (want text or json)", KeyLogFormat, c.Log.Format)
	}

	return nil
}

func strategyKey(kind domain.Kind, field string) string {
	return fmt.Sprintf(strategyKeyPattern, kind, field)
}
