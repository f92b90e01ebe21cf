// Package config loads connection settings from config files, .env files
// and the environment.
package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/coregx/dsql/internal/dialects"
	"github.com/coregx/dsql/internal/logger"
	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
	"github.com/lib/pq"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable, e.g. DSQL_DRIVER.
const EnvPrefix = "DSQL"

var (
	// ErrMissingDSN is returned when neither a DSN nor a database is configured.
	ErrMissingDSN = errors.New("no dsn or database configured")

	// ErrInvalidPool is returned for negative pool settings.
	ErrInvalidPool = errors.New("invalid connection pool setting")
)

// Config holds the settings needed to open a DB.
type Config struct {
	Driver          string        `mapstructure:"driver"`
	DSN             string        `mapstructure:"dsn"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"sslmode"`
	LogLevel        string        `mapstructure:"log_level"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

var lookupEnv = os.LookupEnv

var defaults = map[string]any{
	"driver":            "sqlite",
	"dsn":               "",
	"host":              "localhost",
	"port":              0,
	"user":              "",
	"password":          "",
	"database":          "",
	"sslmode":           "",
	"log_level":         "info",
	"max_open_conns":    0,
	"max_idle_conns":    0,
	"conn_max_lifetime": 0,
}

// Loader reads a Config. Precedence, highest first: process environment,
// .env files, config file, defaults.
type Loader struct {
	fs       afero.Fs
	file     string
	dirs     []string
	envFiles []string
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFs sets the filesystem config and .env files are read from.
func WithFs(fs afero.Fs) LoaderOption {
	return func(l *Loader) {
		if fs != nil {
			l.fs = fs
		}
	}
}

// WithConfigFile reads exactly this file. A missing file is an error.
func WithConfigFile(path string) LoaderOption {
	return func(l *Loader) {
		l.file = path
	}
}

// WithSearchPaths replaces the directories searched for dsql.{yaml,toml,json}.
func WithSearchPaths(dirs ...string) LoaderOption {
	return func(l *Loader) {
		l.dirs = dirs
	}
}

// WithEnvFiles replaces the .env files. Later files override earlier ones.
func WithEnvFiles(names ...string) LoaderOption {
	return func(l *Loader) {
		l.envFiles = names
	}
}

// NewLoader searches the working directory and ~/.config/dsql by default.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:       afero.NewOsFs(),
		dirs:     []string{"."},
		envFiles: []string{".env", ".env.local"},
	}
	if home, err := homedir.Dir(); err == nil {
		l.dirs = append(l.dirs, filepath.Join(home, ".config", "dsql"))
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load reads the configuration with the default Loader.
func Load() (*Config, error) {
	return NewLoader().Load()
}

// Load reads and validates the configuration.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()
	v.SetFs(l.fs)

	for key, val := range defaults {
		v.SetDefault(key, val)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	if err := v.BindEnv("dsn", EnvPrefix+"_DSN", "DATABASE_URL"); err != nil {
		return nil, err
	}

	if err := l.readConfigFile(v); err != nil {
		return nil, err
	}
	if err := l.readEnvFiles(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (l *Loader) readConfigFile(v *viper.Viper) error {
	if l.file != "" {
		v.SetConfigFile(l.file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", l.file, err)
		}
		return nil
	}

	v.SetConfigName("dsql")
	for _, dir := range l.dirs {
		v.AddConfigPath(dir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// readEnvFiles applies DSQL_* entries of the .env files. Variables set in
// the process are left to AutomaticEnv.
func (l *Loader) readEnvFiles(v *viper.Viper) error {
	values := make(map[string]string)
	for _, name := range l.envFiles {
		f, err := l.fs.Open(name)
		if err != nil {
			continue
		}
		parsed, err := godotenv.Parse(f)
		_ = f.Close()
		if err != nil {
			return fmt.Errorf("parse %s: %w", name, err)
		}
		for k, val := range parsed {
			values[k] = val
		}
	}

	for k, val := range values {
		key, ok := keyFor(k)
		if !ok {
			continue
		}
		if _, set := lookupEnv(k); set {
			continue
		}
		if key == "dsn" {
			if _, set := lookupEnv(EnvPrefix + "_DSN"); set {
				continue
			}
		}
		v.Set(key, val)
	}
	return nil
}

// keyFor maps an environment variable name to its config key.
func keyFor(env string) (string, bool) {
	if env == "DATABASE_URL" {
		return "dsn", true
	}
	key, ok := strings.CutPrefix(env, EnvPrefix+"_")
	if !ok {
		return "", false
	}
	key = strings.ToLower(key)
	if _, known := defaults[key]; !known {
		return "", false
	}
	return key, true
}

// Validate checks the driver and pool settings.
func (c *Config) Validate() error {
	if _, err := c.Flavor(); err != nil {
		return err
	}
	if c.MaxOpenConns < 0 || c.MaxIdleConns < 0 || c.ConnMaxLifetime < 0 {
		return ErrInvalidPool
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Flavor returns the SQL flavor of the configured driver.
func (c *Config) Flavor() (dialects.Flavor, error) {
	return dialects.FromDriver(c.Driver)
}

// Level parses LogLevel. An empty level is Info.
func (c *Config) Level() (logger.Level, error) {
	return logger.ParseLevel(c.LogLevel)
}

// DataSourceName returns the DSN handed to sql.Open.
//
// An explicit DSN wins. PostgreSQL URLs are converted to the key/value
// form and MySQL DSNs get parseTime enabled. Without a DSN one is built
// from the host, port, user, password and database settings.
func (c *Config) DataSourceName() (string, error) {
	f, err := c.Flavor()
	if err != nil {
		return "", err
	}
	switch f {
	case dialects.MySQL:
		return c.mysqlDSN()
	case dialects.PostgreSQL:
		return c.postgresDSN()
	default:
		if c.DSN != "" {
			return c.DSN, nil
		}
		if c.Database == "" {
			return "", ErrMissingDSN
		}
		return c.Database, nil
	}
}

func (c *Config) mysqlDSN() (string, error) {
	var mc *mysql.Config
	if c.DSN != "" {
		parsed, err := mysql.ParseDSN(c.DSN)
		if err != nil {
			return "", fmt.Errorf("mysql dsn: %w", err)
		}
		mc = parsed
	} else {
		if c.Database == "" {
			return "", ErrMissingDSN
		}
		mc = mysql.NewConfig()
		mc.User = c.User
		mc.Passwd = c.Password
		mc.Net = "tcp"
		mc.Addr = c.address(3306)
		mc.DBName = c.Database
	}
	mc.ParseTime = true
	return mc.FormatDSN(), nil
}

func (c *Config) postgresDSN() (string, error) {
	dsn := c.DSN
	if dsn == "" {
		if c.Database == "" {
			return "", ErrMissingDSN
		}
		u := url.URL{
			Scheme: "postgres",
			Host:   c.address(5432),
			Path:   "/" + c.Database,
		}
		if c.User != "" {
			u.User = url.UserPassword(c.User, c.Password)
		}
		if c.SSLMode != "" {
			u.RawQuery = url.Values{"sslmode": {c.SSLMode}}.Encode()
		}
		dsn = u.String()
	}
	if !strings.HasPrefix(dsn, "postgres://") && !strings.HasPrefix(dsn, "postgresql://") {
		return dsn, nil
	}
	kv, err := pq.ParseURL(dsn)
	if err != nil {
		return "", fmt.Errorf("postgres dsn: %w", err)
	}
	return kv, nil
}

func (c *Config) address(defaultPort int) string {
	port := c.Port
	if port == 0 {
		port = defaultPort
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(port))
}
