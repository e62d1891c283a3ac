package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gookit/config/v2"
	"github.com/gookit/config/v2/yaml"
)

var (
	ErrMissingSigningKey  = errors.New("jwt signing key is not configured")
	ErrMissingCredentials = errors.New("auth password or password hash is not configured")
)

type Config struct {
	Addr           string
	DatabaseDriver string
	DatabaseURL    string
	AutoMigrate    bool
	JWT            JWTConfig
	Auth           AuthConfig
	CORSOrigins    []string
	LogLevel       string
	LogFormat      string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

type JWTConfig struct {
	Key            string
	Issuer         string
	Audience       string
	ExpiresMinutes int
}

// Expiry 返回 token 有效期
func (c JWTConfig) Expiry() time.Duration {
	return time.Duration(c.ExpiresMinutes) * time.Minute
}

type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string
}

func Load(defaultAddr string) (Config, error) {
	// 先读取可选的 YAML 配置文件，再用环境变量覆盖
	file, err := loadFile(getEnv("CONFIG_FILE", "config.yml"))
	if err != nil {
		return Config{}, err
	}

	// 数值、布尔、时长解析失败直接报错，不悄悄回退到默认值
	var errs []error
	autoMigrate, err := getEnvBool("DB_AUTO_MIGRATE", file.Bool("database.auto_migrate", true))
	errs = append(errs, err)
	expiresMinutes, err := getEnvInt("JWT_EXPIRES_MINUTES", file.Int("jwt.expires_minutes", 60))
	errs = append(errs, err)
	readTimeout, err := durationSetting(file, "READ_TIMEOUT", "server.read_timeout", 5*time.Second)
	errs = append(errs, err)
	writeTimeout, err := durationSetting(file, "WRITE_TIMEOUT", "server.write_timeout", 10*time.Second)
	errs = append(errs, err)
	idleTimeout, err := durationSetting(file, "IDLE_TIMEOUT", "server.idle_timeout", 120*time.Second)
	errs = append(errs, err)
	if err := errors.Join(errs...); err != nil {
		return Config{}, err
	}

	cfg := Config{
		Addr:           getEnv("ADDR", file.String("addr", defaultAddr)),
		DatabaseDriver: getEnv("DB_DRIVER", file.String("database.driver", "sqlite3")),
		DatabaseURL:    getEnv("DATABASE_URL", file.String("database.url", "todos.db")),
		AutoMigrate:    autoMigrate,
		JWT: JWTConfig{
			Key:            getEnv("JWT_KEY", file.String("jwt.key", "")),
			Issuer:         getEnv("JWT_ISSUER", file.String("jwt.issuer", "MyFirstApi")),
			Audience:       getEnv("JWT_AUDIENCE", file.String("jwt.audience", "MyFirstApiUsers")),
			ExpiresMinutes: expiresMinutes,
		},
		Auth: AuthConfig{
			Username:     getEnv("AUTH_USERNAME", file.String("auth.username", "admin")),
			Password:     getEnv("AUTH_PASSWORD", file.String("auth.password", "")),
			PasswordHash: getEnv("AUTH_PASSWORD_HASH", file.String("auth.password_hash", "")),
		},
		CORSOrigins:  splitList(getEnv("CORS_ALLOWED_ORIGINS", file.String("cors.allowed_origins", "*"))),
		LogLevel:     getEnv("LOG_LEVEL", file.String("log.level", "info")),
		LogFormat:    getEnv("LOG_FORMAT", file.String("log.format", "text")),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}

	if cfg.JWT.ExpiresMinutes <= 0 {
		cfg.JWT.ExpiresMinutes = 60
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 检查启动必需的配置项
func (c Config) Validate() error {
	if strings.TrimSpace(c.JWT.Key) == "" {
		return ErrMissingSigningKey
	}
	if c.Auth.Password == "" && c.Auth.PasswordHash == "" {
		return ErrMissingCredentials
	}
	return nil
}

func loadFile(path string) (*config.Config, error) {
	// 配置文件不存在时直接返回空配置
	c := config.New("todo-api")
	c.WithOptions(func(opt *config.Options) {
		opt.ParseEnv = true
	})
	c.AddDriver(yaml.Driver)

	if err := c.LoadExists(path); err != nil {
		return nil, fmt.Errorf("load config file %s: %w", path, err)
	}
	return c, nil
}

func durationSetting(c *config.Config, envKey, fileKey string, fallback time.Duration) (time.Duration, error) {
	// 环境变量优先，其次配置文件
	if value := os.Getenv(envKey); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", envKey, value, err)
		}
		return parsed, nil
	}
	if value := c.String(fileKey, ""); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: %w", fileKey, value, err)
		}
		return parsed, nil
	}
	return fallback, nil
}

func getEnv(key, fallback string) string {
	// 读取字符串环境变量
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return parsed, nil
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
