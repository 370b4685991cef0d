package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tidecart/internal/constants"
	"github.com/tidecart/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	UserJWT  JWTConfig      `mapstructure:"user_jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Cart     CartConfig     `mapstructure:"cart"`
	Checkout CheckoutConfig `mapstructure:"checkout"`
	Client   ClientConfig   `mapstructure:"client"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// Addr 监听地址
func (c ServerConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// LogConfig 日志配置
type LogConfig struct {
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig JWT 配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled           bool           `mapstructure:"enabled"`
	Host              string         `mapstructure:"host"`
	Port              int            `mapstructure:"port"`
	Password          string         `mapstructure:"password"`
	DB                int            `mapstructure:"db"`
	Concurrency       int            `mapstructure:"concurrency"`
	Queues            map[string]int `mapstructure:"queues"`
	SweepIntervalCron string         `mapstructure:"sweep_interval_cron"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit LoginRateLimitConfig `mapstructure:"login_rate_limit"`
	PasswordMinLen int                  `mapstructure:"password_min_length"`
}

// LoginRateLimitConfig 登录限流配置
type LoginRateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// CartConfig 购物车与计价配置
type CartConfig struct {
	Currency              string  `mapstructure:"currency"`
	MaxQuantityPerLine    int     `mapstructure:"max_quantity_per_line"` // 0 表示不限制
	FreeDeliveryThreshold string  `mapstructure:"free_delivery_threshold"`
	DeliveryFee           string  `mapstructure:"delivery_fee"`
	DiscountPercent       float64 `mapstructure:"discount_percent"`
	DiscountCap           string  `mapstructure:"discount_cap"`
}

// CheckoutConfig 结算流程配置
type CheckoutConfig struct {
	SessionTTLMinutes int      `mapstructure:"session_ttl_minutes"`
	LockTTLSeconds    int      `mapstructure:"lock_ttl_seconds"`
	PaymentMethods    []string `mapstructure:"payment_methods"`
	SubmitTimeoutMS   int      `mapstructure:"submit_timeout_ms"`
}

// SessionTTL 会话过期时间
func (c CheckoutConfig) SessionTTL() time.Duration {
	if c.SessionTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

// LockTTL 提交锁过期时间
func (c CheckoutConfig) LockTTL() time.Duration {
	if c.LockTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// SubmitTimeout 单次下单超时
func (c CheckoutConfig) SubmitTimeout() time.Duration {
	if c.SubmitTimeoutMS <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.SubmitTimeoutMS) * time.Millisecond
}

// ClientConfig 命令行客户端（API Client）配置
type ClientConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	Token         string `mapstructure:"token"`
	MaxAttempts   int    `mapstructure:"max_attempts"`
	BaseDelayMS   int    `mapstructure:"base_delay_ms"`
	MaxDelayMS    int    `mapstructure:"max_delay_ms"`
	TimeoutMS     int    `mapstructure:"timeout_ms"`
	AlwaysMock    bool   `mapstructure:"always_mock"`
	FallbackOnErr bool   `mapstructure:"fallback_on_error"`
}

// Load 从 config.yml 加载配置
func Load() *Config {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("./etc")

	setDefaults(v)

	// 环境变量覆盖，例如 server.port -> SERVER_PORT
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		logger.Warnw("config_file_read_failed",
			"error", err,
			"fallback", "env_or_defaults",
		)
	} else {
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(fmt.Errorf("配置解析失败: %w", err))
	}
	return &cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")

	v.SetDefault("log.dir", "")
	v.SetDefault("log.filename", "app.log")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 7)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("log.compress", true)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "./db/tidecart.db")
	v.SetDefault("database.pool.max_open_conns", 1)
	v.SetDefault("database.pool.max_idle_conns", 1)

	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.expire_hours", 24)
	v.SetDefault("user_jwt.secret", "user-change-me-in-production")
	v.SetDefault("user_jwt.expire_hours", 168)

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "127.0.0.1")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.prefix", "tc")

	v.SetDefault("queue.enabled", true)
	v.SetDefault("queue.host", "127.0.0.1")
	v.SetDefault("queue.port", 6379)
	v.SetDefault("queue.db", 1)
	v.SetDefault("queue.concurrency", 10)
	v.SetDefault("queue.queues", map[string]int{
		"default":  10,
		"critical": 5,
	})
	v.SetDefault("queue.sweep_interval_cron", "@every 10m")

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("cors.allowed_methods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowed_headers", []string{
		"Content-Type",
		"Authorization",
		"Idempotency-Key",
		"X-Request-ID",
		"Accept-Language",
	})
	v.SetDefault("cors.allow_credentials", true)
	v.SetDefault("cors.max_age", 600)

	v.SetDefault("security.login_rate_limit.window_seconds", 300)
	v.SetDefault("security.login_rate_limit.max_attempts", 5)
	v.SetDefault("security.login_rate_limit.block_seconds", 900)
	v.SetDefault("security.password_min_length", 8)

	v.SetDefault("cart.currency", "INR")
	v.SetDefault("cart.max_quantity_per_line", 10)
	v.SetDefault("cart.free_delivery_threshold", "999")
	v.SetDefault("cart.delivery_fee", "49")
	v.SetDefault("cart.discount_percent", 0)
	v.SetDefault("cart.discount_cap", "0")

	v.SetDefault("checkout.session_ttl_minutes", 30)
	v.SetDefault("checkout.lock_ttl_seconds", 30)
	v.SetDefault("checkout.payment_methods", []string{constants.PaymentMethodUPI, constants.PaymentMethodCard, constants.PaymentMethodCOD})
	v.SetDefault("checkout.submit_timeout_ms", 15000)

	v.SetDefault("client.base_url", "http://127.0.0.1:8080/api/v1")
	v.SetDefault("client.token", "")
	v.SetDefault("client.max_attempts", 3)
	v.SetDefault("client.base_delay_ms", 1000)
	v.SetDefault("client.max_delay_ms", 8000)
	v.SetDefault("client.timeout_ms", 10000)
	v.SetDefault("client.always_mock", false)
	v.SetDefault("client.fallback_on_error", true)
}
