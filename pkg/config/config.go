package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Lock          LockConfig
	CORS          CORSConfig
	Scheduler     SchedulerConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SIMKEMAS_APP_ENV" required:"true"`
	Port         string `envconfig:"SIMKEMAS_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"SIMKEMAS_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SIMKEMAS_LOG_WARN_STACK" default:"false"`
	LogFormat    string `envconfig:"SIMKEMAS_LOG_FORMAT" default:"json"`
	TrustProxy   bool   `envconfig:"SIMKEMAS_TRUST_PROXY" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd) || strings.EqualFold(a.Env, "prod")
}

type DBConfig struct {
	DSN string `envconfig:"SIMKEMAS_DB_DSN"`

	LegacyHost     string `envconfig:"SIMKEMAS_DB_HOST"`
	LegacyPort     int    `envconfig:"SIMKEMAS_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"SIMKEMAS_DB_USER"`
	LegacyPassword string `envconfig:"SIMKEMAS_DB_PASSWORD"`
	LegacyName     string `envconfig:"SIMKEMAS_DB_NAME"`
	LegacySSLMode  string `envconfig:"SIMKEMAS_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SIMKEMAS_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SIMKEMAS_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SIMKEMAS_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SIMKEMAS_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SIMKEMAS_REDIS_URL"`
	Address      string        `envconfig:"SIMKEMAS_REDIS_ADDR"`
	Password     string        `envconfig:"SIMKEMAS_REDIS_PASSWORD"`
	DB           int           `envconfig:"SIMKEMAS_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SIMKEMAS_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SIMKEMAS_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SIMKEMAS_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SIMKEMAS_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SIMKEMAS_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SIMKEMAS_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SIMKEMAS_JWT_ISSUER" default:"simkemas"`
	ExpirationMinutes int    `envconfig:"SIMKEMAS_JWT_EXPIRATION_MINUTES" default:"240"`
}

// TTL returns the access token lifetime.
func (j JWTConfig) TTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"SIMKEMAS_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"SIMKEMAS_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"SIMKEMAS_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"SIMKEMAS_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"SIMKEMAS_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow  time.Duration `envconfig:"SIMKEMAS_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"15m"`
	LoginIPLimit int           `envconfig:"SIMKEMAS_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"5"`
}

type FeatureFlagsConfig struct {
	AutoMigrate          bool `envconfig:"SIMKEMAS_AUTO_MIGRATE" default:"false"`
	StrictTransitions    bool `envconfig:"SIMKEMAS_FEATURE_STRICT_TRANSITIONS" default:"false"`
	RecordPickupPayments bool `envconfig:"SIMKEMAS_FEATURE_RECORD_PICKUP_PAYMENTS" default:"false"`
}

type LockConfig struct {
	Enabled bool          `envconfig:"SIMKEMAS_LOCK_ENABLED" default:"false"`
	TTL     time.Duration `envconfig:"SIMKEMAS_LOCK_TTL" default:"10s"`
}

// SchedulerConfig drives cmd/scheduler.
type SchedulerConfig struct {
	Interval time.Duration `envconfig:"SIMKEMAS_SCHEDULER_INTERVAL" default:"24h"`
	AuditFix bool          `envconfig:"SIMKEMAS_SCHEDULER_AUDIT_FIX" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"SIMKEMAS_CORS_ALLOWED_ORIGINS" default:"http://localhost:5173,http://localhost:3000"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
