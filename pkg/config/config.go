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
	Gateway       GatewayConfig
	FeatureFlags  FeatureFlagsConfig
	CORS          CORSConfig
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
	Env          string `envconfig:"CINESPARK_APP_ENV" required:"true"`
	Port         string `envconfig:"CINESPARK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CINESPARK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CINESPARK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CINESPARK_DB_DSN"`
	Driver string `envconfig:"CINESPARK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CINESPARK_DB_HOST"`
	LegacyPort     int    `envconfig:"CINESPARK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CINESPARK_DB_USER"`
	LegacyPassword string `envconfig:"CINESPARK_DB_PASSWORD"`
	LegacyName     string `envconfig:"CINESPARK_DB_NAME"`
	LegacySSLMode  string `envconfig:"CINESPARK_DB_SSLMODE" default:"disable"`

	MaxOpenConns     int           `envconfig:"CINESPARK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns     int           `envconfig:"CINESPARK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime  time.Duration `envconfig:"CINESPARK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime  time.Duration `envconfig:"CINESPARK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
	StatementTimeout time.Duration `envconfig:"CINESPARK_DB_STATEMENT_TIMEOUT" default:"30s"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CINESPARK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CINESPARK_REDIS_ADDR"`
	Password     string        `envconfig:"CINESPARK_REDIS_PASSWORD"`
	DB           int           `envconfig:"CINESPARK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CINESPARK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CINESPARK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CINESPARK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CINESPARK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CINESPARK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret          string `envconfig:"CINESPARK_JWT_SECRET" required:"true"`
	Issuer          string `envconfig:"CINESPARK_JWT_ISSUER" required:"true"`
	ExpirationHours int    `envconfig:"CINESPARK_JWT_EXPIRATION_HOURS" default:"168"`
}

// ExpirationTTL returns the access token lifetime. Defaults to seven days.
func (j JWTConfig) ExpirationTTL() time.Duration {
	if j.ExpirationHours <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationHours) * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CINESPARK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CINESPARK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CINESPARK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CINESPARK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CINESPARK_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"CINESPARK_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"CINESPARK_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"CINESPARK_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"CINESPARK_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"CINESPARK_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"CINESPARK_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type GatewayConfig struct {
	Latency  time.Duration `envconfig:"CINESPARK_GATEWAY_LATENCY" default:"200ms"`
	Currency string        `envconfig:"CINESPARK_GATEWAY_CURRENCY" default:"COP"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CINESPARK_AUTO_MIGRATE" default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `envconfig:"CINESPARK_CORS_ALLOWED_ORIGINS" default:"http://localhost:3000,http://localhost:5173"`
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
