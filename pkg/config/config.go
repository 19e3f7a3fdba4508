package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Password     PasswordConfig
	Checkout     CheckoutConfig
	FeatureFlags FeatureFlagsConfig
	GCP          GCPConfig
	GCS          GCSConfig
	Media        MediaConfig
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
	Env          string `envconfig:"CAMPUSCART_APP_ENV" required:"true"`
	Port         string `envconfig:"CAMPUSCART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"CAMPUSCART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"CAMPUSCART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"CAMPUSCART_DB_DSN"`
	Driver string `envconfig:"CAMPUSCART_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"CAMPUSCART_DB_HOST"`
	LegacyPort     int    `envconfig:"CAMPUSCART_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"CAMPUSCART_DB_USER"`
	LegacyPassword string `envconfig:"CAMPUSCART_DB_PASSWORD"`
	LegacyName     string `envconfig:"CAMPUSCART_DB_NAME"`
	LegacySSLMode  string `envconfig:"CAMPUSCART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"CAMPUSCART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"CAMPUSCART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"CAMPUSCART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"CAMPUSCART_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"CAMPUSCART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"CAMPUSCART_REDIS_ADDR"`
	Password     string        `envconfig:"CAMPUSCART_REDIS_PASSWORD"`
	DB           int           `envconfig:"CAMPUSCART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"CAMPUSCART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"CAMPUSCART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"CAMPUSCART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"CAMPUSCART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"CAMPUSCART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"CAMPUSCART_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"CAMPUSCART_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"CAMPUSCART_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"CAMPUSCART_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"CAMPUSCART_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"CAMPUSCART_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"CAMPUSCART_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"CAMPUSCART_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"CAMPUSCART_ARGON_KEY_LEN" default:"32"`
}

type CheckoutConfig struct {
	// SessionTTL bounds how long an abandoned checkout selection survives in Redis.
	SessionTTL time.Duration `envconfig:"CAMPUSCART_CHECKOUT_SESSION_TTL" default:"2h"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"CAMPUSCART_AUTO_MIGRATE" default:"false"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"CAMPUSCART_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"CAMPUSCART_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"CAMPUSCART_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName string `envconfig:"CAMPUSCART_GCS_BUCKET_NAME" required:"true"`
}

type MediaConfig struct {
	MaxUploadMB int `envconfig:"CAMPUSCART_MAX_UPLOAD_MB" default:"10"`
}

// MaxUploadBytes converts the configured megabyte ceiling to bytes.
func (m MediaConfig) MaxUploadBytes() int64 {
	return int64(m.MaxUploadMB) << 20
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
