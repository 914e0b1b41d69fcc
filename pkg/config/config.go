package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = ""

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "TABEGORO_DB_DSN"
	EnvDBHost = "TABEGORO_DB_HOST"
	EnvDBUser = "TABEGORO_DB_USER"
	EnvDBName = "TABEGORO_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	CORS          CORSConfig
	GCP           GCPConfig
	Storage       StorageConfig
	Upload        UploadConfig
	FeatureFlags  FeatureFlagsConfig
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
	Env          string `envconfig:"TABEGORO_APP_ENV" required:"true"`
	Port         string `envconfig:"TABEGORO_APP_PORT" default:"4000"`
	LogLevel     string `envconfig:"TABEGORO_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TABEGORO_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TABEGORO_DB_DSN"`
	Driver string `envconfig:"TABEGORO_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TABEGORO_DB_HOST"`
	LegacyPort     int    `envconfig:"TABEGORO_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TABEGORO_DB_USER"`
	LegacyPassword string `envconfig:"TABEGORO_DB_PASSWORD"`
	LegacyName     string `envconfig:"TABEGORO_DB_NAME"`
	LegacySSLMode  string `envconfig:"TABEGORO_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TABEGORO_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TABEGORO_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TABEGORO_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TABEGORO_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TABEGORO_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TABEGORO_REDIS_ADDR"`
	Password     string        `envconfig:"TABEGORO_REDIS_PASSWORD"`
	DB           int           `envconfig:"TABEGORO_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TABEGORO_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TABEGORO_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TABEGORO_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TABEGORO_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TABEGORO_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret          string `envconfig:"TABEGORO_JWT_SECRET" required:"true"`
	Issuer          string `envconfig:"TABEGORO_JWT_ISSUER" default:"tabegoro"`
	ExpirationHours int    `envconfig:"TABEGORO_JWT_EXPIRATION_HOURS" default:"168"`
}

// TokenTTL returns the access token lifetime (7 days by default).
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationHours <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationHours) * time.Hour
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TABEGORO_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TABEGORO_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TABEGORO_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TABEGORO_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TABEGORO_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow        time.Duration `envconfig:"TABEGORO_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginEmailLimit    int           `envconfig:"TABEGORO_AUTH_RATE_LIMIT_LOGIN_EMAIL_LIMIT" default:"5"`
	LoginIPLimit       int           `envconfig:"TABEGORO_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow     time.Duration `envconfig:"TABEGORO_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit int           `envconfig:"TABEGORO_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit    int           `envconfig:"TABEGORO_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type CORSConfig struct {
	Origins []string `envconfig:"TABEGORO_CORS_ORIGINS" default:"*"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TABEGORO_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TABEGORO_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TABEGORO_GOOGLE_APPLICATION_CREDENTIALS"`
}

type StorageConfig struct {
	BucketName    string `envconfig:"TABEGORO_STORAGE_BUCKET_NAME" required:"true"`
	PublicBaseURL string `envconfig:"TABEGORO_STORAGE_PUBLIC_BASE_URL" required:"true"`
}

type UploadConfig struct {
	MaxUploadMB int `envconfig:"TABEGORO_MAX_UPLOAD_MB" default:"10"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TABEGORO_AUTO_MIGRATE" default:"false"`
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
