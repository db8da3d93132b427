package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

const (
	EnvPrefix = "AGRIGUIDE"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"

	EnvDBDSN  = "AGRIGUIDE_DB_DSN"
	EnvDBHost = "AGRIGUIDE_DB_HOST"
	EnvDBUser = "AGRIGUIDE_DB_USER"
	EnvDBName = "AGRIGUIDE_DB_NAME"
)

var legacyDBEnvVars = []string{EnvDBHost, EnvDBUser, EnvDBName}

type Config struct {
	App           AppConfig
	DB            DBConfig
	Redis         RedisConfig
	JWT           JWTConfig
	Password      PasswordConfig
	AuthRateLimit AuthRateLimitConfig
	FeatureFlags  FeatureFlagsConfig
	Gemini        GeminiConfig
	Tips          TipsConfig
	GCP           GCPConfig
	GCS           GCSConfig
	Media         MediaConfig
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
	Env          string `envconfig:"AGRIGUIDE_APP_ENV" required:"true"`
	Port         string `envconfig:"AGRIGUIDE_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"AGRIGUIDE_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"AGRIGUIDE_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"AGRIGUIDE_DB_DSN"`
	Driver string `envconfig:"AGRIGUIDE_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"AGRIGUIDE_DB_HOST"`
	LegacyPort     int    `envconfig:"AGRIGUIDE_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"AGRIGUIDE_DB_USER"`
	LegacyPassword string `envconfig:"AGRIGUIDE_DB_PASSWORD"`
	LegacyName     string `envconfig:"AGRIGUIDE_DB_NAME"`
	LegacySSLMode  string `envconfig:"AGRIGUIDE_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"AGRIGUIDE_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"AGRIGUIDE_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"AGRIGUIDE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"AGRIGUIDE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"AGRIGUIDE_REDIS_URL" required:"true"`
	Address      string        `envconfig:"AGRIGUIDE_REDIS_ADDR"`
	Password     string        `envconfig:"AGRIGUIDE_REDIS_PASSWORD"`
	DB           int           `envconfig:"AGRIGUIDE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"AGRIGUIDE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"AGRIGUIDE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"AGRIGUIDE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"AGRIGUIDE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"AGRIGUIDE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"AGRIGUIDE_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"AGRIGUIDE_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"AGRIGUIDE_JWT_EXPIRATION_MINUTES" default:"10080"`
}

// Expiration returns the access token lifetime configured in minutes.
func (j JWTConfig) Expiration() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return 0
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"AGRIGUIDE_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"AGRIGUIDE_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"AGRIGUIDE_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"AGRIGUIDE_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"AGRIGUIDE_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow          time.Duration `envconfig:"AGRIGUIDE_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentifierLimit int           `envconfig:"AGRIGUIDE_AUTH_RATE_LIMIT_LOGIN_IDENTIFIER_LIMIT" default:"5"`
	LoginIPLimit         int           `envconfig:"AGRIGUIDE_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
	RegisterWindow       time.Duration `envconfig:"AGRIGUIDE_AUTH_RATE_LIMIT_REGISTER_WINDOW" default:"5m"`
	RegisterEmailLimit   int           `envconfig:"AGRIGUIDE_AUTH_RATE_LIMIT_REGISTER_EMAIL_LIMIT" default:"3"`
	RegisterIPLimit      int           `envconfig:"AGRIGUIDE_AUTH_RATE_LIMIT_REGISTER_IP_LIMIT" default:"20"`
}

type FeatureFlagsConfig struct {
	UseSQLite     bool   `envconfig:"AGRIGUIDE_USE_SQLITE" default:"false"`
	AutoMigrate   bool   `envconfig:"AGRIGUIDE_AUTO_MIGRATE" default:"false"`
	GCSAccessMode string `envconfig:"AGRIGUIDE_GCS_ACCESS_MODE" default:"public"`
}

type GeminiConfig struct {
	APIKey  string        `envconfig:"AGRIGUIDE_GEMINI_API_KEY"`
	Model   string        `envconfig:"AGRIGUIDE_GEMINI_MODEL" default:"gemini-2.5-flash"`
	Timeout time.Duration `envconfig:"AGRIGUIDE_GEMINI_TIMEOUT" default:"30s"`
}

type TipsConfig struct {
	CacheTTL time.Duration `envconfig:"AGRIGUIDE_TIPS_CACHE_TTL" default:"48h"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"AGRIGUIDE_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"AGRIGUIDE_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"AGRIGUIDE_GOOGLE_APPLICATION_CREDENTIALS"`
}

type GCSConfig struct {
	BucketName        string        `envconfig:"AGRIGUIDE_GCS_BUCKET_NAME"`
	DownloadURLExpiry time.Duration `envconfig:"AGRIGUIDE_GCS_DOWNLOAD_URL_EXPIRY" default:"1h"`
}

type MediaConfig struct {
	VideoMaxMB     int `envconfig:"AGRIGUIDE_MEDIA_VIDEO_MAX_MB" default:"100"`
	ThumbnailMaxMB int `envconfig:"AGRIGUIDE_MEDIA_THUMBNAIL_MAX_MB" default:"5"`
	ImageMaxMB     int `envconfig:"AGRIGUIDE_MEDIA_IMAGE_MAX_MB" default:"10"`
	DocumentMaxMB  int `envconfig:"AGRIGUIDE_MEDIA_DOCUMENT_MAX_MB" default:"10"`
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
