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
	R2            R2Config
	Photos        PhotosConfig
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
	Env           string `envconfig:"BREMRAY_APP_ENV" required:"true"`
	Port          string `envconfig:"BREMRAY_APP_PORT" default:"3000"`
	LogLevel      string `envconfig:"BREMRAY_LOG_LEVEL" default:"info"`
	LogWarnStack  bool   `envconfig:"BREMRAY_LOG_WARN_STACK" default:"false"`
	SecretKeyBase string `envconfig:"BREMRAY_SECRET_KEY_BASE"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"BREMRAY_DB_DSN"`
	Driver string `envconfig:"BREMRAY_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"BREMRAY_DB_HOST"`
	LegacyPort     int    `envconfig:"BREMRAY_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"BREMRAY_DB_USER"`
	LegacyPassword string `envconfig:"BREMRAY_DB_PASSWORD"`
	LegacyName     string `envconfig:"BREMRAY_DB_NAME"`
	LegacySSLMode  string `envconfig:"BREMRAY_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"BREMRAY_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"BREMRAY_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"BREMRAY_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"BREMRAY_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"BREMRAY_REDIS_URL"`
	Address      string        `envconfig:"BREMRAY_REDIS_ADDR"`
	Password     string        `envconfig:"BREMRAY_REDIS_PASSWORD"`
	DB           int           `envconfig:"BREMRAY_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"BREMRAY_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"BREMRAY_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"BREMRAY_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"BREMRAY_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"BREMRAY_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret          string `envconfig:"BREMRAY_JWT_SECRET"`
	Issuer          string `envconfig:"BREMRAY_JWT_ISSUER" default:"bremray"`
	ExpirationHours int    `envconfig:"BREMRAY_JWT_EXPIRATION_HOURS" default:"24"`
}

// TokenTTL returns the configured access token lifetime.
func (j JWTConfig) TokenTTL() time.Duration {
	if j.ExpirationHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(j.ExpirationHours) * time.Hour
}

// SigningSecret resolves the token signing secret, falling back to the
// application secret key base when no dedicated secret is configured.
func (j JWTConfig) SigningSecret(app AppConfig) string {
	if j.Secret != "" {
		return j.Secret
	}
	return app.SecretKeyBase
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"BREMRAY_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"BREMRAY_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"BREMRAY_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"BREMRAY_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"BREMRAY_ARGON_KEY_LEN" default:"32"`
}

type AuthRateLimitConfig struct {
	LoginWindow          time.Duration `envconfig:"BREMRAY_AUTH_RATE_LIMIT_LOGIN_WINDOW" default:"1m"`
	LoginIdentifierLimit int           `envconfig:"BREMRAY_AUTH_RATE_LIMIT_LOGIN_IDENTIFIER_LIMIT" default:"5"`
	LoginIPLimit         int           `envconfig:"BREMRAY_AUTH_RATE_LIMIT_LOGIN_IP_LIMIT" default:"20"`
}

type R2Config struct {
	AccessKeyID     string `envconfig:"BREMRAY_R2_ACCESS_KEY_ID"`
	SecretAccessKey string `envconfig:"BREMRAY_R2_SECRET_ACCESS_KEY"`
	Endpoint        string `envconfig:"BREMRAY_R2_ENDPOINT"`
	BucketName      string `envconfig:"BREMRAY_R2_BUCKET_NAME"`
	PublicURL       string `envconfig:"BREMRAY_R2_PUBLIC_URL"`
	Region          string `envconfig:"BREMRAY_R2_REGION" default:"auto"`
}

type PhotosConfig struct {
	MaxUploadMB int `envconfig:"BREMRAY_PHOTOS_MAX_UPLOAD_MB" default:"25"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"BREMRAY_AUTO_MIGRATE" default:"false"`
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
