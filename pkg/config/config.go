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
	FeatureFlags FeatureFlagsConfig
	Warehouse    WarehouseConfig
	GCP          GCPConfig
	PubSub       PubSubConfig
	Outbox       OutboxConfig
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
	Env          string `envconfig:"TRACELINK_APP_ENV" required:"true"`
	Port         string `envconfig:"TRACELINK_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"TRACELINK_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TRACELINK_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TRACELINK_DB_DSN"`
	Driver string `envconfig:"TRACELINK_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"TRACELINK_DB_HOST"`
	LegacyPort     int    `envconfig:"TRACELINK_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"TRACELINK_DB_USER"`
	LegacyPassword string `envconfig:"TRACELINK_DB_PASSWORD"`
	LegacyName     string `envconfig:"TRACELINK_DB_NAME"`
	LegacySSLMode  string `envconfig:"TRACELINK_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"TRACELINK_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TRACELINK_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TRACELINK_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TRACELINK_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TRACELINK_REDIS_URL" required:"true"`
	Address      string        `envconfig:"TRACELINK_REDIS_ADDR"`
	Password     string        `envconfig:"TRACELINK_REDIS_PASSWORD"`
	DB           int           `envconfig:"TRACELINK_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TRACELINK_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TRACELINK_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TRACELINK_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TRACELINK_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TRACELINK_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret                 string `envconfig:"TRACELINK_JWT_SECRET" required:"true"`
	Issuer                 string `envconfig:"TRACELINK_JWT_ISSUER" required:"true"`
	ExpirationMinutes      int    `envconfig:"TRACELINK_JWT_EXPIRATION_MINUTES" required:"true"`
	RefreshTokenTTLMinutes int    `envconfig:"TRACELINK_REFRESH_TOKEN_TTL_MINUTES" default:"43200"`
}

// RefreshTokenTTL returns the refresh token TTL configured in minutes.
func (j JWTConfig) RefreshTokenTTL() time.Duration {
	if j.RefreshTokenTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(j.RefreshTokenTTLMinutes) * time.Minute
}

type PasswordConfig struct {
	ArgonMemoryKB    int `envconfig:"TRACELINK_ARGON_MEMORY_KB" default:"65536"`
	ArgonTime        int `envconfig:"TRACELINK_ARGON_TIME" default:"3"`
	ArgonParallelism int `envconfig:"TRACELINK_ARGON_PARALLELISM" default:"2"`
	ArgonSaltLen     int `envconfig:"TRACELINK_ARGON_SALT_LEN" default:"16"`
	ArgonKeyLen      int `envconfig:"TRACELINK_ARGON_KEY_LEN" default:"32"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"TRACELINK_AUTO_MIGRATE" default:"false"`
}

type WarehouseConfig struct {
	// HeartbeatStaleAfter marks a receiving job as stalled when its worker
	// heartbeat is older than this.
	HeartbeatStaleAfter time.Duration `envconfig:"TRACELINK_RECEIVING_HEARTBEAT_STALE_AFTER" default:"3m"`
	ExportMaxRows       int           `envconfig:"TRACELINK_MOVEMENTS_EXPORT_MAX_ROWS" default:"5000"`
}

type GCPConfig struct {
	ProjectID              string `envconfig:"TRACELINK_GCP_PROJECT_ID"`
	CredentialsJSON        string `envconfig:"TRACELINK_GCP_CREDENTIALS_JSON"`
	ApplicationCredentials string `envconfig:"TRACELINK_GOOGLE_APPLICATION_CREDENTIALS"`
}

type PubSubConfig struct {
	WarehouseTopic        string `envconfig:"TRACELINK_PUBSUB_WAREHOUSE_TOPIC" default:"tl-warehouse-events"`
	WarehouseSubscription string `envconfig:"TRACELINK_PUBSUB_WAREHOUSE_SUBSCRIPTION"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"TRACELINK_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"TRACELINK_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"TRACELINK_OUTBOX_MAX_ATTEMPTS" default:"10"`
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
