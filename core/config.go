package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address            string
		ShutdownTimeout    time.Duration
		JWTExpirationDelta time.Duration
	}

	SessionConfig struct {
		TTL time.Duration
	}

	AuthConfig struct {
		Hash string // md5 | sha3
	}

	RedisConfig struct {
		Addr     string
		Password string
		DB       int
		Prefix   string
	}

	PostgresConfig struct {
		DSN   string
		Table string
	}

	S3Config struct {
		Endpoint  string
		Region    string
		Bucket    string
		AccessKey string
		SecretKey string
		UseSSL    bool
		Prefix    string
	}

	StoreConfig struct {
		Driver     string // file | memory | redis | postgres | s3
		QuotaBytes int64
		Dir        string
		Redis      RedisConfig
		Postgres   PostgresConfig
		S3         S3Config
	}

	LogConfig struct {
		Level  string
		Format string // console | json
	}

	Config struct {
		Env          string
		Debug        bool
		TestMode     bool
		AppName      string
		Build        string
		SecretKey    string
		RollbarToken string
		Server       ServerConfig
		Session      SessionConfig
		Auth         AuthConfig
		Store        StoreConfig
		Log          LogConfig
	}
)

// NewConfig reads the configuration from defaults, the optional `config/.env.<env>` file and the environment.
func NewConfig() *Config {
	v := viper.New()

	// defaults
	v.SetTypeByDefaultValue(true)
	v.SetDefault("debug", true)
	v.SetDefault("testMode", false)
	v.SetDefault("appName", "GCE Registry")
	v.SetDefault("build", "develop")
	v.SetDefault("secretKey", "w3z!9q^n2r@c7k#m_gce_local_secret")
	v.SetDefault("rollbarToken", "")
	v.SetDefault("server.address", ":8000")
	v.SetDefault("server.shutdownTimeout", 10*time.Second)
	v.SetDefault("server.jwtExpirationDelta", 8*time.Hour)
	v.SetDefault("session.ttl", 30*time.Minute)
	v.SetDefault("auth.hash", "md5")
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.quotaBytes", int64(5*1024*1024)) // browser localStorage quota
	v.SetDefault("store.dir", "data")
	v.SetDefault("store.redis.addr", "localhost:6379")
	v.SetDefault("store.redis.password", "")
	v.SetDefault("store.redis.db", 0)
	v.SetDefault("store.redis.prefix", "gce:")
	v.SetDefault("store.postgres.dsn", "postgres://localhost:5432/gce?sslmode=disable")
	v.SetDefault("store.postgres.table", "gce_kv")
	v.SetDefault("store.s3.endpoint", "")
	v.SetDefault("store.s3.region", "us-east-1")
	v.SetDefault("store.s3.bucket", "gce")
	v.SetDefault("store.s3.accessKey", "")
	v.SetDefault("store.s3.secretKey", "")
	v.SetDefault("store.s3.useSSL", true)
	v.SetDefault("store.s3.prefix", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	env := strings.ToUpper(os.Getenv("ENV")) // DEV (local; default), TEST, QA, PROD
	switch env {
	case "":
		env = "DEV"
	case "TEST":
		v.SetDefault("testMode", true)
	}
	v.SetEnvPrefix(env)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// load .env if it exists (ignore if it does not)
	if wd, err := os.Getwd(); err == nil {
		dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
		if _, err := os.Stat(dotEnvPath); err == nil {
			if err := godotenv.Load(dotEnvPath); err != nil {
				log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
			}
		} else if !os.IsNotExist(err) {
			log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
		}
	}
	v.AutomaticEnv()

	return &Config{
		Env:          env,
		Debug:        v.GetBool("debug"),
		TestMode:     v.GetBool("testMode"),
		AppName:      v.GetString("appName"),
		Build:        v.GetString("build"),
		SecretKey:    v.GetString("secretKey"),
		RollbarToken: v.GetString("rollbarToken"),
		Server: ServerConfig{
			Address:            v.GetString("server.address"),
			ShutdownTimeout:    v.GetDuration("server.shutdownTimeout"),
			JWTExpirationDelta: v.GetDuration("server.jwtExpirationDelta"),
		},
		Session: SessionConfig{
			TTL: v.GetDuration("session.ttl"),
		},
		Auth: AuthConfig{
			Hash: CleanString(v.GetString("auth.hash"), true /* lower */),
		},
		Store: StoreConfig{
			Driver:     CleanString(v.GetString("store.driver"), true /* lower */),
			QuotaBytes: v.GetInt64("store.quotaBytes"),
			Dir:        v.GetString("store.dir"),
			Redis: RedisConfig{
				Addr:     v.GetString("store.redis.addr"),
				Password: v.GetString("store.redis.password"),
				DB:       v.GetInt("store.redis.db"),
				Prefix:   v.GetString("store.redis.prefix"),
			},
			Postgres: PostgresConfig{
				DSN:   v.GetString("store.postgres.dsn"),
				Table: v.GetString("store.postgres.table"),
			},
			S3: S3Config{
				Endpoint:  v.GetString("store.s3.endpoint"),
				Region:    v.GetString("store.s3.region"),
				Bucket:    v.GetString("store.s3.bucket"),
				AccessKey: v.GetString("store.s3.accessKey"),
				SecretKey: v.GetString("store.s3.secretKey"),
				UseSSL:    v.GetBool("store.s3.useSSL"),
				Prefix:    v.GetString("store.s3.prefix"),
			},
		},
		Log: LogConfig{
			Level:  CleanString(v.GetString("log.level"), true /* lower */),
			Format: CleanString(v.GetString("log.format"), true /* lower */),
		},
	}
}
