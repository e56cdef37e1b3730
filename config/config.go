package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvProd  = "prod"

	StoreFirestore = "firestore"
	StorePostgres  = "postgres"
	StoreMemory    = "memory"
)

type Config struct {
	Env              string
	Port             string
	TaskStore        string
	CredentialsPath  string
	DatabaseURL      string
	JWTSecret        string
	AccessTokenTTL   time.Duration
	RequestTimeout   time.Duration
	IdleListTTL      time.Duration
	MaxActiveUsers   int
	FirebaseIDTokens bool
}

// Load reads .env when present and then the process environment.
func Load() Config {
	// .env is a local convenience only
	_ = godotenv.Load()

	return Config{
		Env:              getEnv("APP_ENV", EnvLocal),
		Port:             getEnv("PORT", "8080"),
		TaskStore:        strings.ToLower(getEnv("TASK_STORE", StoreFirestore)),
		CredentialsPath:  os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_1"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		JWTSecret:        os.Getenv("JWT_SECRET_KEY"),
		AccessTokenTTL:   getDuration("ACCESS_TOKEN_TTL", 60*time.Minute),
		RequestTimeout:   getDuration("REQUEST_TIMEOUT", 15*time.Second),
		IdleListTTL:      getDuration("IDLE_LIST_TTL", 30*time.Minute),
		MaxActiveUsers:   getInt("MAX_ACTIVE_USERS", 10000),
		FirebaseIDTokens: getBool("FIREBASE_ID_TOKENS", false),
	}
}

func (c Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is not set"))
	}
	switch c.TaskStore {
	case StoreFirestore:
		if c.CredentialsPath == "" {
			errs = append(errs, errors.New("GOOGLE_APPLICATION_CREDENTIALS_1 is not set"))
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is not set"))
		}
	case StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown TASK_STORE %q", c.TaskStore))
	}
	if c.FirebaseIDTokens && c.CredentialsPath == "" {
		errs = append(errs, errors.New("FIREBASE_ID_TOKENS needs GOOGLE_APPLICATION_CREDENTIALS_1"))
	}
	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getDuration(key string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return def
}

func getInt(key string, def int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil && n >= 0 {
		return n
	}
	return def
}

func getBool(key string, def bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return def
}
