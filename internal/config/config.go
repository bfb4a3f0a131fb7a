package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Server struct {
	Port            int
	Env             string
	ShutdownTimeout time.Duration
	MaxBodySize     int64
	CORSOrigins     []string
	TrustedProxies  []string
}

type DB struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration
}

type Session struct {
	JWTSecretKey string
	TokenTTL     time.Duration
	CookieName   string
	CookieSecure bool
	BcryptCost   int
}

type MinIO struct {
	Endpoint   string
	AccessKey  string
	SecretKey  string
	BucketName string
	UseSSL     bool
	Region     string
	PublicURL  string
}

// Enabled reports whether profile images are pushed to object storage.
func (m MinIO) Enabled() bool {
	return m.Endpoint != ""
}

type Redis struct {
	Addr     string
	Password string
	DB       int
}

func (r Redis) Enabled() bool {
	return r.Addr != ""
}

type RateLimit struct {
	Requests int
	Window   time.Duration
}

type Config struct {
	Server       Server
	DB           DB
	Session      Session
	MinIO        MinIO
	Redis        Redis
	RateLimit    RateLimit
	MaxImageSize int64
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func LoadServer() Server {
	return Server{
		Port:            getEnvAsInt("SERVER_PORT", 8080),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		MaxBodySize:     getEnvAsInt64("MAX_BODY_SIZE", 8<<20),
		CORSOrigins:     splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		TrustedProxies:  splitList(getEnv("TRUSTED_PROXIES", "")),
	}
}

func LoadDB() DB {
	return DB{
		Host:            getEnv("DB_HOST", "localhost"),
		Port:            getEnv("DB_PORT", "5432"),
		User:            getEnv("DB_USER", "postgres"),
		Password:        getEnv("DB_PASSWORD", "password"),
		Name:            getEnv("DB_NAME", "microblog"),
		SSLMode:         getEnv("DB_SSLMODE", "disable"),
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxIdleTime: getEnvAsDuration("DB_CONN_MAX_IDLE_TIME", 20*time.Second),
		ConnectTimeout:  getEnvAsDuration("DB_CONNECT_TIMEOUT", 10*time.Second),
	}
}

func LoadSession() Session {
	return Session{
		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),
		TokenTTL:     getEnvAsDuration("SESSION_TTL", 24*time.Hour),
		CookieName:   getEnv("SESSION_COOKIE_NAME", "session_token"),
		CookieSecure: getEnvBool("SESSION_COOKIE_SECURE", false),
		BcryptCost:   getEnvAsInt("BCRYPT_COST", 10),
	}
}

func LoadMinIO() MinIO {
	return MinIO{
		Endpoint:   getEnv("MINIO_ENDPOINT", ""),
		AccessKey:  getEnv("MINIO_ACCESS_KEY", "minioadmin"),
		SecretKey:  getEnv("MINIO_SECRET_KEY", "minioadmin"),
		BucketName: getEnv("MINIO_BUCKET_NAME", "profile-images"),
		UseSSL:     getEnvBool("MINIO_USE_SSL", false),
		Region:     getEnv("MINIO_REGION", "us-east-1"),
		PublicURL:  getEnv("MINIO_PUBLIC_URL", "http://localhost:9000"),
	}
}

func LoadRedis() Redis {
	return Redis{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvAsInt("REDIS_DB", 0),
	}
}

func LoadRateLimit() RateLimit {
	return RateLimit{
		Requests: getEnvAsInt("AUTH_RATE_LIMIT", 20),
		Window:   getEnvAsDuration("AUTH_RATE_WINDOW", time.Minute),
	}
}

func LoadConfig() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found, using environment variables")
	}

	return &Config{
		Server:       LoadServer(),
		DB:           LoadDB(),
		Session:      LoadSession(),
		MinIO:        LoadMinIO(),
		Redis:        LoadRedis(),
		RateLimit:    LoadRateLimit(),
		MaxImageSize: getEnvAsInt64("MAX_IMAGE_SIZE", 2<<20),
	}
}
