package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port                    string
	Env                     string
	LogLevel                string
	LogFormat               string
	FirebaseCredentialsPath string
	PostgresConnStr         string
	MongoURI                string
	MongoDatabase           string
	JWTSecret               string
	SessionTTL              time.Duration
	RedisAddr               string
	RedisPassword           string
	RedisDB                 int
	QueryCacheTTL           time.Duration
	AvatarBaseURL           string
	MaxUploadBytes          int64
	Storage                 StorageConfig
}

// StorageConfig holds the S3-compatible object store settings used for post
// images and avatars.
type StorageConfig struct {
	Bucket        string
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	UseSSL        bool
	UsePathStyle  bool
	PublicBaseURL string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, assuming environment variables are set.")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	return &Config{
		Port:                    v.GetString("port"),
		Env:                     v.GetString("env"),
		LogLevel:                v.GetString("log_level"),
		LogFormat:               v.GetString("log_format"),
		FirebaseCredentialsPath: v.GetString("firebase_credentials_path"),
		PostgresConnStr:         v.GetString("postgres_conn_str"),
		MongoURI:                v.GetString("mongo_uri"),
		MongoDatabase:           v.GetString("mongo_database"),
		JWTSecret:               v.GetString("jwt_secret"),
		SessionTTL:              v.GetDuration("session_ttl"),
		RedisAddr:               v.GetString("redis_addr"),
		RedisPassword:           v.GetString("redis_password"),
		RedisDB:                 v.GetInt("redis_db"),
		QueryCacheTTL:           v.GetDuration("query_cache_ttl"),
		AvatarBaseURL:           v.GetString("avatar_base_url"),
		MaxUploadBytes:          v.GetInt64("max_upload_bytes"),
		Storage: StorageConfig{
			Bucket:        v.GetString("storage_bucket"),
			Endpoint:      v.GetString("storage_endpoint"),
			Region:        v.GetString("storage_region"),
			AccessKey:     v.GetString("storage_access_key"),
			SecretKey:     v.GetString("storage_secret_key"),
			UseSSL:        v.GetBool("storage_use_ssl"),
			UsePathStyle:  v.GetBool("storage_use_path_style"),
			PublicBaseURL: v.GetString("storage_public_base_url"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("firebase_credentials_path", "")
	v.SetDefault("postgres_conn_str", "")
	v.SetDefault("mongo_uri", "")
	v.SetDefault("mongo_database", "socialmedia")
	v.SetDefault("jwt_secret", "supersecretjwtkey")
	v.SetDefault("session_ttl", 72*time.Hour)
	v.SetDefault("redis_addr", "")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)
	v.SetDefault("query_cache_ttl", 30*time.Second)
	v.SetDefault("avatar_base_url", "https://ui-avatars.com/api/")
	v.SetDefault("max_upload_bytes", 10<<20)
	v.SetDefault("storage_bucket", "media")
	v.SetDefault("storage_endpoint", "http://localhost:9000")
	v.SetDefault("storage_region", "us-east-1")
	v.SetDefault("storage_access_key", "")
	v.SetDefault("storage_secret_key", "")
	v.SetDefault("storage_use_ssl", false)
	v.SetDefault("storage_use_path_style", true)
	v.SetDefault("storage_public_base_url", "")
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
