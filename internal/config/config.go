package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable via STORE_BACKEND.
const (
	BackendMemory = "memory"
	BackendDynamo = "dynamo"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort string
	AppEnv  string

	AllowedOrigins []string // CORS allow-list, comma-separated in env

	SMTPHost   string
	SMTPPort   int
	SMTPSecure bool // implicit TLS instead of STARTTLS
	SMTPUser   string
	SMTPPass   string
	SMTPFrom   string

	StoreBackend string // "memory" | "dynamo"

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables
	S3BucketName   string // empty disables raw-upload archiving
	SNSRegion      string

	ForecastAPIURL string // empty means the local fallback is always used

	GoogleClientID string // empty disables social login

	JWTPrivateKeyPath string
	JWTPublicKeyPath  string
	JWTExpiry         time.Duration
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	Users         string
	Sessions      string
	OtpSessions   string
	Verifications string
	Datasets      string
	Uploads       string
}

// Load reads all configuration from environment variables. It returns an
// error when a required SMTP variable is absent so the server fails fast at
// startup instead of at first send.
func Load() (*Config, error) {
	cfg := &Config{
		AppPort:        getEnv("OTP_SERVER_PORT", "8787"),
		AppEnv:         getEnv("APP_ENV", "development"),
		AllowedOrigins: splitOrigins(getEnv("OTP_ALLOWED_ORIGIN", "http://localhost:5173")),
		SMTPPort:       getEnvInt("SMTP_PORT", 587),
		SMTPSecure:     getEnv("SMTP_SECURE", "false") == "true",
		StoreBackend:   getEnv("STORE_BACKEND", BackendMemory),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			Users:         getEnv("DYNAMO_TABLE_USERS", "users"),
			Sessions:      getEnv("DYNAMO_TABLE_SESSIONS", "sessions"),
			OtpSessions:   getEnv("DYNAMO_TABLE_OTP_SESSIONS", "otp_sessions"),
			Verifications: getEnv("DYNAMO_TABLE_VERIFICATIONS", "verified_identities"),
			Datasets:      getEnv("DYNAMO_TABLE_DATASETS", "datasets"),
			Uploads:       getEnv("DYNAMO_TABLE_UPLOADS", "upload_history"),
		},
		S3BucketName:      getEnv("S3_BUCKET_NAME", ""),
		SNSRegion:         getEnv("SNS_REGION", "us-east-1"),
		ForecastAPIURL:    getEnv("FORECAST_API_URL", ""),
		GoogleClientID:    getEnv("GOOGLE_CLIENT_ID", ""),
		JWTPrivateKeyPath: getEnv("JWT_PRIVATE_KEY_PATH", "./private_key.pem"),
		JWTPublicKeyPath:  getEnv("JWT_PUBLIC_KEY_PATH", "./public_key.pem"),
		JWTExpiry:         time.Duration(getEnvInt("JWT_EXPIRY_DAYS", 7)) * 24 * time.Hour,
	}

	for _, name := range []string{"SMTP_HOST", "SMTP_USER", "SMTP_PASS", "SMTP_FROM"} {
		if os.Getenv(name) == "" {
			return nil, fmt.Errorf("missing server env: %s", name)
		}
	}
	cfg.SMTPHost = os.Getenv("SMTP_HOST")
	cfg.SMTPUser = os.Getenv("SMTP_USER")
	cfg.SMTPPass = os.Getenv("SMTP_PASS")
	cfg.SMTPFrom = os.Getenv("SMTP_FROM")

	if cfg.StoreBackend != BackendMemory && cfg.StoreBackend != BackendDynamo {
		return nil, fmt.Errorf("unknown STORE_BACKEND: %q", cfg.StoreBackend)
	}

	return cfg, nil
}

func splitOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
