package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port                    string
	Env                     string
	JWTSecret               string
	FirebaseCredentialsPath string
	StorageBucket           string
	PublicBaseURL           string
	GeocoderBaseURL         string
	AMQPUrl                 string
	AMQPExchange            string
	SendgridAPIKey          string
	MailFrom                string
	ReportCooldown          time.Duration
}

func Load() *Config {
	return &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		JWTSecret:               getEnv("JWT_SECRET", "supersecretjwtkey"),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", "./firebase_credentials.json"),
		StorageBucket:           getEnv("STORAGE_BUCKET", ""),
		PublicBaseURL:           getEnv("PUBLIC_BASE_URL", "https://storage.googleapis.com"),
		GeocoderBaseURL:         getEnv("GEOCODER_BASE_URL", "https://nominatim.openstreetmap.org"),
		AMQPUrl:                 getEnv("AMQP_URL", ""),
		AMQPExchange:            getEnv("AMQP_EXCHANGE", "outage_reports"),
		SendgridAPIKey:          getEnv("SENDGRID_API_KEY", ""),
		MailFrom:                getEnv("MAIL_FROM", "no-reply@outagewatch.ph"),
		ReportCooldown:          time.Duration(getEnvInt("REPORT_COOLDOWN_SECONDS", 60)) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
