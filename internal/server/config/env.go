package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/flagx"
	"github.com/joho/godotenv"
)

// defaultEnvFile is loaded when present and no -env flag is given.
const defaultEnvFile = ".env"

// parseEnv loads a dotenv file into the process environment (variables that
// are already set win) and then copies recognized variables into config.
//
// Recognized variables:
//
//	HTTP_ADDR, DATABASE_DSN, SECRET_KEY, TOKEN_VALIDITY (Go duration, e.g. "6m"),
//	BACKEND_URL, CORS_ALLOWED_ORIGINS, GIN_MODE, LOG_LEVEL, BCRYPT_COST,
//	SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD, MAIL_FROM
//
// An explicit -env file that cannot be read, or a malformed numeric or
// duration value, panics.
func parseEnv(config *Config, args []string) {
	path := flagx.EnvFilePath(args)
	if path != "" {
		if err := godotenv.Load(path); err != nil {
			panic(err)
		}
	} else if err := godotenv.Load(defaultEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	setString(&config.EndpointAddrHTTP, "HTTP_ADDR")
	setString(&config.DatabaseDSN, "DATABASE_DSN")
	setString(&config.SecretKey, "SECRET_KEY")
	setDuration(&config.TokenValidityDuration, "TOKEN_VALIDITY")
	setString(&config.BaseURL, "BACKEND_URL")
	setString(&config.CORSAllowedOrigins, "CORS_ALLOWED_ORIGINS")
	setString(&config.GinMode, "GIN_MODE")
	setString(&config.LogLevel, "LOG_LEVEL")
	setInt(&config.BcryptCost, "BCRYPT_COST")
	setString(&config.SMTPHost, "SMTP_HOST")
	setInt(&config.SMTPPort, "SMTP_PORT")
	setString(&config.SMTPUser, "SMTP_USER")
	setString(&config.SMTPPassword, "SMTP_PASSWORD")
	setString(&config.MailFrom, "MAIL_FROM")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(err)
	}
	*dst = n
}

func setDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(err)
	}
	*dst = d
}
