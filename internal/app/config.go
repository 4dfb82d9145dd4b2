package app

import (
	"time"

	"github.com/yungbote/lnd-backend/internal/pkg/envutil"
	"github.com/yungbote/lnd-backend/internal/pkg/logger"
)

type Config struct {
	Port           string
	DBDriver       string
	SQLitePath     string
	JWTSecretKey   string
	AccessTokenTTL time.Duration
	CORSOrigins    []string
	ServiceName    string
	// CertificateFont is an optional TTF path; the embedded Go font is used otherwise.
	CertificateFont string
}

func LoadConfig(log *logger.Logger) Config {
	accessTokenTTLSeconds := envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
	return Config{
		Port:            envutil.GetEnv("PORT", "8080", log),
		DBDriver:        envutil.GetEnv("DB_DRIVER", "postgres", log),
		SQLitePath:      envutil.GetEnv("SQLITE_PATH", "lnd.db", log),
		JWTSecretKey:    envutil.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL:  time.Duration(accessTokenTTLSeconds) * time.Second,
		CORSOrigins:     envutil.List("CORS_ORIGINS", nil, log),
		ServiceName:     envutil.GetEnv("OTEL_SERVICE_NAME", "lnd-backend", log),
		CertificateFont: envutil.GetEnv("CERTIFICATE_FONT_PATH", "", log),
	}
}
