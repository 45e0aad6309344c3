package config

import "os"

// parseEnv overlays environment variables onto the Config. Environment wins
// over every other source so deployments can inject secrets without touching
// files or command lines.
func parseEnv(config *Config) {
	overlayString(&config.EndpointAddrHTTP, os.Getenv("HTTP_ADDR"))
	overlayString(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	overlayString(&config.RedisAddr, os.Getenv("REDIS_ADDR"))
	overlayString(&config.JWTSecret, os.Getenv("JWT_SECRET"))
	overlayString(&config.ResetCodePepper, os.Getenv("RESET_CODE_PEPPER"))
	overlayString(&config.SMTPHost, os.Getenv("SMTP_HOST"))
	overlayString(&config.SMTPPort, os.Getenv("SMTP_PORT"))
	overlayString(&config.SMTPUsername, os.Getenv("SMTP_USER"))
	overlayString(&config.SMTPPassword, os.Getenv("SMTP_PASS"))
	overlayString(&config.SMTPFrom, os.Getenv("SMTP_FROM"))
	overlayString(&config.SMTPFromName, os.Getenv("SMTP_FROM_NAME"))
}
