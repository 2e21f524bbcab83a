package config

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Client holds configuration for the taskbuddy CLI and SDK.
type Client struct {
	// APIURL is the REST base, including the /api prefix.
	APIURL string `env:"TASKBUDDY_API_URL, default=http://localhost:8080/api"`
	// WSURL overrides the realtime base. When empty it is derived from
	// APIURL by swapping the scheme to ws/wss.
	WSURL    string `env:"TASKBUDDY_WS_URL"`
	LogLevel string `env:"LOG_LEVEL, default=info"`
	// CredentialsDir overrides where the credential file lives. Empty
	// means ~/.taskbuddy.
	CredentialsDir string `env:"TASKBUDDY_CREDENTIALS_DIR"`
}

// Server holds configuration for the local dev server.
type Server struct {
	Port      string `env:"PORT,       default=8080"`
	Env       string `env:"ENV,        default=development"`
	JWTSecret string `env:"JWT_SECRET, default=taskbuddy-dev-secret"`
	LogLevel  string `env:"LOG_LEVEL,  default=info"`
}

// LoadClient reads CLI configuration from the environment, honouring a
// .env file in the working directory when present.
func LoadClient() (*Client, error) {
	_ = godotenv.Load()
	var cfg Client
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// LoadServer reads dev server configuration from the environment.
func LoadServer() (*Server, error) {
	_ = godotenv.Load()
	var cfg Server
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}
