package config

import "time"

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

type Config struct {
	Env     string `env:"TODO_ENV" env-default:"prod"`
	LogFile string `env:"TODO_LOG_FILE"`
	API     APIConfig
	UI      UIConfig
	Login   LoginConfig
	Dev     DevServerConfig
}

type APIConfig struct {
	BaseURL string        `env:"TODO_API_BASE" env-default:"http://localhost:8080"`
	Timeout time.Duration `env:"TODO_API_TIMEOUT" env-default:"30s"`
}

type UIConfig struct {
	Theme string `env:"TODO_THEME" env-default:"dark"`
}

// LoginConfig holds the mock credentials checked by the login screen.
type LoginConfig struct {
	Required bool   `env:"TODO_LOGIN_REQUIRED" env-default:"true"`
	Username string `env:"TODO_LOGIN_USERNAME" env-default:"test"`
	Password string `env:"TODO_LOGIN_PASSWORD" env-default:"1234"`
}

type DevServerConfig struct {
	Addr            string        `env:"TODO_DEVSERVER_ADDR" env-default:":8080"`
	ShutdownTimeout time.Duration `env:"TODO_DEVSERVER_SHUTDOWN_TIMEOUT" env-default:"5s"`
	// DataFile, when set, keeps a JSON snapshot of the todos across restarts.
	DataFile string `env:"TODO_DEVSERVER_DATA"`
}
