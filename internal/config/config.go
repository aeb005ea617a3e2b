package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrNoPorts       = errors.New("no ports configured")
	ErrInvalidPort   = errors.New("invalid port")
	ErrDuplicatePort = errors.New("port configured more than once")
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	Host     string `yaml:"host" env:"LISTEN_HOST" env-default:"0.0.0.0"`
	// Ports get one session each.
	Ports []int `yaml:"ports" env:"PORTS" env-default:"9000"`
	// BotPorts get one session each, with a bot seated against the first player.
	BotPorts []int `yaml:"bot-ports" env:"BOT_PORTS"`
	// HTTPPort serves /ping and /sessions. Empty disables the status server.
	HTTPPort     string        `yaml:"http-port" env:"HTTP_PORT"`
	WriteTimeout time.Duration `yaml:"write-timeout" env:"WRITE_TIMEOUT" env-default:"0s"`
	Redis        Redis         `yaml:"redis"`
	Telemetry    Telemetry     `yaml:"telemetry"`
}

type Redis struct {
	Enabled bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	TTL     time.Duration `yaml:"ttl" env:"REDIS_TTL" env-default:"10m"`
}

type Telemetry struct {
	// Endpoint is an OTLP/HTTP collector URL. Empty disables tracing.
	Endpoint    string `yaml:"endpoint" env:"OTEL_ENDPOINT"`
	ServiceName string `yaml:"service-name" env:"OTEL_SERVICE_NAME" env-default:"tictactoe-tcp"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load - reads path, falling back to the environment alone when the file does not exist.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); path == "" || errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return config, nil
}

// Validate - checks that there is at least one port and that no port is used twice.
func (that *Config) Validate() error {
	if len(that.Ports)+len(that.BotPorts) == 0 {
		return ErrNoPorts
	}

	seen := make(map[int]struct{}, len(that.Ports)+len(that.BotPorts))
	for _, port := range append(append([]int{}, that.Ports...), that.BotPorts...) {
		if port <= 0 || port > 65535 {
			return fmt.Errorf("%w: %d", ErrInvalidPort, port)
		}

		if _, ok := seen[port]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicatePort, port)
		}

		seen[port] = struct{}{}
	}

	return nil
}

// ListenAddr - returns the address a session on port listens on.
func (that *Config) ListenAddr(port int) string {
	return net.JoinHostPort(that.Host, strconv.Itoa(port))
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
