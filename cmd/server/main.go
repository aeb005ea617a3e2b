package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	app "github.com/rocketscienceinc/tictactoe-tcp/internal"
	"github.com/rocketscienceinc/tictactoe-tcp/internal/config"
)

// main - is the entry point of the server. It initializes the configuration, logger, and runs the application.
// Usage: server [-config config.yml] [port...]
func main() {
	defer func() {
		if err := recover(); err != nil {
			fmt.Fprintf(os.Stderr, "recovered from panic: %v\n", err)
			os.Exit(1)
		}
	}()

	conf := initConfig()
	logger := initLogger(conf)

	if err := app.RunApp(logger, conf); err != nil {
		panic(fmt.Errorf("app run failed: %w", err))
	}
}

// initialize config. Positional arguments replace the configured ports.
func initConfig() *config.Config {
	path := flag.String("config", "config.yml", "path to the config file")
	flag.Parse()

	conf := config.MustLoad(*path)

	if flag.NArg() > 0 {
		ports := make([]int, 0, flag.NArg())
		for _, arg := range flag.Args() {
			port, err := strconv.Atoi(arg)
			if err != nil {
				panic(fmt.Errorf("invalid port %q: %w", arg, err))
			}

			ports = append(ports, port)
		}

		conf.Ports = ports
	}

	return conf
}

// initialize logger.
func initLogger(conf *config.Config) *slog.Logger {
	var level slog.Level

	switch conf.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}
