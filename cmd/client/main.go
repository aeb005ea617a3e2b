package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/rocketscienceinc/tictactoe-tcp/internal/client"
)

// main - connects to a game server and plays from the keyboard.
// Usage: client <host> <port>
func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "Usage: client <host> <port>")
		os.Exit(1)
	}

	if err := run(net.JoinHostPort(os.Args[1], os.Args[2])); err != nil {
		fmt.Fprintf(os.Stderr, "client: %v\n", err)
		os.Exit(1)
	}
}

func run(addr string) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := client.Dial(ctx, logger, addr)
	if err != nil {
		return err
	}
	defer c.Close()

	fmt.Println("Connected to the server")
	fmt.Println("WAITING FOR THE GAME TO START...")

	go readInput(c)

	errCh := make(chan error, 1)
	go func() { errCh <- c.Run(ctx) }()

	for update := range c.Updates() {
		fmt.Print(client.Render(update))
	}

	fmt.Println("Disconnected from the server")

	return <-errCh
}

// readInput sends a move for every numpad digit typed on stdin.
func readInput(c *client.Client) {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Split(bufio.ScanWords)

	for scanner.Scan() {
		digit, err := strconv.Atoi(scanner.Text())
		if err != nil {
			continue
		}

		x, y, ok := client.NumpadCell(digit)
		if !ok {
			continue
		}

		if err = c.Take(x, y); err != nil {
			return
		}
	}
}
