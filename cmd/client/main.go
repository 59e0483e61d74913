package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/gookit/color"
	"github.com/gorilla/websocket"

	"chimchat/domain"
	"chimchat/internal"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

// Config defines the client-side environment variables.
type Config struct {
	ServerURL string `env:"CHAT_SERVER_URL,default=ws://localhost:3000/ws"`
	Name      string `env:"CHAT_NAME"`
	LogLevel  string `env:"LOG_LEVEL,default=INFO"`
}

type envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

type chatMessage struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

type typing struct {
	Name   string `json:"name"`
	Typing bool   `json:"typing"`
}

func main() {
	// The main function manages the OS exit code based on run()'s return.
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

// run handles the websocket client lifecycle: connect, pump stdin lines
// out as chat messages, and render everything the relay broadcasts.
func run() (int, error) {
	// 1. Load configuration from environment variables.
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := internal.LoggerFromString(config.LogLevel)

	// 2. Setup context to handle termination signals (Ctrl+C).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Connect to the relay.
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, config.ServerURL, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", config.ServerURL, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close()
	}()

	color.Green.Printf(">>> Connected to %s! Type a message and press Enter (Ctrl+C to quit).\n",
		config.ServerURL)

	// Unblock the read loop below when a termination signal arrives.
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	// 4. Outbound pump: stdin lines become chatMessage frames.
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			text := strings.TrimSpace(scanner.Text())
			if text == "" {
				continue
			}
			frame := envelope{Event: "chatMessage"}
			data, _ := json.Marshal(chatMessage{Name: config.Name, Message: text})
			frame.Data = data
			if err := conn.WriteJSON(frame); err != nil {
				log.Error("send failed", "error", err)
				return
			}
		}
	}()

	// 5. Inbound loop until the context is canceled or the server
	// closes the connection.
	for {
		var frame envelope
		if err := conn.ReadJSON(&frame); err != nil {
			// Normal exit if the user triggered a shutdown.
			if ctx.Err() != nil {
				log.Info("Stopping client...")
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("stream error: %w", err)
		}

		switch frame.Event {
		case "chatMessage":
			var msg chatMessage
			if err := json.Unmarshal(frame.Data, &msg); err != nil {
				continue
			}
			if msg.Name == domain.AIAuthor {
				color.Cyan.Printf("%s: %s\n", msg.Name, msg.Message)
			} else {
				fmt.Printf("%s: %s\n", color.Bold.Render(msg.Name), msg.Message)
			}
		case "typing":
			var t typing
			if err := json.Unmarshal(frame.Data, &t); err != nil {
				continue
			}
			if t.Typing {
				color.Gray.Printf("%s is typing...\n", t.Name)
			}
		}
	}
}
