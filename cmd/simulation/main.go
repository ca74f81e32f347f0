// Command simulation chats with the assistant from a terminal, without
// Telegram. It uses the same configuration and providers as the server.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fatih/color"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}
}
