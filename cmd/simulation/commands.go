package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trip-assistant-be/internal/bootstrap"
	"trip-assistant-be/internal/config"
	"trip-assistant-be/internal/constant"
	"trip-assistant-be/internal/dto"
	"trip-assistant-be/internal/pkg/logger"
	"trip-assistant-be/pkg/progress"
	"trip-assistant-be/pkg/travel"
	"trip-assistant-be/pkg/travel/synthetic"
)

var (
	userID  string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "simulation",
	Short: "Talk to the trip assistant from the terminal",
	Long: `Runs the assistant in-process against the configured providers.

Examples:
  simulation chat
  simulation ask "flights from San Francisco to Fresno next week"
  simulation summary --user 42
  simulation chains`,
	SilenceUsage: true,
}

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive conversation (type /quit to leave)",
	RunE:  runChat,
}

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send one message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newContainer()
		if err != nil {
			return err
		}
		defer c.Close()
		reply := c.Assistant.HandleMessage(cmd.Context(), strings.Join(args, " "), user())
		printReply(reply)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print the trip summary of a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		c, err := newContainer()
		if err != nil {
			return err
		}
		defer c.Close()
		printReply(c.Assistant.HandleSummaryRequest(cmd.Context(), userID))
		return nil
	},
}

var chainsCmd = &cobra.Command{
	Use:   "chains",
	Short: "Show the provider order per capability",
	RunE: func(_ *cobra.Command, _ []string) error {
		cfg := config.Load()
		log := logger.NewConsoleLogger(verbose)
		p, err := bootstrap.NewProviders(cfg, synthetic.NewGenerator(nil, log), nil, log)
		if err != nil {
			return err
		}
		chains := p.Runner.Describe()
		names := make([]string, 0, len(chains))
		for c := range chains {
			names = append(names, string(c))
		}
		sort.Strings(names)
		for _, name := range names {
			color.Cyan("%s", name)
			for i, id := range chains[travel.Capability(name)] {
				fmt.Printf("  %d. %s\n", i+1, id)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&userID, "user", "u", "local", "user id the conversation is recorded under")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug logs")
	rootCmd.AddCommand(chatCmd, askCmd, summaryCmd, chainsCmd)
}

func user() dto.UserInfo {
	return dto.UserInfo{ID: userID, FirstName: os.Getenv("USER")}
}

func newContainer() (*bootstrap.Container, error) {
	cfg := config.Load()
	c, err := bootstrap.NewContainer(cfg, bootstrap.Options{
		Logger:       logger.NewConsoleLogger(verbose),
		SkipTelegram: true,
	})
	if err != nil {
		return nil, err
	}
	err = c.Assistant.RegisterProgressCallback(func(_ context.Context, u progress.Update) error {
		if u.Text != "" {
			color.New(color.FgHiBlack).Printf("  %s\n", u.Text)
		}
		return nil
	})
	if err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func runChat(cmd *cobra.Command, _ []string) error {
	c, err := newContainer()
	if err != nil {
		return err
	}
	defer c.Close()

	color.Cyan("%s\n", constant.WelcomeMessage)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		color.New(color.FgGreen, color.Bold).Print("you> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		text := strings.TrimSpace(scanner.Text())
		switch {
		case text == "":
			continue
		case text == "/quit" || text == "/exit":
			return nil
		case text == "/summary":
			printReply(c.Assistant.HandleSummaryRequest(cmd.Context(), userID))
		case strings.HasPrefix(text, "/call"):
			printReply(c.Assistant.HandleCallRequest(cmd.Context(), userID, strings.TrimSpace(strings.TrimPrefix(text, "/call"))))
		default:
			printReply(c.Assistant.HandleMessage(cmd.Context(), text, user()))
		}
	}
}

func printReply(reply string) {
	color.New(color.FgYellow, color.Bold).Print("bot> ")
	fmt.Println(reply)
}
