package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nbnam/cv-agent/internal/logger"
)

const chatExitWord = "exit"

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the assistant about the stored CV and JD",
	Run: func(_ *cobra.Command, _ []string) {
		chat()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func chat() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	assistant, err := buildAssistant(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the assistant", zap.Error(err))
	}

	fmt.Printf("Chatting in session %q. Type %q to leave.\n", sessionID, chatExitWord)

	input := promptui.Prompt{Label: "You"}
	for {
		message, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				return
			}
			logger.Fatal("reading input", zap.Error(err))
		}
		if strings.EqualFold(strings.TrimSpace(message), chatExitWord) {
			return
		}

		result, err := assistant.Chat(ctx, sessionID, message)
		if err != nil {
			logger.Fatal("chat failed", zap.Error(err))
		}

		fmt.Printf("\nAssistant: %s\n\n", result.Output)
	}
}
