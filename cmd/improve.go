package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nbnam/cv-agent/internal/logger"
)

var improveCmd = &cobra.Command{
	Use:   "improve",
	Short: "Suggest improvements and a rewrite for the stored CV",
	Run: func(_ *cobra.Command, _ []string) {
		improve()
	},
}

func init() {
	rootCmd.AddCommand(improveCmd)
}

func improve() {
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

	result, err := assistant.SuggestImprovements(ctx, sessionID)
	if err != nil {
		logger.Fatal("improvement suggestion failed", zap.Error(err))
	}

	fmt.Println(result.Output)
	if !result.Success {
		os.Exit(1)
	}
}
