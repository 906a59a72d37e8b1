package cmd

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nbnam/cv-agent/internal/assistant"
	"github.com/nbnam/cv-agent/internal/logger"
)

var layoutCmd = &cobra.Command{
	Use:   "layout",
	Short: "Assess the visual layout of a CV image, or describe an improved one",
	Run: func(cmd *cobra.Command, _ []string) {
		layout(cmd)
	},
}

func init() {
	rootCmd.AddCommand(layoutCmd)

	layoutCmd.Flags().String("file", "", "path to a CV image (PNG or JPEG) to assess")
	layoutCmd.Flags().Bool("describe-improved", false, "describe an improved layout for the stored CV instead")
}

func layout(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	describeImproved, _ := cmd.Flags().GetBool("describe-improved")
	filePath, _ := cmd.Flags().GetString("file")
	if !describeImproved && filePath == "" {
		logger.Fatal("a CV image is required", zap.String("hint", "pass --file, or --describe-improved for a text-based description"))
	}

	asst, err := buildAssistant(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the assistant", zap.Error(err))
	}

	var result assistant.Result
	if describeImproved {
		result, err = asst.DescribeImprovedLayout(ctx, sessionID)
	} else {
		result, err = asst.AnalyzeLayout(ctx, sessionID, filePath)
	}
	if err != nil {
		logger.Fatal("layout assessment failed", zap.Error(err))
	}

	fmt.Println(result.Output)
	if !result.Success {
		os.Exit(1)
	}
}
