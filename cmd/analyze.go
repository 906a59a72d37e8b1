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

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a CV against a job description",
	Run: func(cmd *cobra.Command, _ []string) {
		analyze(cmd)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("cv-file", "", "path to the CV file (PDF, DOCX, TXT, or image)")
	analyzeCmd.Flags().String("cv-text", "", "CV as raw text")
	analyzeCmd.Flags().String("jd-file", "", "path to the job description file")
	analyzeCmd.Flags().String("jd-text", "", "job description as raw text")
}

func analyze(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	cvInput, cvIsFile := pickInput(cmd, "cv-file", "cv-text")
	jdInput, jdIsFile := pickInput(cmd, "jd-file", "jd-text")
	if cvInput == "" {
		logger.Fatal("a CV is required", zap.String("hint", "pass --cv-file or --cv-text"))
	}
	if jdInput == "" {
		logger.Fatal("a job description is required", zap.String("hint", "pass --jd-file or --jd-text"))
	}

	assistant, err := buildAssistant(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the assistant", zap.Error(err))
	}

	result, err := assistant.Analyze(ctx, sessionID, cvInput, jdInput, cvIsFile, jdIsFile)
	if err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	fmt.Println(result.Output)
	if !result.Success {
		os.Exit(1)
	}
}

// pickInput returns the file flag if set, otherwise the text flag.
func pickInput(cmd *cobra.Command, fileFlag, textFlag string) (string, bool) {
	if file, _ := cmd.Flags().GetString(fileFlag); file != "" {
		return file, true
	}
	text, _ := cmd.Flags().GetString(textFlag)
	return text, false
}
