package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nbnam/cv-agent/internal/interview"
	"github.com/nbnam/cv-agent/internal/logger"
	"github.com/nbnam/cv-agent/internal/session"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a text-based mock interview for the stored CV and JD",
	Run: func(cmd *cobra.Command, _ []string) {
		runInterview(cmd)
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)

	interviewCmd.Flags().IntP("questions", "n", 0, "number of questions (default from config)")
}

func runInterview(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store, err := session.NewSQLite(config.SessionDB, config.SessionTTL, logger)
	if err != nil {
		logger.Fatal("opening session store", zap.Error(err))
	}
	defer store.Close()

	conv, err := store.Load(sessionID)
	if err != nil {
		logger.Fatal("loading session", zap.Error(err))
	}
	if !conv.HasCV() {
		logger.Fatal("no CV stored for this session", zap.String("hint", "run analyze first"))
	}

	manager, err := buildInterviewManager(ctx, config, logger)
	if err != nil {
		logger.Fatal("building the interview manager", zap.Error(err))
	}

	numQuestions := viper.GetInt("interview.questions")
	if n, _ := cmd.Flags().GetInt("questions"); n > 0 {
		numQuestions = n
	}

	mock := manager.NewSession(conv.CVText, conv.JDText)
	defer manager.Remove(mock.ID)

	mock.Start(ctx, numQuestions)
	fmt.Printf("Mock interview started, %d questions. Answer in text, or press Ctrl+C to stop early.\n\n", len(mock.Questions))

	for {
		question, ok := mock.CurrentQuestion()
		if !ok {
			break
		}

		fmt.Printf("Question %d/%d (%s, %s):\n%s\n\n",
			mock.Current+1, len(mock.Questions), question.Category, question.Difficulty, question.Prompt)

		input := promptui.Prompt{Label: "Your answer"}
		text, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
				break
			}
			logger.Fatal("reading answer", zap.Error(err))
		}

		answer, err := mock.SubmitAnswer(ctx, interview.AnswerInput{Text: text})
		if err != nil {
			logger.Fatal("submitting answer", zap.Error(err))
		}

		fmt.Printf("\nScore: %.1f / 10", answer.Evaluation.Score)
		if answer.Evaluation.Note != "" {
			fmt.Printf(" (%s)", answer.Evaluation.Note)
		}
		fmt.Print("\n\n")
	}

	result := mock.Finish(ctx)
	fmt.Println(result.Render())
}
