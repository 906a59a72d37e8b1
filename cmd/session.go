package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/nbnam/cv-agent/internal/logger"
	"github.com/nbnam/cv-agent/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect or clear the stored session state",
}

var sessionStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show what the session currently holds",
	Run: func(_ *cobra.Command, _ []string) {
		sessionStatus()
	},
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Drop the stored CV, JD and chat history for the session",
	Run: func(_ *cobra.Command, _ []string) {
		sessionClear()
	},
}

func init() {
	sessionCmd.AddCommand(sessionStatusCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}

func openStore(logger *zap.Logger) *session.SQLiteStore {
	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	store, err := session.NewSQLite(config.SessionDB, config.SessionTTL, logger)
	if err != nil {
		logger.Fatal("opening session store", zap.Error(err))
	}
	return store
}

func sessionStatus() {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	store := openStore(logger)
	defer store.Close()

	conv, err := store.Load(sessionID)
	if err != nil {
		logger.Fatal("loading session", zap.Error(err))
	}

	fmt.Printf("Session %s\n", sessionID)
	fmt.Printf("CV stored: %v\n", conv.HasCV())
	fmt.Printf("JD stored: %v\n", conv.HasJD())
	fmt.Printf("History entries: %d\n", len(conv.ChatHistory))
}

func sessionClear() {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	store := openStore(logger)
	defer store.Close()

	if err := store.Delete(sessionID); err != nil {
		logger.Fatal("clearing session", zap.Error(err))
	}
	fmt.Printf("Session %s cleared.\n", sessionID)
}
