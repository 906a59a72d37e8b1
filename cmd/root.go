package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "cv-agent"
)

type Config struct {
	SessionDB     string           `mapstructure:"session-db"`
	SessionTTL    time.Duration    `mapstructure:"session-ttl"`
	HistoryWindow int              `mapstructure:"history-window"`
	Agent         *AgentConfig     `mapstructure:"agent"`
	AI            *AIConfig        `mapstructure:"ai"`
	Search        *SearchConfig    `mapstructure:"search"`
	Interview     *InterviewConfig `mapstructure:"interview"`
}

type AgentConfig struct {
	MaxTurns int `mapstructure:"max-turns"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type SearchConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	MaxResults int    `mapstructure:"max-results"`
}

type InterviewConfig struct {
	Questions int `mapstructure:"questions"`
}

var (
	// Used for flags.
	cfgFile   string
	sessionID string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "cv-agent analyzes CVs against job descriptions, suggests improvements and runs mock interviews",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is cv-agent.yaml in current directory)")
	rootCmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "default", "session id for stored CV/JD state")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	viper.SetDefault("session-db", "cv-agent.db")
	viper.SetDefault("session-ttl", time.Hour)
	viper.SetDefault("history-window", 6)
	viper.SetDefault("agent.max-turns", 16)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.model", "gemini-2.5-flash")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("search.max-results", 5)
	viper.SetDefault("interview.questions", 5)
}

func initConfig() {
	// Keys from a .env file land in the environment before secrets
	// are resolved. Missing file is fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional, defaults cover everything. A file
	// that exists but fails to parse is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
