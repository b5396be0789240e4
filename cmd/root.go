// Package cmd holds the knowledge-assistant command line.
package cmd

import (
	"fmt"
	"log"
	"os"

	"knowledge-assistant/internal/data/repository"
	"knowledge-assistant/pkg/database"
	"knowledge-assistant/pkg/utils"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var envFile string

var rootCmd = &cobra.Command{
	Use:   "knowledge-assistant",
	Short: "AI knowledge assistant API server",
	Long: `knowledge-assistant serves the JSON API for the AI knowledge assistant:
OTP verified signup, a searchable article knowledge base and chat with an
AI model that is grounded on those articles.

Running without a subcommand starts the HTTP server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env", ".env", "path to the .env file")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(createAdminCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runtime is the shared setup every subcommand starts from.
type runtime struct {
	config *utils.Config
	logger *zap.Logger
	db     *database.DB
	repo   *repository.Repository
}

func bootstrap() (*runtime, error) {
	// Load config
	config, err := utils.LoadConfigFrom(envFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Error("Failed to connect to database", zap.Error(err))
		_ = logger.Sync()
		return nil, err
	}
	logger.Info("Database connected successfully")

	return &runtime{
		config: config,
		logger: logger,
		db:     db,
		repo:   repository.NewRepository(db, logger),
	}, nil
}

func (rt *runtime) close() {
	rt.db.Close()
	_ = rt.logger.Sync()
}
