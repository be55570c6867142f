// Command portal runs the decree publication portal and its maintenance tasks.
//
//	@title						Decree Portal API
//	@version					1.0
//	@description				Publication and consultation of civil-service assignment decrees.
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token issued by /api/auth/login
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-envconfig"
	"github.com/spf13/cobra"

	"github.com/ansi-niger/decree-portal/internal/pkg/config"
	"github.com/ansi-niger/decree-portal/pkg/logger"
)

// skipConfig marks commands that run without loading the environment.
const skipConfig = "skip-config"

var (
	verbose bool

	cfg *config.Config
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "portal",
	Short:        "Decree publication portal",
	Long:         `Serves the decree portal API and runs its maintenance tasks.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Annotations[skipConfig] != "" {
			log = logger.Init(logger.ForEnv("development", levelFlag("info")))
			return nil
		}

		c, err := config.LoadFrom(cmd.Context(), envconfig.OsLookuper())
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		log = logger.Init(logger.ForEnv(cfg.Env, levelFlag(cfg.LogLevel)))
		return nil
	},
}

func levelFlag(configured string) string {
	if verbose {
		return "debug"
	}
	return configured
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(cleanupUploadsCmd)
	rootCmd.AddCommand(checkUploadsCmd)
	rootCmd.AddCommand(generateTemplateCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
