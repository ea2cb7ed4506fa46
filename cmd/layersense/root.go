package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"layersense/internal/config"
	"layersense/pkg/logger"
)

// envFiles 已存在的环境变量不会被覆盖，因此靠前的文件优先
var envFiles = []string{".env.local", ".env"}

type rootOptions struct {
	configDir string
	cfg       *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "layersense",
		Short: "Layersense: an AI-powered manim backend",
		Long: `Layersense turns an Excalidraw scene and a natural-language request into Manim code.

  layersense serve       run the HTTP API
  layersense generate    run the Manim Generator once and print the code
  layersense validate    validate an Excalidraw scene file`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := loadEnvFiles(envFiles...); err != nil {
				return err
			}
			cfg, err := config.LoadFrom(opts.configDir)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			opts.cfg = cfg
			logger.InitWithWriter(cmd.ErrOrStderr(), cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configDir, "config-dir", config.DefaultDir, "directory containing config.yaml")

	cmd.AddCommand(
		newServeCmd(opts),
		newGenerateCmd(opts),
		newValidateCmd(),
		newVersionCmd(),
	)
	return cmd
}

// loadEnvFiles 跳过不存在的文件
func loadEnvFiles(paths ...string) error {
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		// 不加载配置
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "layersense %s (built %s)\n", Version, BuildTime)
		},
	}
}
