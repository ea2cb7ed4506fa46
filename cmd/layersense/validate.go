package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"layersense/internal/domain/scene"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scene.json>",
		Short: "Validate an Excalidraw scene file and print the normalized scene",
		Args:  cobra.ExactArgs(1),
		// 校验不依赖配置
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read scene: %w", err)
			}

			s, err := scene.Parse(data)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(s)
		},
	}
}
