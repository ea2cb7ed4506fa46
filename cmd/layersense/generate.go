package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"layersense/internal/application/animation"
	"layersense/internal/wire"
	"layersense/internal/workflow/agent"
)

const (
	defaultGeneratePrompt = "Transform the rectangle on the left to the rectangle on the right."
	defaultGenerateScene  = "assets/example_json/example_rectangle_other_rectangle.json"
)

type generateOptions struct {
	prompt      string
	scenePath   string
	examplePath string
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the Manim Generator once and print the generated code",
		RunE: func(cmd *cobra.Command, args []string) error {
			sceneJSON, err := os.ReadFile(opts.scenePath)
			if err != nil {
				return fmt.Errorf("read scene: %w", err)
			}

			in := animation.GenerateInput{
				Prompt:    opts.prompt,
				SceneJSON: string(sceneJSON),
			}
			if opts.examplePath != "" {
				example, err := os.ReadFile(opts.examplePath)
				if err != nil {
					return fmt.Errorf("read example: %w", err)
				}
				in.ExampleJSON = string(example)
			}

			svc, cleanup, err := wire.InitializeAnimationService(cmd.Context(), root.cfg)
			if err != nil {
				return fmt.Errorf("initialize service: %w", err)
			}
			defer cleanup()

			out, err := svc.Generate(cmd.Context(), in)
			if err != nil {
				return err
			}
			if strings.TrimSpace(out.Code) == "" {
				return fmt.Errorf("conversation %s: %w", out.ConversationID, agent.ErrEmptyOutput)
			}

			fmt.Fprintln(cmd.OutOrStdout(), out.Code)
			if out.Usage != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "conversation %s model %s tokens %d/%d\n",
					out.ConversationID, out.Model, out.Usage.PromptTokens, out.Usage.CompletionTokens)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.prompt, "prompt", "p", defaultGeneratePrompt, "animation request")
	cmd.Flags().StringVarP(&opts.scenePath, "scene", "s", defaultGenerateScene, "Excalidraw scene JSON file")
	cmd.Flags().StringVar(&opts.examplePath, "example", "", "example scene for the instructions, overrides agent.manim_generator.example_path")
	return cmd
}
