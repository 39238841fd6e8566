package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/modpipe/modpipe/claude"
	"github.com/modpipe/modpipe/config"
	"github.com/modpipe/modpipe/logging"
	"github.com/modpipe/modpipe/pipeline"
)

var generateCmd = &cobra.Command{
	Use:   "generate [transcript]",
	Short: "Run one generation call through the configured pipeline",
	Long:  "Send a transcript through the claude component and print the normalized response text. Reads the transcript from stdin when no argument is given.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringP("model", "m", "", "Model override")
	generateCmd.Flags().Float64("temperature", 0, "Temperature override")
	generateCmd.Flags().Int("max-tokens", 0, "Max tokens override")
	generateCmd.Flags().String("system", "", "System prompt override")

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	verbose := viper.GetBool("verbose")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if viper.GetBool("debug") {
		level = "debug"
	}
	logging.Init(logging.Config{Level: level, Format: cfg.Logging.Format})

	transcript, err := readTranscript(args)
	if err != nil {
		return err
	}

	runtime := pipeline.Options{}
	if model, _ := cmd.Flags().GetString("model"); model != "" {
		runtime["model"] = model
	}
	if cmd.Flags().Changed("temperature") {
		v, _ := cmd.Flags().GetFloat64("temperature")
		runtime["temperature"] = v
	}
	if cmd.Flags().Changed("max-tokens") {
		v, _ := cmd.Flags().GetInt("max-tokens")
		runtime["max_tokens"] = v
	}
	if system, _ := cmd.Flags().GetString("system"); system != "" {
		runtime["system"] = system
	}

	adapter := claude.New("claude", cfg,
		pipeline.Options(cfg.ProviderDefaults("claude")), nil,
		claude.WithLogger(logging.Named("claude")))

	registry := pipeline.NewRegistry(pipeline.WithComponent(adapter))

	emitter := pipeline.NewEventEmitter()
	emitter.On(terminalEventListener(verbose))

	ctx := cmd.Context()
	if err := registry.StartAll(ctx); err != nil {
		return err
	}
	defer func() {
		_ = registry.StopAll(context.Background())
	}()

	runner := pipeline.NewRunner(registry, pipeline.WithEmitter(emitter))
	resp, err := runner.Call(ctx, "claude", transcript, nil, runtime)
	if err != nil {
		return err
	}

	fmt.Println(resp.Text)
	return nil
}

func loadConfig() (*config.AppConfig, error) {
	path := viper.GetString("config")
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func readTranscript(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("reading transcript from stdin: %w", err)
	}
	transcript := strings.TrimSpace(string(data))
	if transcript == "" {
		return "", fmt.Errorf("no transcript given on argv or stdin")
	}
	return transcript, nil
}

// terminalEventListener returns an event listener that prints call progress.
func terminalEventListener(verbose bool) func(pipeline.Event) {
	return func(e pipeline.Event) {
		switch e.Type {
		case pipeline.EventCallOpened:
			if verbose {
				component, _ := e.Data["component"].(string)
				fmt.Fprintf(os.Stderr, "[%s] opened (%s)\n", e.CallID, component)
			}

		case pipeline.EventGenerateCompleted:
			if verbose {
				model, _ := e.Data["model"].(string)
				durationMs, _ := e.Data["duration_ms"].(int64)
				fmt.Fprintf(os.Stderr, "[%s] %s done (%.1fs)\n", e.CallID, model, float64(durationMs)/1000)
			}

		case pipeline.EventGenerateFailed:
			errMsg, _ := e.Data["error"].(string)
			fmt.Fprintf(os.Stderr, "[%s] failed: %s\n", e.CallID, errMsg)

		case pipeline.EventCallClosed:
			if verbose {
				fmt.Fprintf(os.Stderr, "[%s] closed\n", e.CallID)
			}
		}
	}
}
