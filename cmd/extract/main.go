package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/gravamen/contractgraph-backend/internal/platform/envutil"
	"github.com/gravamen/contractgraph-backend/internal/platform/logger"
	"github.com/gravamen/contractgraph-backend/internal/platform/openai"
	"github.com/gravamen/contractgraph-backend/internal/platform/shutdown"
	"github.com/gravamen/contractgraph-backend/internal/services/extraction"
)

func main() {
	opts := extraction.OptionsFromEnv()
	flag.StringVar(&opts.InputDir, "input", opts.InputDir, "directory of contract documents")
	flag.StringVar(&opts.OutputDir, "output", opts.OutputDir, "directory for extraction JSON")
	flag.StringVar(&opts.DebugDir, "debug", opts.DebugDir, "directory for raw API response dumps")
	flag.StringVar(&opts.PromptPath, "prompt", envutil.Str("EXTRACT_USER_PROMPT_PATH", ""), "extraction prompt override file")
	flag.Parse()

	log, err := logger.New(envutil.Str("APP_MODE", "dev"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	llm, err := openai.NewClientWithModel(log, envutil.Str("EXTRACT_MODEL", ""))
	if err != nil {
		log.Error("OpenAI init failed", "error", err)
		os.Exit(1)
	}

	ctx, stop := shutdown.NotifyContext(context.Background())
	defer stop()

	svc := extraction.NewService(llm, log)
	summary, err := svc.Run(ctx, opts)
	if err != nil {
		log.Error("Extraction run failed", "error", err)
		os.Exit(1)
	}
	if summary.Total > 0 && summary.Successful == 0 {
		os.Exit(1)
	}
}
