// Command llmtest pokes the free-text generation client against a running
// Ollama server. The dialogue service does not use this path; it exists so
// the alternate responder can be exercised on its own.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/confidohealth/voice-assistant/internal/config"
	"github.com/confidohealth/voice-assistant/internal/llm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	prompt := strings.Join(os.Args[1:], " ")
	if prompt == "" {
		prompt = "You are a clinic assistant. A caller asks: what are your opening hours?"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client := llm.NewOllamaClient(llm.OllamaConfig{
		BaseURL: cfg.OllamaBaseURL,
		Model:   cfg.OllamaModel,
	})

	fmt.Printf("model:  %s\nprompt: %s\n\n", cfg.OllamaModel, prompt)

	start := time.Now()
	reply, err := client.Generate(ctx, prompt)
	if err != nil {
		log.Fatalf("generate failed: %v", err)
	}

	fmt.Printf("reply (%v):\n%s\n", time.Since(start).Round(time.Millisecond), reply)
}
