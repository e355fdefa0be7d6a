package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers, the vector backend, web search and other options.

Use subcommands to configure specific settings or run the interactive wizard.
Environment variables (OPENAI_API_KEY, TAVILY_API_KEY, YOUTUBE_API_KEY,
SERCHA_RAG_PG_DSN, OLLAMA_HOST) override the saved values.`,
	PersistentPreRunE: settingsPreRun,
	RunE:              runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure all settings step by step.`,
	RunE:  runSettingsWizard,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding",
	Short: "Configure embedding provider",
	Long:  `Configure the embedding provider used for ingestion and retrieval.`,
	RunE:  runSettingsEmbedding,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the chat model used for tool routing, answers and summaries.`,
	RunE:  runSettingsLLM,
}

var settingsVisionCmd = &cobra.Command{
	Use:   "vision",
	Short: "Configure vision provider",
	Long:  `Configure the vision model used to caption images and PDF pages.`,
	RunE:  runSettingsVision,
}

var settingsBackendDSN string

var settingsBackendCmd = &cobra.Command{
	Use:   "backend [memory|sqlite|pgvector]",
	Short: "Select the vector backend",
	Long: `Select where vectors are stored.

Available backends:
  memory    - In process, lost on restart
  sqlite    - Local file under the config directory
  pgvector  - PostgreSQL with the pgvector extension (requires --dsn or SERCHA_RAG_PG_DSN)`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsBackend,
}

var settingsWebSearchCmd = &cobra.Command{
	Use:   "websearch",
	Short: "Set the Tavily API key",
	RunE:  runSettingsWebSearch,
}

func init() {
	settingsBackendCmd.Flags().StringVar(&settingsBackendDSN, "dsn", "", "PostgreSQL connection string")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsVisionCmd)
	settingsCmd.AddCommand(settingsBackendCmd)
	settingsCmd.AddCommand(settingsWebSearchCmd)
	rootCmd.AddCommand(settingsCmd)
}

func settingsPreRun(cmd *cobra.Command, args []string) error {
	if err := persistentPreRun(cmd, args); err != nil {
		return err
	}
	return ensureApp()
}

// providerTarget describes one configurable AI capability.
type providerTarget struct {
	name     string
	defaults map[domain.AIProvider]string
	set      func(provider domain.AIProvider, model, apiKey string) error
	validate func() error
}

func embeddingTarget() providerTarget {
	return providerTarget{
		name:     "embedding",
		defaults: domain.DefaultEmbeddingModels(),
		set:      settingsService.SetEmbeddingProvider,
		validate: settingsService.ValidateEmbeddingConfig,
	}
}

func llmTarget() providerTarget {
	return providerTarget{
		name:     "LLM",
		defaults: domain.DefaultLLMModels(),
		set:      settingsService.SetLLMProvider,
		validate: settingsService.ValidateLLMConfig,
	}
}

func visionTarget() providerTarget {
	return providerTarget{
		name:     "vision",
		defaults: domain.DefaultVisionModels(),
		set:      settingsService.SetVisionProvider,
	}
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	printProvider(cmd, "Embedding", settings.Embedding)
	printProvider(cmd, "LLM", settings.LLM)
	printProvider(cmd, "Vision", settings.Vision)

	cmd.Println("[Vector Store]")
	cmd.Printf("  Backend: %s\n", settings.VectorStore.Backend.Description())
	cmd.Printf("  Dimensions: %d\n", settings.VectorStore.Dimensions)
	if settings.VectorStore.Backend == domain.VectorBackendPgvector {
		if settings.VectorStore.DSN != "" {
			cmd.Printf("  DSN: %s\n", maskAPIKey(settings.VectorStore.DSN))
		} else {
			cmd.Printf("  DSN: (not set)\n")
		}
	}
	cmd.Println()

	cmd.Println("[Web Search]")
	if settings.WebSearch.IsConfigured() {
		cmd.Printf("  Tavily API Key: %s\n", maskAPIKey(settings.WebSearch.APIKey))
	} else {
		cmd.Printf("  Tavily API Key: (not set, web_search disabled)\n")
	}
	cmd.Println()

	cmd.Println("[Ingest]")
	cmd.Printf("  Chunk Size: %d\n", settings.Ingest.ChunkSize)
	cmd.Printf("  Concurrency: %d\n", settings.Ingest.Concurrency)
	cmd.Printf("  Failure Policy: %s\n", settings.Ingest.FailurePolicy)
	cmd.Printf("  Call Timeout: %s\n", settings.Ingest.CallTimeout)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", settings.Server.Addr)
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'sercha-rag settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printProvider(cmd *cobra.Command, title string, p domain.ProviderSettings) {
	cmd.Printf("[%s]\n", title)
	cmd.Printf("  Provider: %s\n", p.Provider.Description())
	cmd.Printf("  Model: %s\n", p.Model)
	if p.BaseURL != "" {
		cmd.Printf("  Base URL: %s\n", p.BaseURL)
	}
	if p.Provider.RequiresAPIKey() {
		if p.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(p.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !p.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Println("Sercha RAG Settings Wizard")
	cmd.Println("==========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Embedding Provider")
	cmd.Println("--------------------------")
	if err := configureProvider(cmd, reader, embeddingTarget()); err != nil {
		return err
	}

	cmd.Println("Step 2: LLM Provider")
	cmd.Println("--------------------")
	if err := configureProvider(cmd, reader, llmTarget()); err != nil {
		return err
	}

	cmd.Println("Step 3: Vision Provider")
	cmd.Println("-----------------------")
	if err := configureProvider(cmd, reader, visionTarget()); err != nil {
		return err
	}

	cmd.Println("Step 4: Vector Backend")
	cmd.Println("----------------------")
	if err := selectBackend(cmd, reader, ""); err != nil {
		return err
	}

	cmd.Println("Step 5: Web Search")
	cmd.Println("------------------")
	cmd.Print("Enter Tavily API key (blank to skip): ")
	key := readPassword(reader)
	cmd.Println()
	if key != "" {
		if err := settingsService.SetWebSearchKey(key); err != nil {
			return fmt.Errorf("failed to set web search key: %w", err)
		}
		cmd.Println("Web search enabled.")
	} else {
		cmd.Println("Skipped. web_search will be unavailable.")
	}
	cmd.Println()

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
	} else {
		cmd.Println("All settings are valid and saved.")
	}

	return nil
}

func runSettingsEmbedding(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureProvider(cmd, bufio.NewReader(cmd.InOrStdin()), embeddingTarget())
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureProvider(cmd, bufio.NewReader(cmd.InOrStdin()), llmTarget())
}

func runSettingsVision(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	return configureProvider(cmd, bufio.NewReader(cmd.InOrStdin()), visionTarget())
}

func runSettingsBackend(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	choice := ""
	if len(args) == 1 {
		choice = args[0]
	}
	return selectBackend(cmd, bufio.NewReader(cmd.InOrStdin()), choice)
}

func runSettingsWebSearch(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	cmd.Print("Enter Tavily API key: ")
	key := readPassword(bufio.NewReader(cmd.InOrStdin()))
	cmd.Println()
	if key == "" {
		return errors.New("API key is required")
	}
	if err := settingsService.SetWebSearchKey(key); err != nil {
		return fmt.Errorf("failed to set web search key: %w", err)
	}
	cmd.Println("Web search key saved.")
	return nil
}

func configureProvider(cmd *cobra.Command, reader *bufio.Reader, target providerTarget) error {
	cmd.Printf("Select %s Provider\n", target.name)
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	defaultModel := target.defaults[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := target.set(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure %s provider: %w", target.name, err)
	}

	if target.validate != nil {
		cmd.Print("Validating configuration... ")
		if err := target.validate(); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("%s configuration validation failed: %w", target.name, err)
		}
		cmd.Println("OK")
	}

	cmd.Printf("%s provider configured: %s (%s)\n\n", target.name, selectedProvider.Description(), model)
	return nil
}

func selectBackend(cmd *cobra.Command, reader *bufio.Reader, choice string) error {
	backends := domain.AllVectorBackends()
	backend := domain.VectorBackend(strings.ToLower(strings.TrimSpace(choice)))

	if choice == "" {
		for i, b := range backends {
			cmd.Printf("  %d. %s\n", i+1, b.Description())
		}
		cmd.Print("\nEnter choice [2]: ")
		idx := parseChoice(readLine(reader), len(backends), 2)
		backend = backends[idx-1]
	}
	if !backend.IsValid() {
		return fmt.Errorf("unknown backend %q", choice)
	}

	dsn := settingsBackendDSN
	if backend == domain.VectorBackendPgvector && dsn == "" && choice == "" {
		cmd.Print("Enter PostgreSQL DSN (blank to use SERCHA_RAG_PG_DSN): ")
		dsn = readPassword(reader)
		cmd.Println()
	}

	if err := settingsService.SetVectorBackend(backend, dsn); err != nil {
		return fmt.Errorf("failed to set vector backend: %w", err)
	}
	cmd.Printf("Vector backend set to: %s\n\n", backend.Description())
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo on a terminal, falling back to reader.
func readPassword(reader *bufio.Reader) string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
