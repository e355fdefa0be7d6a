// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under ~/.sercha-rag.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt templates
//   - LoadDotEnv: .env loading for API keys
package file
