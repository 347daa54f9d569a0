package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// loadPromptsFromFiles replaces inline prompts with the contents of any
// configured prompt files
func (c *Config) loadPromptsFromFiles() error {
	for _, op := range Operations {
		settings := &c.AI.operation(op).Prompts

		if settings.SystemFile != "" {
			content, err := loadPromptFromFile(settings.SystemFile, "system", op)
			if err != nil {
				return err
			}
			settings.System = content
		}
		if settings.UserFile != "" {
			content, err := loadPromptFromFile(settings.UserFile, "user", op)
			if err != nil {
				return err
			}
			settings.User = content
		}
	}
	return nil
}

// loadPromptFromFile reads a prompt file, rejecting empty content
func loadPromptFromFile(filePath, promptType string, op Operation) (string, error) {
	absPath, err := filepath.Abs(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path for %s %s prompt file '%s': %w", promptType, op, filePath, err)
	}

	content, err := os.ReadFile(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%s %s prompt file not found: %s", promptType, op, absPath)
		}
		return "", fmt.Errorf("failed to read %s %s prompt file '%s': %w", promptType, op, absPath, err)
	}

	trimmedContent := strings.TrimSpace(string(content))
	if trimmedContent == "" {
		return "", fmt.Errorf("%s %s prompt file '%s' is empty", promptType, op, absPath)
	}

	log.Printf("[CONFIG] Loaded %s %s prompt from file: %s (%d characters)",
		promptType, op, absPath, len(trimmedContent))

	return trimmedContent, nil
}

// validatePromptFiles checks that every configured prompt file exists before loading
func (c *Config) validatePromptFiles() error {
	var validationErrors []string

	validateFile := func(filePath, promptType string, op Operation) {
		if filePath == "" {
			return
		}
		absPath, err := filepath.Abs(filePath)
		if err != nil {
			validationErrors = append(validationErrors, fmt.Sprintf("invalid path for %s %s prompt: %s", promptType, op, filePath))
			return
		}
		if _, err := os.Stat(absPath); os.IsNotExist(err) {
			validationErrors = append(validationErrors, fmt.Sprintf("%s %s prompt file not found: %s", promptType, op, absPath))
		}
	}

	for _, op := range Operations {
		settings := c.AI.operation(op).Prompts
		validateFile(settings.SystemFile, "system", op)
		validateFile(settings.UserFile, "user", op)
	}

	if len(validationErrors) > 0 {
		return fmt.Errorf("prompt file validation failed:\n%s", strings.Join(validationErrors, "\n"))
	}
	return nil
}
