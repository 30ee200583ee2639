package googletasks

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"todomirror/internal/config"
)

// Scope is the OAuth scope for Google Tasks.
const Scope = "https://www.googleapis.com/auth/tasks"

// LoadOAuthConfig reads oauth_client.json from the config directory.
func LoadOAuthConfig(cfg *config.Config) (*oauth2.Config, error) {
	clientJSON, err := os.ReadFile(cfg.OAuthClientPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read oauth_client.json: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(clientJSON, Scope)
	if err != nil {
		return nil, fmt.Errorf("invalid oauth_client.json: %w", err)
	}
	return oauthConfig, nil
}

// LoadToken reads token.json from the config directory.
func LoadToken(cfg *config.Config) (*oauth2.Token, error) {
	data, err := os.ReadFile(cfg.TokenPath())
	if err != nil {
		return nil, fmt.Errorf("failed to read token.json: %w", err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return nil, fmt.Errorf("invalid token.json: %w", err)
	}
	return &token, nil
}

// SaveToken writes token to token.json with mode 0600, creating the config directory.
func SaveToken(cfg *config.Config, token *oauth2.Token) error {
	if err := cfg.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(cfg.TokenPath(), data, 0600)
}

// TokenUsable reports whether the stored token has a refresh token and can
// produce a valid access token, refreshing it if needed.
func TokenUsable(ctx context.Context, cfg *config.Config) bool {
	token, err := LoadToken(cfg)
	if err != nil || token.RefreshToken == "" {
		return false
	}
	oauthConfig, err := LoadOAuthConfig(cfg)
	if err != nil {
		return false
	}
	_, err = oauthConfig.TokenSource(ctx, token).Token()
	return err == nil
}
