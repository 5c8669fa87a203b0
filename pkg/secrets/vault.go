// Package secrets copies a HashiCorp Vault KV secret into the process
// environment so credentials such as DB_PASSWORD or OPENAI_API_KEY never
// have to be set in plain text. It runs before configuration is loaded.
package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// VaultConfig describes where the secret lives
type VaultConfig struct {
	Enabled   bool
	Addr      string
	Token     string
	Namespace string
	Mount     string
	Path      string
	KVVersion int
	Timeout   time.Duration
	// Overwrite replaces variables that are already set
	Overwrite bool
}

// Result reports what was copied into the environment
type Result struct {
	Enabled bool
	Path    string
	Loaded  int
	Skipped int
}

// LoadVaultConfigFromEnv reads the VAULT_* variables
func LoadVaultConfigFromEnv() VaultConfig {
	cfg := VaultConfig{
		Enabled:   strings.EqualFold(os.Getenv("VAULT_ENABLED"), "true"),
		Addr:      os.Getenv("VAULT_ADDR"),
		Token:     os.Getenv("VAULT_TOKEN"),
		Namespace: os.Getenv("VAULT_NAMESPACE"),
		Mount:     os.Getenv("VAULT_MOUNT"),
		Path:      os.Getenv("VAULT_PATH"),
		KVVersion: 2,
		Timeout:   5 * time.Second,
		Overwrite: strings.EqualFold(os.Getenv("VAULT_OVERWRITE"), "true"),
	}
	if cfg.Mount == "" {
		cfg.Mount = "secret"
	}
	if v, err := strconv.Atoi(os.Getenv("VAULT_KV_VERSION")); err == nil {
		cfg.KVVersion = v
	}
	if ms, err := strconv.Atoi(os.Getenv("VAULT_TIMEOUT_MS")); err == nil && ms > 0 {
		cfg.Timeout = time.Duration(ms) * time.Millisecond
	}
	return cfg
}

type kvEnvelope struct {
	Data map[string]json.RawMessage `json:"data"`
}

type vaultErrors struct {
	Errors []string `json:"errors"`
}

// Apply fetches the secret and sets one environment variable per key.
// It is a no-op when Vault is disabled.
func Apply(ctx context.Context, cfg VaultConfig) (Result, error) {
	result := Result{Enabled: cfg.Enabled, Path: cfg.Path}
	if !cfg.Enabled {
		return result, nil
	}
	if cfg.Addr == "" || cfg.Token == "" || cfg.Path == "" {
		return result, errors.New("vault configuration incomplete (VAULT_ADDR, VAULT_TOKEN, VAULT_PATH)")
	}

	secretPath, err := kvPath(cfg.Mount, cfg.Path, cfg.KVVersion)
	if err != nil {
		return result, err
	}

	req := resty.New().
		SetBaseURL(strings.TrimRight(cfg.Addr, "/")).
		SetTimeout(cfg.Timeout).
		SetHeader("X-Vault-Token", cfg.Token).
		R().
		SetContext(ctx).
		SetResult(&kvEnvelope{}).
		SetError(&vaultErrors{})
	if cfg.Namespace != "" {
		req.SetHeader("X-Vault-Namespace", cfg.Namespace)
	}

	resp, err := req.Get(secretPath)
	if err != nil {
		return result, fmt.Errorf("vault fetch failed: %w", err)
	}
	if resp.IsError() {
		msg := resp.Status()
		if body, ok := resp.Error().(*vaultErrors); ok && len(body.Errors) > 0 {
			msg = strings.Join(body.Errors, "; ")
		}
		return result, fmt.Errorf("vault fetch failed: %s", msg)
	}

	data, err := secretData(resp.Result().(*kvEnvelope), cfg.KVVersion)
	if err != nil {
		return result, err
	}

	for key, raw := range data {
		if !cfg.Overwrite && os.Getenv(key) != "" {
			result.Skipped++
			continue
		}
		if err := os.Setenv(key, envValue(raw)); err != nil {
			return result, err
		}
		result.Loaded++
	}
	return result, nil
}

func kvPath(mount, path string, kvVersion int) (string, error) {
	mount = strings.Trim(mount, "/")
	path = strings.TrimLeft(path, "/")
	if mount == "" || path == "" {
		return "", errors.New("vault mount and path must be set")
	}
	if kvVersion == 1 {
		return fmt.Sprintf("/v1/%s/%s", mount, path), nil
	}
	return fmt.Sprintf("/v1/%s/data/%s", mount, path), nil
}

// secretData unwraps the KV payload; v2 nests the secret one level deeper.
func secretData(envelope *kvEnvelope, kvVersion int) (map[string]json.RawMessage, error) {
	if envelope == nil || envelope.Data == nil {
		return nil, fmt.Errorf("vault response missing data for KV v%d", kvVersion)
	}
	if kvVersion == 1 {
		return envelope.Data, nil
	}

	var inner map[string]json.RawMessage
	if raw, ok := envelope.Data["data"]; ok {
		if err := json.Unmarshal(raw, &inner); err == nil && inner != nil {
			return inner, nil
		}
	}
	return nil, errors.New("vault response missing data for KV v2")
}

// envValue renders a JSON value as an environment variable: strings
// unquoted, null empty, everything else as its JSON text.
func envValue(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	if string(raw) == "null" {
		return ""
	}
	return string(raw)
}
