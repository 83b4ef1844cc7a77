package secrets

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// ErrSecretNotFound is returned when a secret has no value in the configured source
var ErrSecretNotFound = errors.New("secret not found")

// SecretSource defines where secrets are loaded from
type SecretSource string

const (
	// SourceEnvironment loads secrets from environment variables
	SourceEnvironment SecretSource = "environment"
	// SourceVault loads secrets from Azure Key Vault
	SourceVault SecretSource = "vault"
	// SourceAuto uses vault in staging/production, environment in development
	SourceAuto SecretSource = "auto"
)

// ResolveSource turns SourceAuto into a concrete source for environment
func ResolveSource(source SecretSource, environment string) SecretSource {
	if source != SourceAuto {
		return source
	}
	switch environment {
	case "development", "local", "":
		return SourceEnvironment
	default:
		return SourceVault
	}
}

// vaultGetter is the part of VaultClient the provider depends on
type vaultGetter interface {
	GetSecret(ctx context.Context, secretName string) (string, error)
}

// Provider abstracts secret retrieval from different sources
type Provider struct {
	source SecretSource
	vault  vaultGetter
	logger *zap.Logger
	getenv func(string) string
}

// ProviderConfig holds configuration for the secrets provider
type ProviderConfig struct {
	Source       SecretSource
	VaultName    string
	Environment  string // "development", "staging", "production"
	CacheEnabled bool
	CacheTTL     time.Duration
}

// Binding maps a vault secret and its environment override onto a config field
type Binding struct {
	Secret string
	Env    string
	Target *string
}

// NewProvider creates a new secrets provider
func NewProvider(cfg *ProviderConfig, logger *zap.Logger) (*Provider, error) {
	source := ResolveSource(cfg.Source, cfg.Environment)

	var vault vaultGetter
	if source == SourceVault {
		if cfg.VaultName == "" {
			return nil, fmt.Errorf("vault name required when using vault secret source")
		}

		vaultClient, err := NewVaultClient(&VaultConfig{
			VaultName:    cfg.VaultName,
			CacheEnabled: cfg.CacheEnabled,
			CacheTTL:     cfg.CacheTTL,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize vault client: %w", err)
		}
		vault = vaultClient
	}

	logger.Info("Secrets provider initialized",
		zap.String("source", string(source)),
		zap.String("environment", cfg.Environment),
	)

	return newProvider(source, vault, logger), nil
}

func newProvider(source SecretSource, vault vaultGetter, logger *zap.Logger) *Provider {
	return &Provider{
		source: source,
		vault:  vault,
		logger: logger,
		getenv: os.Getenv,
	}
}

// GetSecret retrieves a secret by name.
// For vault source, secretName is the Key Vault secret name.
// For environment source, secretName is the environment variable name.
func (p *Provider) GetSecret(ctx context.Context, secretName string) (string, error) {
	switch p.source {
	case SourceEnvironment:
		value := p.getenv(secretName)
		if value == "" {
			return "", fmt.Errorf("%w: environment variable %s", ErrSecretNotFound, secretName)
		}
		return value, nil

	case SourceVault:
		if p.vault == nil {
			return "", fmt.Errorf("vault client not initialized")
		}
		return p.vault.GetSecret(ctx, secretName)

	default:
		return "", fmt.Errorf("unknown secret source: %s", p.source)
	}
}

// GetSecretOrEnv prefers an explicitly set environment variable over the configured source
func (p *Provider) GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error) {
	if envValue := p.getenv(envName); envValue != "" {
		p.logger.Debug("Using environment variable override",
			zap.String("env_name", envName),
		)
		return envValue, nil
	}

	return p.GetSecret(ctx, secretName)
}

// Apply resolves every binding and writes found values into their targets.
// Missing secrets leave the target untouched. It returns how many targets were set.
func (p *Provider) Apply(ctx context.Context, bindings []Binding) int {
	applied := 0
	for _, b := range bindings {
		value, err := p.GetSecretOrEnv(ctx, b.Secret, b.Env)
		if err != nil || value == "" {
			p.logger.Debug("Secret not resolved, keeping configured value",
				zap.String("secret_name", b.Secret),
				zap.Error(err),
			)
			continue
		}
		*b.Target = value
		applied++
	}
	return applied
}

// Source returns the current secret source
func (p *Provider) Source() SecretSource {
	return p.source
}

// IsVaultEnabled returns true if secrets are loaded from vault
func (p *Provider) IsVaultEnabled() bool {
	return p.source == SourceVault
}
