package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

// secretGetter is the subset of azsecrets.Client used here
type secretGetter interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// VaultClient wraps Azure Key Vault client for secret retrieval
type VaultClient struct {
	client       secretGetter
	vaultName    string
	logger       *zap.Logger
	mu           sync.Mutex
	cache        map[string]cachedSecret
	cacheTTL     time.Duration
	cacheEnabled bool
	now          func() time.Time
}

type cachedSecret struct {
	value     string
	expiresAt time.Time
}

// VaultConfig holds configuration for the vault client
type VaultConfig struct {
	VaultName    string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NewVaultClient creates a new Azure Key Vault client.
// Credentials come from DefaultAzureCredential (environment, managed identity, Azure CLI).
func NewVaultClient(cfg *VaultConfig, logger *zap.Logger) (*VaultClient, error) {
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}

	logger.Info("Initializing Azure Key Vault client",
		zap.String("vault_name", cfg.VaultName),
		zap.Bool("cache_enabled", cfg.CacheEnabled),
	)

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		logger.Error("Failed to create Azure credential", zap.Error(err))
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", cfg.VaultName)

	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		logger.Error("Failed to create Key Vault client", zap.Error(err))
		return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
	}

	logger.Info("Azure Key Vault client initialized successfully",
		zap.String("vault_url", vaultURL),
	)

	return newVaultClient(client, cfg, logger), nil
}

func newVaultClient(client secretGetter, cfg *VaultConfig, logger *zap.Logger) *VaultClient {
	cacheTTL := cfg.CacheTTL
	if cacheTTL == 0 {
		cacheTTL = 5 * time.Minute
	}
	return &VaultClient{
		client:       client,
		vaultName:    cfg.VaultName,
		logger:       logger,
		cache:        make(map[string]cachedSecret),
		cacheTTL:     cacheTTL,
		cacheEnabled: cfg.CacheEnabled,
		now:          time.Now,
	}
}

// GetSecret retrieves a secret from Azure Key Vault
func (v *VaultClient) GetSecret(ctx context.Context, secretName string) (string, error) {
	if value, ok := v.cached(secretName); ok {
		v.logger.Debug("Secret retrieved from cache", zap.String("secret_name", secretName))
		return value, nil
	}

	v.logger.Debug("Fetching secret from Key Vault", zap.String("secret_name", secretName))

	resp, err := v.client.GetSecret(ctx, secretName, "", nil)
	if err != nil {
		v.logger.Error("Failed to get secret from Key Vault",
			zap.String("secret_name", secretName),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to get secret '%s': %w", secretName, err)
	}

	if resp.Value == nil {
		return "", fmt.Errorf("secret '%s' has no value", secretName)
	}

	value := *resp.Value

	if v.cacheEnabled {
		v.mu.Lock()
		v.cache[secretName] = cachedSecret{
			value:     value,
			expiresAt: v.now().Add(v.cacheTTL),
		}
		v.mu.Unlock()
	}

	return value, nil
}

func (v *VaultClient) cached(secretName string) (string, bool) {
	if !v.cacheEnabled {
		return "", false
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.cache[secretName]
	if !ok {
		return "", false
	}
	if !v.now().Before(entry.expiresAt) {
		delete(v.cache, secretName)
		return "", false
	}
	return entry.value, true
}

// ClearCache clears all cached secrets
func (v *VaultClient) ClearCache() {
	v.mu.Lock()
	v.cache = make(map[string]cachedSecret)
	v.mu.Unlock()
	v.logger.Debug("Secret cache cleared")
}
