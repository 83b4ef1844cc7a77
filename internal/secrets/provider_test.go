package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVault map[string]string

func (f fakeVault) GetSecret(ctx context.Context, name string) (string, error) {
	if v, ok := f[name]; ok {
		return v, nil
	}
	return "", ErrSecretNotFound
}

func fakeEnv(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestResolveSource(t *testing.T) {
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, "development"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceAuto, ""))
	assert.Equal(t, SourceVault, ResolveSource(SourceAuto, "production"))
	assert.Equal(t, SourceEnvironment, ResolveSource(SourceEnvironment, "production"))
}

func TestNewProvider_VaultNeedsName(t *testing.T) {
	_, err := NewProvider(&ProviderConfig{Source: SourceVault, Environment: "production"}, zap.NewNop())
	assert.Error(t, err)
}

func TestProvider_EnvironmentSource(t *testing.T) {
	p := newProvider(SourceEnvironment, nil, zap.NewNop())
	p.getenv = fakeEnv(map[string]string{"JWT_SECRET": "s3cret"})

	value, err := p.GetSecret(context.Background(), "JWT_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", value)

	_, err = p.GetSecret(context.Background(), "MISSING")
	assert.ErrorIs(t, err, ErrSecretNotFound)
	assert.False(t, p.IsVaultEnabled())
}

func TestProvider_Apply(t *testing.T) {
	p := newProvider(SourceVault, fakeVault{"jwt-signing-secret": "from-vault", "admin-api-key": "vault-key"}, zap.NewNop())
	p.getenv = fakeEnv(map[string]string{"ADMIN_API_KEY": "env-key"})

	jwtSecret, apiKey, redisURL := "", "", "localhost:6379"
	applied := p.Apply(context.Background(), []Binding{
		{Secret: "jwt-signing-secret", Env: "JWT_SECRET", Target: &jwtSecret},
		{Secret: "admin-api-key", Env: "ADMIN_API_KEY", Target: &apiKey},
		{Secret: "redis-url", Env: "REDIS_URL", Target: &redisURL},
	})

	assert.Equal(t, 2, applied)
	assert.Equal(t, "from-vault", jwtSecret)
	assert.Equal(t, "env-key", apiKey, "environment overrides vault")
	assert.Equal(t, "localhost:6379", redisURL, "unresolved secrets keep the configured value")
	assert.True(t, p.IsVaultEnabled())
	assert.Equal(t, SourceVault, p.Source())
}

type fakeSecretGetter struct {
	calls  int
	values map[string]string
}

func (f *fakeSecretGetter) GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error) {
	f.calls++
	v, ok := f.values[name]
	if !ok {
		return azsecrets.GetSecretResponse{}, errors.New("SecretNotFound")
	}
	return azsecrets.GetSecretResponse{Secret: azsecrets.Secret{Value: &v}}, nil
}

func TestVaultClient_Cache(t *testing.T) {
	getter := &fakeSecretGetter{values: map[string]string{"redis-url": "redis://cache:6379"}}
	client := newVaultClient(getter, &VaultConfig{VaultName: "chirps", CacheEnabled: true, CacheTTL: time.Minute}, zap.NewNop())

	now := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)
	client.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		value, err := client.GetSecret(context.Background(), "redis-url")
		require.NoError(t, err)
		assert.Equal(t, "redis://cache:6379", value)
	}
	assert.Equal(t, 1, getter.calls)

	now = now.Add(2 * time.Minute)
	_, err := client.GetSecret(context.Background(), "redis-url")
	require.NoError(t, err)
	assert.Equal(t, 2, getter.calls)

	client.ClearCache()
	_, err = client.GetSecret(context.Background(), "redis-url")
	require.NoError(t, err)
	assert.Equal(t, 3, getter.calls)

	_, err = client.GetSecret(context.Background(), "missing")
	assert.Error(t, err)
}
