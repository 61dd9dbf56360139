package secrets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/straye-as/portfolio-api/internal/secrets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeVault struct {
	values map[string]string
	calls  int
}

func (f *fakeVault) GetSecret(ctx context.Context, name string) (string, error) {
	f.calls++
	if v, ok := f.values[name]; ok {
		return v, nil
	}
	return "", errors.New("secret not found")
}

func TestResolveSource(t *testing.T) {
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceAuto, "development"))
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceAuto, ""))
	assert.Equal(t, secrets.SourceVault, secrets.ResolveSource(secrets.SourceAuto, "production"))
	assert.Equal(t, secrets.SourceEnvironment, secrets.ResolveSource(secrets.SourceEnvironment, "production"))
}

func TestProvider_EnvironmentSource(t *testing.T) {
	t.Setenv("PORTFOLIO_TEST_SECRET", "from-env")

	p, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:      secrets.SourceEnvironment,
		Environment: "development",
	}, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, p.IsVaultEnabled())

	v, err := p.GetSecret(context.Background(), "PORTFOLIO_TEST_SECRET")
	require.NoError(t, err)
	assert.Equal(t, "from-env", v)

	_, err = p.GetSecret(context.Background(), "PORTFOLIO_TEST_MISSING")
	assert.Error(t, err)
}

func TestProvider_VaultRequiresName(t *testing.T) {
	_, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:      secrets.SourceVault,
		Environment: "production",
	}, zap.NewNop())
	assert.Error(t, err)
}

func TestProvider_GetSecretOrEnv(t *testing.T) {
	vault := &fakeVault{values: map[string]string{"JWT-SIGNING-SECRET": "vault-secret"}}
	p := secrets.NewProviderWithGetter(vault, zap.NewNop())

	t.Run("vault value when env unset", func(t *testing.T) {
		v, err := p.GetSecretOrEnv(context.Background(), "JWT-SIGNING-SECRET", "PORTFOLIO_TEST_JWT")
		require.NoError(t, err)
		assert.Equal(t, "vault-secret", v)
	})

	t.Run("env override wins", func(t *testing.T) {
		t.Setenv("PORTFOLIO_TEST_JWT", "env-secret")
		calls := vault.calls

		v, err := p.GetSecretOrEnv(context.Background(), "JWT-SIGNING-SECRET", "PORTFOLIO_TEST_JWT")
		require.NoError(t, err)
		assert.Equal(t, "env-secret", v)
		assert.Equal(t, calls, vault.calls)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := p.GetSecretOrEnv(context.Background(), "NOPE", "PORTFOLIO_TEST_NOPE")
		assert.Error(t, err)
	})
}
