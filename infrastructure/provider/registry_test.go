package provider_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/manygit/domain"
	"github.com/rios0rios0/manygit/infrastructure/provider"
	testdoubles "github.com/rios0rios0/manygit/test"
)

func spyFactory(conn *testdoubles.SpyConnection) provider.Factory {
	return func(_ domain.Credential) (domain.Connection, error) {
		return conn, nil
	}
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	t.Run("should connect using the factory for the credential type", func(t *testing.T) {
		t.Parallel()

		// given
		want := &testdoubles.SpyConnection{}
		reg := provider.NewRegistry()
		reg.Register("github", spyFactory(want), "github/oauth-token")

		// when
		conn, err := reg.Connect(testdoubles.StubCredential{Type: "github/oauth-token"})

		// then
		require.NoError(t, err)
		assert.Same(t, want, conn)
	})

	t.Run("should return connection error for unknown credential type", func(t *testing.T) {
		t.Parallel()

		// given
		reg := provider.NewRegistry()

		// when
		conn, err := reg.Connect(testdoubles.StubCredential{Type: "svn/password"})

		// then
		require.Error(t, err)
		assert.Nil(t, conn)
		assert.ErrorIs(t, err, domain.ErrConnection)
		assert.ErrorIs(t, err, domain.ErrManygit)
		assert.Contains(t, err.Error(), "svn/password")
	})

	t.Run("should pass the credential through to the factory", func(t *testing.T) {
		t.Parallel()

		// given
		var received domain.Credential
		reg := provider.NewRegistry()
		reg.Register("github", func(cred domain.Credential) (domain.Connection, error) {
			received = cred
			return &testdoubles.SpyConnection{}, nil
		}, "github/oauth-token")
		cred := testdoubles.StubCredential{Type: "github/oauth-token"}

		// when
		_, err := reg.Connect(cred)

		// then
		require.NoError(t, err)
		assert.Equal(t, cred, received)
	})

	t.Run("should wrap factory failures", func(t *testing.T) {
		t.Parallel()

		// given
		boom := errors.New("bad credential")
		reg := provider.NewRegistry()
		reg.Register("github", func(_ domain.Credential) (domain.Connection, error) {
			return nil, boom
		}, "github/oauth-token")

		// when
		conn, err := reg.Connect(testdoubles.StubCredential{Type: "github/oauth-token"})

		// then
		require.Error(t, err)
		assert.Nil(t, conn)
		assert.ErrorIs(t, err, boom)
		assert.Contains(t, err.Error(), "failed to build connection")
	})

	t.Run("should list registered hosts sorted", func(t *testing.T) {
		t.Parallel()

		// given
		reg := provider.NewRegistry()
		reg.Register("gitlab", spyFactory(&testdoubles.SpyConnection{}), "gitlab/oauth-token")
		reg.Register("github", spyFactory(&testdoubles.SpyConnection{}),
			"github/oauth-token", "github/personal-access-token")

		// when
		hosts := reg.Hosts()

		// then
		assert.Equal(t, []string{"github", "gitlab"}, hosts)
	})

	t.Run("should expose credential types per host", func(t *testing.T) {
		t.Parallel()

		// given
		reg := provider.NewRegistry()
		reg.Register("github", spyFactory(&testdoubles.SpyConnection{}),
			"github/oauth-token", "github/personal-access-token")

		// when / then
		assert.ElementsMatch(t,
			[]string{"github/oauth-token", "github/personal-access-token"},
			reg.CredentialTypes("github"))
		assert.Nil(t, reg.CredentialTypes("bitbucket"))
	})

	t.Run("should not duplicate credential types on re-registration", func(t *testing.T) {
		t.Parallel()

		// given
		reg := provider.NewRegistry()
		reg.Register("github", spyFactory(&testdoubles.SpyConnection{}), "github/oauth-token")
		reg.Register("github", spyFactory(&testdoubles.SpyConnection{}), "github/oauth-token")

		// when
		credTypes := reg.CredentialTypes("github")

		// then
		assert.Equal(t, []string{"github/oauth-token"}, credTypes)
	})

	t.Run("should return empty hosts for empty registry", func(t *testing.T) {
		t.Parallel()

		// given
		reg := provider.NewRegistry()

		// when
		hosts := reg.Hosts()

		// then
		assert.Empty(t, hosts)
	})
}
