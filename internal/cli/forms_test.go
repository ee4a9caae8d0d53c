package cli

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenalexa/autoeval/internal/portal"
)

func TestSplitOverrides(t *testing.T) {
	assert.Nil(t, splitOverrides(""))
	assert.Nil(t, splitOverrides("   "))
	assert.Equal(t, []string{"张三"}, splitOverrides("张三"))
	assert.Equal(t, []string{"张三", "李四"}, splitOverrides("张三, 李四"))
	assert.Equal(t, []string{"张三", "李四"}, splitOverrides(" 张三 ,, 李四 ,"))
}

func TestValidateNonEmpty(t *testing.T) {
	v := validateNonEmpty("password")
	require.Error(t, v(""))
	require.Error(t, v("   "))
	assert.NoError(t, v("secret"))
}

func TestLoginMessage(t *testing.T) {
	assert.Contains(t, loginMessage(portal.ErrInvalidCredentials), "bad credentials")
	assert.Contains(t, loginMessage(portal.ErrProtocolMismatch), "needs an update")
	assert.Contains(t, loginMessage(portal.ErrUnreachable), "network problem")
	assert.Contains(t, loginMessage(errors.New("odd")), "odd")
}

func TestResolveCredentials_NonInteractiveWithoutCreds(t *testing.T) {
	app := &App{IsInteractive: func() bool { return false }}
	var username, password string
	err := resolveCredentials(app, &username, &password)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTOEVAL_USERNAME")
}

func TestResolveCredentials_EnvFallback(t *testing.T) {
	t.Setenv("AUTOEVAL_USERNAME", "alice")
	t.Setenv("AUTOEVAL_PASSWORD", "secret")

	app := &App{IsInteractive: func() bool { return false }}
	var username, password string
	require.NoError(t, resolveCredentials(app, &username, &password))
	assert.Equal(t, "alice", username)
	assert.Equal(t, "secret", password)
}

func TestResolveCredentials_FlagsWin(t *testing.T) {
	t.Setenv("AUTOEVAL_USERNAME", "env-user")
	t.Setenv("AUTOEVAL_PASSWORD", "env-pass")

	app := &App{IsInteractive: func() bool { return false }}
	username, password := "flag-user", "flag-pass"
	require.NoError(t, resolveCredentials(app, &username, &password))
	assert.Equal(t, "flag-user", username)
	assert.Equal(t, "flag-pass", password)
}
