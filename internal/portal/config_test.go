package portal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "https://spoc.buaa.edu.cn/pjxt/", cfg.BaseURL)
	assert.Contains(t, cfg.LoginURL, "sso.buaa.edu.cn/login?service=")
	assert.Contains(t, cfg.LoginURL, "%2Fpjxt%2Fcas", "the service parameter is escaped")
	assert.Equal(t, 3, cfg.LoginRetries)
	assert.Equal(t, 999, cfg.PageSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("AUTOEVAL_BASE_URL", "https://example.edu/pjxt/")
	t.Setenv("AUTOEVAL_REQUEST_TIMEOUT_MS", "1500")
	t.Setenv("AUTOEVAL_LOGIN_RETRIES", "1")
	t.Setenv("AUTOEVAL_RETRY_BACKOFF_MS", "10")

	cfg := LoadConfig()
	assert.Equal(t, "https://example.edu/pjxt/", cfg.BaseURL)
	assert.Contains(t, cfg.LoginURL, "example.edu")
	assert.Equal(t, 1500*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 1, cfg.LoginRetries)
	assert.Equal(t, 10*time.Millisecond, cfg.RetryBackoff)
}

func TestLoadConfig_ExplicitLoginURLWins(t *testing.T) {
	t.Setenv("AUTOEVAL_BASE_URL", "https://example.edu/pjxt/")
	t.Setenv("AUTOEVAL_LOGIN_URL", "https://login.example.edu/cas")

	cfg := LoadConfig()
	assert.Equal(t, "https://login.example.edu/cas", cfg.LoginURL)
}

func TestLoadConfig_IgnoresBadValues(t *testing.T) {
	t.Setenv("AUTOEVAL_REQUEST_TIMEOUT_MS", "not-a-number")
	t.Setenv("AUTOEVAL_LOGIN_RETRIES", "-2")

	cfg := LoadConfig()
	assert.Equal(t, DefaultConfig().RequestTimeout, cfg.RequestTimeout)
	assert.Equal(t, DefaultConfig().LoginRetries, cfg.LoginRetries)
}
