package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HADITHS_API_KEY", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.APIKey)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "Translation", cfg.TranslationLabel)
	assert.False(t, cfg.IsProduction())
}

func TestLoadMissingAPIKey(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HADITHS_API_KEY", "")

	_, err := Load("")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HADITHS_API_KEY", "")

	path := filepath.Join(dir, "hadiths.yaml")
	content := `
env: production
base_url: https://example.test/api/
api_key: from-file
page_size: 10
timeout: 5s
translation_label: English
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://example.test/api", cfg.BaseURL, "trailing slash is trimmed")
	assert.Equal(t, "from-file", cfg.APIKey)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, "English", cfg.TranslationLabel)
	assert.True(t, cfg.IsProduction())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "hadiths.yaml")
	require.NoError(t, os.WriteFile(path, []byte("api_key: from-file\npage_size: 10\n"), 0644))
	t.Setenv("HADITHS_API_KEY", "from-env")
	t.Setenv("HADITHS_PAGE_SIZE", "40")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, 40, cfg.PageSize)
}

func TestLoadExplicitFileMissing(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HADITHS_API_KEY", "secret")

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadWithOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HADITHS_API_KEY", "secret")

	v := viper.New()
	v.Set("page_size", 5)

	cfg, err := LoadWith(v, "")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.PageSize)
}

func TestValidate(t *testing.T) {
	valid := Config{
		Env:              "local",
		BaseURL:          DefaultBaseURL,
		APIKey:           "secret",
		PageSize:         25,
		RateLimit:        5,
		RateBurst:        5,
		TranslationLabel: "Translation",
	}
	assert.NoError(t, valid.Validate())

	badURL := valid
	badURL.BaseURL = "not a url"
	assert.ErrorContains(t, badURL.Validate(), "baseurl")

	badPage := valid
	badPage.PageSize = 0
	assert.ErrorContains(t, badPage.Validate(), "pagesize")

	noKey := valid
	noKey.APIKey = "  "
	assert.ErrorIs(t, noKey.Validate(), ErrMissingAPIKey)
}
