package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withArgs(t *testing.T, args ...string) func() {
	t.Helper()
	old := os.Args
	os.Args = append([]string{"server"}, args...)
	return func() { os.Args = old }
}

func TestParseJson_NoFlagLeavesConfigUntouched(t *testing.T) {
	defer withArgs(t)()

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":8080", c.EndpointAddr)
	assert.Equal(t, "accessSecret", c.AccessTokenSecret)
}

func TestParseJson_OverlaysValuesFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")
	data := `{
		"endpoint_addr": ":9999",
		"database_dsn": "postgres://u:p@db:5432/accounts",
		"access_token_secret": "as",
		"refresh_token_secret": "rs",
		"access_token_validity_duration": "30m",
		"refresh_token_validity_duration": "720h",
		"temp_upload_dir": "var/staging",
		"s3_root_user": "minio",
		"s3_root_password": "miniopass",
		"s3_bucket": "avatars",
		"s3_region": "eu-west-1",
		"s3_base_endpoint": "http://minio:9000/",
		"cookie_secure": false
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	defer withArgs(t, "-c", path)()

	var c Config
	c.LoadDefaults()
	parseJson(&c)

	assert.Equal(t, ":9999", c.EndpointAddr)
	assert.Equal(t, "postgres://u:p@db:5432/accounts", c.DatabaseDSN)
	assert.Equal(t, "as", c.AccessTokenSecret)
	assert.Equal(t, "rs", c.RefreshTokenSecret)
	assert.Equal(t, 30*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 720*time.Hour, c.RefreshTokenValidityDuration)
	assert.Equal(t, "var/staging", c.TempUploadDir)
	assert.Equal(t, "minio", c.S3RootUser)
	assert.Equal(t, "miniopass", c.S3RootPassword)
	assert.Equal(t, "avatars", c.S3Bucket)
	assert.Equal(t, "eu-west-1", c.S3Region)
	assert.Equal(t, "http://minio:9000/", c.S3BaseEndpoint)
	assert.False(t, c.CookieSecure)
}

func TestParseJson_InvalidFilePanics(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o600))

	defer withArgs(t, "-c", path)()

	var c Config
	c.LoadDefaults()
	assert.Panics(t, func() { parseJson(&c) })
}
