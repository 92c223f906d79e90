package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	testDir := t.TempDir()

	c1, err := ReadOrCreate(testDir)
	require.NoError(t, err)
	require.NotNil(t, c1)
	assert.Equal(t, DefaultHost, c1.Host)
	assert.Equal(t, []string{"#Soziologie", "#CfP"}, c1.Hashtags)
	assert.Equal(t, DefaultWindowHours, c1.WindowHours)

	c1.Handle = "me.bsky.social"
	c1.Hashtags = []string{"#golang"}
	c1.TopPosts = 5

	err = Save(testDir, c1)
	assert.NoError(t, err)

	c2, err := ReadOrCreate(testDir)
	require.NoError(t, err)
	require.NotNil(t, c2)
	assert.Equal(t, c1.Handle, c2.Handle)
	assert.Equal(t, c1.Hashtags, c2.Hashtags)
	assert.Equal(t, c1.TopPosts, c2.TopPosts)
}

func TestConfig_NestedDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.NotNil(t, c)
	_, err = os.Stat(filepath.Join(dir, configFileName))
	assert.NoError(t, err)
}

func TestConfig_PartialFileGetsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("handle: me.bsky.social\n"), fileMode))

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Equal(t, "me.bsky.social", c.Handle)
	assert.Equal(t, DefaultHost, c.Host)
	assert.Equal(t, DefaultSearchLimit, c.SearchLimit)
	assert.Equal(t, DefaultTimelineLimit, c.TimelineLimit)
	assert.Equal(t, DefaultTopPosts, c.TopPosts)
}

func TestConfig_EmptyHashtagList(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("hashtags: []\n"), fileMode))

	c, err := ReadOrCreate(dir)
	require.NoError(t, err)
	assert.Empty(t, c.Hashtags)
}

func TestConfig_Invalid(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, configFileName), []byte("hashtags: [unclosed\n"), fileMode))

	_, err := ReadOrCreate(dir)
	assert.Error(t, err)
}

func TestConfig_EmptyArgs(t *testing.T) {
	_, err := ReadOrCreate("")
	assert.Error(t, err)
	assert.Error(t, Save("", &Config{}))
	assert.Error(t, Save(t.TempDir(), nil))
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv(HandleEnvVar, " me.bsky.social ")
	t.Setenv(AppPasswordEnvVar, "abcd-efgh")

	c := CredentialsFromEnv()
	assert.Equal(t, "me.bsky.social", c.Handle)
	assert.Equal(t, "abcd-efgh", c.AppPassword)
	assert.True(t, c.Valid())

	t.Setenv(AppPasswordEnvVar, "")
	assert.False(t, CredentialsFromEnv().Valid())
}

func TestLoadEnv(t *testing.T) {
	t.Setenv(HandleEnvVar, "")
	os.Unsetenv(HandleEnvVar)

	f := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(f, []byte(HandleEnvVar+"=env.bsky.social\n"), fileMode))

	require.NoError(t, LoadEnv(f))
	assert.Equal(t, "env.bsky.social", os.Getenv(HandleEnvVar))
}

func TestLoadEnv_Missing(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "nope.env")))
}

func TestReset(t *testing.T) {
	dir := t.TempDir()
	c, err := ReadOrCreate(dir)
	require.NoError(t, err)

	c.Handle = "me.bsky.social"
	c.WindowHours = 48
	require.NoError(t, Save(dir, c))

	c2, err := Reset(dir)
	require.NoError(t, err)
	assert.Empty(t, c2.Handle)
	assert.Equal(t, DefaultWindowHours, c2.WindowHours)

	_, err = Reset("")
	assert.Error(t, err)
}
