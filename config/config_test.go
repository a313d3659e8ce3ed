package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, fileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadMissingFile(t *testing.T) {
	p, err := Load(WithHome(t.TempDir()))
	require.NoError(t, err)

	_, ok := p.Get(KeyEndpoint)
	assert.False(t, ok)
}

func TestLoadTrimsValues(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "clientId=device-1   \nendpoint=tcp://localhost:1883\nuser=\n")

	p, err := Load(WithHome(dir))
	require.NoError(t, err)

	clientID, ok := p.Get(KeyClientID)
	assert.True(t, ok)
	assert.Equal(t, "device-1", clientID)

	endpoint, ok := p.Get(KeyEndpoint)
	assert.True(t, ok)
	assert.Equal(t, "tcp://localhost:1883", endpoint)

	_, ok = p.Get(KeyUser)
	assert.False(t, ok, "empty values are absent")
	assert.Equal(t, dir, p.Home())
	assert.Equal(t, filepath.Join(dir, fileName), p.File())
}

func TestLoadWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.properties")
	require.NoError(t, os.WriteFile(path, []byte("topic=a/b\n"), 0o600))

	p, err := Load(WithFile(path))
	require.NoError(t, err)

	topic, ok := p.Get(KeyTopic)
	assert.True(t, ok)
	assert.Equal(t, "a/b", topic)
}

func TestEnvOverride(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "topic=file/topic\n")
	t.Setenv("IOTMQTT_TOPIC", "env/topic")

	p, err := Load(WithHome(dir))
	require.NoError(t, err)

	topic, _ := p.Get(KeyTopic)
	assert.Equal(t, "env/topic", topic)
}

func TestHomeEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	assert.Equal(t, dir, Home())
	assert.Equal(t, filepath.Join(dir, fileName), File())
}

func TestGetInt64(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "connectionTimeout=30\nkeepAliveInterval=abc\n")

	p, err := Load(WithHome(dir))
	require.NoError(t, err)

	assert.Equal(t, int64(30), p.GetInt64(KeyConnectionTimeout, 5))
	assert.Equal(t, int64(5), p.GetInt64(KeyKeepAliveInterval, 5))
	assert.Equal(t, int64(7), p.GetInt64("missing", 7))
}

func TestUpdate(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")

	p, err := Load(WithHome(dir))
	require.NoError(t, err)
	require.NoError(t, p.Update(KeyClientID, "generated-id"))

	clientID, ok := p.Get(KeyClientID)
	assert.True(t, ok)
	assert.Equal(t, "generated-id", clientID)

	reloaded, err := Load(WithHome(dir))
	require.NoError(t, err)
	clientID, ok = reloaded.Get(KeyClientID)
	assert.True(t, ok)
	assert.Equal(t, "generated-id", clientID)
}

func TestBindFlags(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "endpoint=tcp://file:1883\n")

	p, err := Load(WithHome(dir))
	require.NoError(t, err)

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String(KeyEndpoint, "", "")
	require.NoError(t, fs.Parse([]string{"--endpoint=tcp://flag:1883"}))
	require.NoError(t, p.BindFlags(fs))

	endpoint, _ := p.Get(KeyEndpoint)
	assert.Equal(t, "tcp://flag:1883", endpoint)
}

func TestMap(t *testing.T) {
	m := Map{HomeDir: "/home", Values: map[string]string{KeyTopic: " t "}}

	topic, ok := m.Get(KeyTopic)
	assert.True(t, ok)
	assert.Equal(t, "t", topic)

	_, ok = m.Get(KeyUser)
	assert.False(t, ok)
	assert.Equal(t, "/home", m.Home())
}
