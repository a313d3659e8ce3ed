package keystore

import (
	"crypto/tls"
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	certPath, keyPath := WriteTestPair(t, t.TempDir(), "thing-01")

	ks, err := Load(certPath, keyPath)
	require.NoError(t, err)
	assert.Equal(t, "thing-01", ks.Alias)
	assert.NotNil(t, ks.Leaf)
	assert.Len(t, ks.Certificate.Certificate, 1)
}

func TestLoadAliasFallsBackToFingerprint(t *testing.T) {
	certPath, keyPath := WriteTestPair(t, t.TempDir(), "")

	ks, err := Load(certPath, keyPath)
	require.NoError(t, err)
	assert.Regexp(t, `^sha256:[0-9a-f]{16}$`, ks.Alias)
}

func TestLoadMissingFiles(t *testing.T) {
	dir := t.TempDir()
	certPath, keyPath := WriteTestPair(t, dir, "thing")

	_, err := Load(filepath.Join(dir, "missing.crt"), keyPath)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = Load(certPath, filepath.Join(dir, "missing.key"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFromPEMRejectsMismatchedKey(t *testing.T) {
	certPath, _ := WriteTestPair(t, t.TempDir(), "a")
	_, otherKey := WriteTestPair(t, t.TempDir(), "b")

	certPEM, err := os.ReadFile(certPath)
	require.NoError(t, err)
	keyPEM, err := os.ReadFile(otherKey)
	require.NoError(t, err)

	_, err = FromPEM(certPEM, keyPEM)
	assert.Error(t, err)
}

func TestLoadCA(t *testing.T) {
	dir := t.TempDir()
	certPath, _ := WriteTestPair(t, dir, "root")

	pool, err := LoadCA(certPath)
	require.NoError(t, err)
	assert.NotNil(t, pool)

	empty := filepath.Join(dir, "empty.pem")
	require.NoError(t, os.WriteFile(empty, []byte("nothing here"), 0o600))
	_, err = LoadCA(empty)
	assert.True(t, errors.Is(err, ErrNoCA))
}

func TestTLSConfig(t *testing.T) {
	certPath, keyPath := WriteTestPair(t, t.TempDir(), "thing")
	ks, err := Load(certPath, keyPath)
	require.NoError(t, err)

	cfg := ks.TLSConfig(nil)
	assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
	assert.Len(t, cfg.Certificates, 1)

	var nilStore *KeyStore
	assert.Empty(t, nilStore.TLSConfig(nil).Certificates)
}
