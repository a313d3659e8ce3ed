// Package keystore loads the client certificate and private key used for
// mutual TLS, the way AWS IoT device credentials are distributed: one PEM
// certificate file and one PEM private key file.
package keystore

import (
	"crypto/sha256"
	"crypto/tls"
	"crypto/x509"
	"encoding/hex"
	"os"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNoCertificate is returned when the certificate file holds no certificate.
	ErrNoCertificate = errors.New("[KEYSTORE] no certificate found")

	// ErrNoCA is returned when the CA file holds no certificate.
	ErrNoCA = errors.New("[KEYSTORE] no CA certificate found")
)

// KeyStore holds a client certificate chain with its private key.
type KeyStore struct {
	Certificate tls.Certificate
	Leaf        *x509.Certificate

	// Alias identifies the key pair in logs: the leaf subject common name, or a
	// fingerprint prefix when the certificate has none.
	Alias string
}

// Load reads a PEM certificate chain and a PEM private key (PKCS#1, PKCS#8 or EC).
func Load(certPath, keyPath string) (*KeyStore, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, errors.Wrapf(err, "[KEYSTORE] read certificate %s", certPath)
	}
	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, errors.Wrapf(err, "[KEYSTORE] read private key %s", keyPath)
	}
	return FromPEM(certPEM, keyPEM)
}

// FromPEM builds a key store from PEM encoded certificate and key.
func FromPEM(certPEM, keyPEM []byte) (*KeyStore, error) {
	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return nil, errors.Wrap(err, "[KEYSTORE] load key pair")
	}
	if len(cert.Certificate) == 0 {
		return nil, ErrNoCertificate
	}

	leaf, err := x509.ParseCertificate(cert.Certificate[0])
	if err != nil {
		return nil, errors.Wrap(err, "[KEYSTORE] parse leaf certificate")
	}
	cert.Leaf = leaf

	return &KeyStore{
		Certificate: cert,
		Leaf:        leaf,
		Alias:       aliasOf(leaf),
	}, nil
}

func aliasOf(leaf *x509.Certificate) string {
	if leaf.Subject.CommonName != "" {
		return leaf.Subject.CommonName
	}
	sum := sha256.Sum256(leaf.Raw)
	return "sha256:" + hex.EncodeToString(sum[:8])
}

// LoadCA reads a PEM bundle of trusted root certificates.
func LoadCA(path string) (*x509.CertPool, error) {
	pemCerts, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[KEYSTORE] read CA %s", path)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(pemCerts) {
		return nil, errors.Wrapf(ErrNoCA, "%s", path)
	}
	return pool, nil
}

// TLSConfig returns a client TLS configuration presenting the key store's
// certificate. A nil rootCAs uses the system pool.
func (ks *KeyStore) TLSConfig(rootCAs *x509.CertPool) *tls.Config {
	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    rootCAs,
	}
	if ks != nil {
		cfg.Certificates = []tls.Certificate{ks.Certificate}
	}
	return cfg
}
