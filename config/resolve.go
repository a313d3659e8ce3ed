package config

import (
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	iotmqtt "github.com/xizhibei/go-iotmqtt"
	"github.com/xizhibei/go-iotmqtt/keystore"
)

// GenericOptions derives broker options from p: endpoint, user and password.
// It returns the configured client id alongside, empty when absent.
func GenericOptions(p Provider) (*iotmqtt.ConnectOptions, string, error) {
	opts, err := baseOptions(p)
	if err != nil {
		return nil, "", err
	}

	opts.Username, _ = p.Get(KeyUser)
	opts.Password, _ = p.Get(KeyPassword)

	clientID, _ := p.Get(KeyClientID)
	return opts, clientID, nil
}

// AWSOptions derives AWS IoT options from p: endpoint, certificate and private key.
// The key store is loaded only when both a certificate and a key path resolve.
func AWSOptions(p Provider) (*iotmqtt.ConnectOptions, string, error) {
	opts, err := baseOptions(p)
	if err != nil {
		return nil, "", err
	}

	certPath := ResolvePath(p, KeyCertPath, KeyCertName)
	keyPath := ResolvePath(p, KeyPrivateKeyPath, KeyPrivateKeyName)
	if certPath != "" && keyPath != "" {
		ks, err := keystore.Load(certPath, keyPath)
		if err != nil {
			return nil, "", err
		}
		opts.KeyStore = ks
		opts.KeyAlias = ks.Alias

		if caPath, ok := p.Get(KeyCAPath); ok {
			pool, err := keystore.LoadCA(caPath)
			if err != nil {
				return nil, "", err
			}
			opts.TLSConfig = ks.TLSConfig(pool)
		}
	}

	clientID, _ := p.Get(KeyClientID)
	return opts, clientID, nil
}

// ResolvePath returns the value of pathKey, or nameKey joined to the home
// directory when pathKey is absent, or "" when neither is set.
func ResolvePath(p Provider, pathKey, nameKey string) string {
	if path, ok := p.Get(pathKey); ok {
		return path
	}
	if name, ok := p.Get(nameKey); ok {
		return filepath.Join(p.Home(), name)
	}
	return ""
}

func baseOptions(p Provider) (*iotmqtt.ConnectOptions, error) {
	if p == nil {
		return nil, errors.New("[CONFIG] no configuration provider")
	}

	opts := &iotmqtt.ConnectOptions{CleanSession: true}
	if endpoint, ok := p.Get(KeyEndpoint); ok {
		if err := opts.SetServerURI(endpoint); err != nil {
			return nil, err
		}
	}

	opts.ConnectionTimeout = time.Duration(Int64(p, KeyConnectionTimeout, 0)) * time.Second
	opts.KeepAliveInterval = time.Duration(Int64(p, KeyKeepAliveInterval, 0)) * time.Second
	return opts, nil
}
