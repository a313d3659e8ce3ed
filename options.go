package iotmqtt

import (
	"crypto/tls"
	"net"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/xizhibei/go-iotmqtt/keystore"
)

// Will is the last will message the broker publishes when the client goes away unexpectedly.
type Will struct {
	Topic    string `validate:"required"`
	Payload  []byte
	QoS      QoS `validate:"lte=2"`
	Retained bool
}

// ConnectOptions describes how to reach a broker.
//
// Only one credential shape is used at a time: Username/Password for the
// generic backend, KeyStore/KeyAlias for AWS IoT.
type ConnectOptions struct {
	ServerURI string `validate:"required"`
	ClientID  string

	Username string
	Password string

	KeyStore *keystore.KeyStore `validate:"-"`
	KeyAlias string

	// ConnectionTimeout and KeepAliveInterval are applied only when positive.
	ConnectionTimeout time.Duration `validate:"gte=0"`
	KeepAliveInterval time.Duration `validate:"gte=0"`

	CleanSession bool
	Will         *Will

	// TLSConfig overrides the TLS configuration derived from KeyStore.
	TLSConfig *tls.Config `validate:"-"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func optionsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
	})
	return validate
}

// NewConnectOptions returns options for serverURI with a clean session.
func NewConnectOptions(serverURI string) (*ConnectOptions, error) {
	o := &ConnectOptions{CleanSession: true}
	if err := o.SetServerURI(serverURI); err != nil {
		return nil, err
	}
	return o, nil
}

// SetServerURI sets the broker uri. A managed cloud hostname given without a
// scheme, such as "xxx.iot.us-east-1.amazonaws.com", gets the "ssl://" scheme;
// uris with an explicit scheme are kept as they are.
func (o *ConnectOptions) SetServerURI(uri string) error {
	uri = strings.TrimSpace(uri)
	if uri != "" && !strings.Contains(uri, "://") && strings.HasSuffix(hostOf(uri), ManagedCloudHostSuffix) {
		uri = SecureScheme + "://" + uri
	}
	if uri != "" {
		if _, err := parseServerURI(uri); err != nil {
			return err
		}
	}
	o.ServerURI = uri
	return nil
}

// hostOf returns the host part of a scheme-less "host[:port][/path]" string.
func hostOf(s string) string {
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	if host, _, err := net.SplitHostPort(s); err == nil {
		return host
	}
	return s
}

func parseServerURI(uri string) (*url.URL, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, errors.WithSecondaryError(errors.Wrapf(ErrInvalidServerURI, "parse %q", uri), err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, errors.Wrapf(ErrInvalidServerURI, "%q needs a scheme and a host", uri)
	}
	return u, nil
}

// URL parses ServerURI.
func (o *ConnectOptions) URL() (*url.URL, error) {
	return parseServerURI(o.ServerURI)
}

var defaultPorts = map[string]string{
	"tcp":   "1883",
	"mqtt":  "1883",
	"ssl":   "8883",
	"tls":   "8883",
	"mqtts": "8883",
	"tcps":  "8883",
	"ws":    "80",
	"wss":   "443",
}

// BrokerURI returns ServerURI with the scheme's default port filled in when it has none.
func (o *ConnectOptions) BrokerURI() (string, error) {
	u, err := o.URL()
	if err != nil {
		return "", err
	}
	if u.Port() == "" {
		if port, ok := defaultPorts[strings.ToLower(u.Scheme)]; ok {
			u.Host = net.JoinHostPort(u.Hostname(), port)
		}
	}
	return u.String(), nil
}

// PrintableURI returns ServerURI without user info, suitable for logs.
func (o *ConnectOptions) PrintableURI() string {
	u, err := url.Parse(o.ServerURI)
	if err != nil {
		return o.ServerURI
	}
	u.User = nil
	return u.String()
}

// Validate checks the options before a connect.
func (o *ConnectOptions) Validate() error {
	if o == nil {
		return errors.Wrap(ErrInvalidOptions, "options are nil")
	}
	if err := optionsValidator().Struct(o); err != nil {
		return errors.WithSecondaryError(errors.Wrap(ErrInvalidOptions, err.Error()), err)
	}
	if _, err := o.URL(); err != nil {
		return err
	}
	if (o.Username != "" || o.Password != "") && o.KeyStore != nil {
		return errors.Wrap(ErrInvalidOptions, "username/password and keystore are mutually exclusive")
	}
	return nil
}

// HasCredentials reports whether a username or password is set.
func (o *ConnectOptions) HasCredentials() bool {
	return o.Username != "" || o.Password != ""
}

// Clone returns a copy that shares no mutable state with o, except the key store.
func (o *ConnectOptions) Clone() *ConnectOptions {
	if o == nil {
		return nil
	}
	c := *o
	if o.Will != nil {
		w := *o.Will
		w.Payload = append([]byte(nil), o.Will.Payload...)
		c.Will = &w
	}
	if o.TLSConfig != nil {
		c.TLSConfig = o.TLSConfig.Clone()
	}
	return &c
}
