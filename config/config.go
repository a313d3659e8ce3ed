// Package config supplies connection settings from a properties file
// ("key=value" per line) kept in the iotmqtt home directory.
//
// Keys looked up:
//
//	clientId          client id used to connect
//	endpoint          broker uri or AWS IoT endpoint
//	topic             topic used by the example programs
//	user, password    credentials for the generic broker
//	certPath          certificate path
//	certName          certificate file name inside the home directory, used when certPath is absent
//	privateKeyPath    private key path
//	privateKeyName    private key file name inside the home directory, used when privateKeyPath is absent
//	caPath            optional root CA bundle for AWS IoT
//	connectionTimeout connect timeout in seconds
//	keepAliveInterval keep alive interval in seconds
//
// Every key can be overridden by an IOTMQTT_<KEY> environment variable, e.g.
// IOTMQTT_ENDPOINT. Missing keys are reported as absent, never as errors.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Property keys.
const (
	KeyClientID          = "clientId"
	KeyEndpoint          = "endpoint"
	KeyTopic             = "topic"
	KeyUser              = "user"
	KeyPassword          = "password"
	KeyCertPath          = "certPath"
	KeyCertName          = "certName"
	KeyPrivateKeyPath    = "privateKeyPath"
	KeyPrivateKeyName    = "privateKeyName"
	KeyCAPath            = "caPath"
	KeyConnectionTimeout = "connectionTimeout"
	KeyKeepAliveInterval = "keepAliveInterval"
)

const (
	// HomeEnv overrides the home directory.
	HomeEnv = "IOTMQTT_HOME"

	// EnvPrefix prefixes environment overrides.
	EnvPrefix = "IOTMQTT"

	homeDirName = ".iotmqtt"
	fileName    = "iotmqtt.config"
)

// Provider supplies configuration values.
type Provider interface {
	// Get returns the trimmed value of key and whether it is set to a non-empty value.
	Get(key string) (string, bool)

	// Home returns the directory certificate and key names are resolved against.
	Home() string
}

// Home returns the default home directory: $IOTMQTT_HOME, or ~/.iotmqtt.
func Home() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return homeDirName
	}
	return filepath.Join(userHome, homeDirName)
}

// File returns the default configuration file path.
func File() string {
	return filepath.Join(Home(), fileName)
}

// Properties is a Provider backed by a properties file.
type Properties struct {
	v    *viper.Viper
	home string
	file string
	log  *zap.SugaredLogger
}

var _ Provider = (*Properties)(nil)

type options struct {
	home string
	file string
}

// Option configures Load.
type Option func(o *options)

// WithHome sets the home directory. The file defaults to iotmqtt.config inside it.
func WithHome(dir string) Option {
	return func(o *options) {
		o.home = dir
	}
}

// WithFile sets the properties file path.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// Load reads the properties file. A missing file yields an empty provider.
func Load(opts ...Option) (*Properties, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.home == "" {
		o.home = Home()
	}
	if o.file == "" {
		o.file = filepath.Join(o.home, fileName)
	}

	p := &Properties{
		v:    newViper(),
		home: o.home,
		file: o.file,
		log:  zap.S().With("module", "iotmqtt.config"),
	}

	p.v.SetConfigFile(o.file)
	p.v.SetConfigType("properties")
	p.v.SetEnvPrefix(EnvPrefix)
	p.v.AutomaticEnv()

	p.log.Infof("Loading properties from %s", o.file)
	if _, err := os.Stat(o.file); err != nil {
		if os.IsNotExist(err) {
			p.log.Infof("Config file is not present in %s", o.home)
			return p, nil
		}
		return nil, errors.Wrapf(err, "[CONFIG] stat %s", o.file)
	}
	if err := p.v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "[CONFIG] read %s", o.file)
	}
	p.log.Infof("Loaded properties successfully")

	return p, nil
}

// Get implements Provider.
func (p *Properties) Get(key string) (string, bool) {
	if !p.v.IsSet(key) {
		return "", false
	}
	value := strings.TrimSpace(p.v.GetString(key))
	return value, value != ""
}

// Home implements Provider.
func (p *Properties) Home() string {
	return p.home
}

// File returns the properties file path.
func (p *Properties) File() string {
	return p.file
}

// GetInt64 returns the value of key as an int64, or def when absent or malformed.
func (p *Properties) GetInt64(key string, def int64) int64 {
	return Int64(p, key, def)
}

// Update sets key and appends "key=value" to the properties file, creating it if needed.
func (p *Properties) Update(key, value string) error {
	p.v.Set(key, value)

	if err := os.MkdirAll(filepath.Dir(p.file), 0o755); err != nil {
		return errors.Wrapf(err, "[CONFIG] create %s", filepath.Dir(p.file))
	}
	f, err := os.OpenFile(p.file, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return errors.Wrapf(err, "[CONFIG] open %s", p.file)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "\n%s=%s\n", key, value); err != nil {
		return errors.Wrapf(err, "[CONFIG] write %s", p.file)
	}
	return nil
}

// BindFlags lets command line flags named after property keys override file values.
func (p *Properties) BindFlags(fs *pflag.FlagSet) error {
	return p.v.BindPFlags(fs)
}

// Int64 reads key from p as an int64, returning def when absent or malformed.
func Int64(p Provider, key string, def int64) int64 {
	raw, ok := p.Get(key)
	if !ok {
		return def
	}
	value, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		zap.S().With("module", "iotmqtt.config").
			Warnf("Failed to parse %s=%q, using %d", key, raw, def)
		return def
	}
	return value
}

// Map is an in-memory Provider.
type Map struct {
	HomeDir string
	Values  map[string]string
}

var _ Provider = Map{}

// Get implements Provider.
func (m Map) Get(key string) (string, bool) {
	value := strings.TrimSpace(m.Values[key])
	return value, value != ""
}

// Home implements Provider.
func (m Map) Home() string {
	return m.HomeDir
}
