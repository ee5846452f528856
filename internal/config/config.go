package config

import (
	"fmt"
	"math"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/konstantinfoerster/ygoprodeck-importer-go/internal/web"
	"gopkg.in/yaml.v3"
)

const DefaultBaseURL = "https://db.ygoprodeck.com/api/v7"

type Config struct {
	Logging    Logging    `yaml:"logging" toml:"logging"`
	Ygoprodeck Ygoprodeck `yaml:"ygoprodeck" toml:"ygoprodeck"`
	Images     Images     `yaml:"images" toml:"images"`
	Storage    Storage    `yaml:"storage" toml:"storage"`
	Database   Database   `yaml:"database" toml:"database"`
}

type Database struct {
	Host           string `yaml:"host" toml:"host"`
	Port           string `yaml:"port" toml:"port"`
	Database       string `yaml:"database" toml:"database"`
	Username       string `yaml:"username" toml:"username"`
	Password       string `yaml:"password" toml:"password"`
	MaxConnections int32  `yaml:"maxConnections" toml:"maxConnections"`
}

func (d Database) ConnectionURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s/%s", d.Username, d.Password, net.JoinHostPort(d.Host, d.Port), d.Database)
}

func (d Database) MaxConnectionsOrDefault() int32 {
	if d.MaxConnections == 0 {
		return cpuCountOr(4)
	}

	return d.MaxConnections
}

type Logging struct {
	Level string `yaml:"level" toml:"level"`
}

func (l Logging) LevelOrDefault() string {
	level := strings.TrimSpace(l.Level)
	if level == "" {
		level = "INFO"
	}

	return strings.ToLower(level)
}

// Ygoprodeck Settings of the card database API.
type Ygoprodeck struct {
	BaseURL string     `yaml:"baseUrl" toml:"baseUrl"`
	Client  web.Config `yaml:"client" toml:"client"`
}

// EnsureBaseURL returns rawURL unchanged if it is absolute, otherwise it is resolved against the base url.
func (y Ygoprodeck) EnsureBaseURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid url %s, %w", rawURL, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}

	baseURL := strings.TrimSpace(y.BaseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	base, err := url.Parse(strings.TrimSuffix(baseURL, "/") + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base url %s, %w", baseURL, err)
	}

	return base.ResolveReference(&url.URL{Path: strings.TrimPrefix(u.Path, "/"), RawQuery: u.RawQuery}).String(), nil
}

// Images Settings of the image import.
type Images struct {
	Workers int `yaml:"workers" toml:"workers"`
}

func (i Images) WorkersOrDefault() int {
	if i.Workers <= 0 {
		return int(cpuCountOr(4))
	}

	return i.Workers
}

const (
	REPLACE = "REPLACE"
	CREATE  = "CREATE"
)

type Storage struct {
	Location string `yaml:"location" toml:"location"`
	Mode     string `yaml:"mode" toml:"mode"`
}

func cpuCountOr(defaultSize int32) int32 {
	numCPU := runtime.NumCPU()
	if numCPU <= 0 || numCPU > math.MaxInt32 {
		panic("unsupported cpu count > maxInt32 or cpu count <= 0")
	}
	// #nosec G115 false positiv. This bug is fixed in latest gosec but not in golangci
	nCPU := int32(numCPU)
	if nCPU > defaultSize {
		return nCPU
	}

	return defaultSize
}

// Load reads the config file. Files with the extension .toml are read as TOML, all other files as YAML.
func Load(path string) (*Config, error) {
	s, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if s.IsDir() {
		return nil, fmt.Errorf("'%s' is a directory, not a regular file", path)
	}

	return buildConfig(path)
}

func buildConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("can't read config file: %w", err)
	}

	config := &Config{}

	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, config)
	} else {
		err = yaml.Unmarshal(data, config)
	}
	if err != nil {
		return nil, fmt.Errorf("config unmarshal failed with: %w", err)
	}

	if config.Ygoprodeck.BaseURL == "" {
		config.Ygoprodeck.BaseURL = DefaultBaseURL
	}

	return config, nil
}
