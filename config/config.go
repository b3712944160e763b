package config

import (
	"fmt"
	"time"
)

type Configs struct {
	Env string `toml:"env"`

	ApiServer ServerConfigs   `toml:"api_server"`
	Database  DatabaseConfigs `toml:"database"`
	Auth      AuthConfigs     `toml:"auth"`
	Jira      JiraConfigs     `toml:"jira"`
	AI        AIConfigs       `toml:"ai"`
	Usage     UsageConfigs    `toml:"usage"`
	Redis     RedisConfigs    `toml:"redis"`
	Storage   S3Configs       `toml:"storage"`
	File      FileConfigs     `toml:"file"`
}

type ServerConfigs struct {
	Host           string        `toml:"host"`
	Port           string        `toml:"port"`
	AllowedOrigins []string      `toml:"allowed_origins"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

func (s ServerConfigs) Address() string {
	return fmt.Sprintf("%s:%s", s.Host, s.Port)
}

type DatabaseConfigs struct {
	Host     string `toml:"host"`
	Port     string `toml:"port"`
	Database string `toml:"database"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

func (d DatabaseConfigs) ConnectionString() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		d.User,
		d.Password,
		d.Host,
		d.Port,
		d.Database,
	)
}

type AuthConfigs struct {
	TokenSecret string       `toml:"token_secret"`
	AccessToken TokenConfigs `toml:"access_token"`

	Google OIDCConfigs `toml:"google"`
}

type TokenConfigs struct {
	Name       string        `toml:"name"`
	Expiration time.Duration `toml:"expiration"`
}

type OIDCConfigs struct {
	Name      string `toml:"name"`
	Issuer    string `toml:"issuer"`
	ClientID  string `toml:"client_id"`
	IDField   string `toml:"id_field"`
	NameField string `toml:"name_field"`
}

// JiraConfigs carries the application-level OAuth client identity for the
// Atlassian cloud. The per-user credentials live in the integrations table.
type JiraConfigs struct {
	ClientID     string        `toml:"client_id"`
	ClientSecret string        `toml:"client_secret"`
	RedirectURI  string        `toml:"redirect_uri"`
	AuthBaseURL  string        `toml:"auth_base_url"`
	APIBaseURL   string        `toml:"api_base_url"`
	Scopes       []string      `toml:"scopes"`
	StateTimeout time.Duration `toml:"state_timeout"`
}

type AIConfigs struct {
	Enabled   bool          `toml:"enabled"`
	DummyMode bool          `toml:"dummy_mode"`
	BaseURL   string        `toml:"base_url"`
	APIKey    string        `toml:"api_key"`
	Model     string        `toml:"model"`
	Timeout   time.Duration `toml:"timeout"`
}

type UsageConfigs struct {
	FreeDailyCap  int           `toml:"free_daily_cap"`
	ProDailyCap   int           `toml:"pro_daily_cap"`
	RateWindow    time.Duration `toml:"rate_window"`
	RatePerWindow int           `toml:"rate_per_window"`
}

type RedisConfigs struct {
	Addr string `toml:"addr"`
}

type S3Configs struct {
	Bucket         string `toml:"bucket"`
	Region         string `toml:"region"`
	Endpoint       string `toml:"endpoint"`
	PublicEndpoint string `toml:"public_endpoint"`
	AccessKey      string `toml:"access_key"`
	SecretKey      string `toml:"secret_key"`
	SSLDisabled    bool   `toml:"ssl_disabled"`
}

type FileConfigs struct {
	MaxMemory int64 `toml:"max_memory"`
	MaxSize   int   `toml:"max_size"`
}
