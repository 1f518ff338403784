// Package config loads and validates the pipeline's YAML configuration,
// grounded on the teacher's internal/pkg/config/config.go Load shape
// (os.ReadFile + yaml.v3.Unmarshal). Secrets (API token, bot tokens) may
// be supplied via a .env file loaded with godotenv, following the same
// "config for shape, env for secrets" split the example pack uses.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full set of recognized options from spec §6.
type Config struct {
	APIBase  string `yaml:"api_base"`
	APIToken string `yaml:"api_token"`
	HTTPAddr string `yaml:"http_addr"`

	APIBookmakers   []string `yaml:"api_bookmakers"`
	SharpBookmakers []string `yaml:"sharp_bookmakers"`
	TargetBookies   []string `yaml:"target_bookies"`

	BookmakerChannels map[string]string `yaml:"bookmaker_channels"`

	MinOdds   float64 `yaml:"min_odds"`
	MaxOdds   float64 `yaml:"max_odds"`
	MinProfit float64 `yaml:"min_profit"`
	MaxProfit float64 `yaml:"max_profit"`

	PollingBaseInterval time.Duration `yaml:"polling_base_interval"`
	PollingMaxInterval  time.Duration `yaml:"polling_max_interval"`

	ConcurrentPicks    int `yaml:"concurrent_picks"`
	DispatcherMaxQueue int `yaml:"dispatcher_max_queue"`

	HTMLCacheTTL        time.Duration `yaml:"html_cache_ttl"`
	HTMLCacheMaxEntries int           `yaml:"html_cache_max_entries"`

	BotTokens []string `yaml:"bot_tokens"`

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// defaults mirror spec §4 constants: 0.5s/5s poller bounds, 60s/unspecified
// cache TTL, 1000-entry dispatcher queue, 250-way fan-out.
func (c *Config) applyDefaults() {
	if c.MinOdds == 0 {
		c.MinOdds = 1.10
	}
	if c.MaxOdds == 0 {
		c.MaxOdds = 9.99
	}
	if c.MaxProfit == 0 {
		c.MaxProfit = 25.0
	}
	if c.PollingBaseInterval == 0 {
		c.PollingBaseInterval = 500 * time.Millisecond
	}
	if c.PollingMaxInterval == 0 {
		c.PollingMaxInterval = 5 * time.Second
	}
	if c.ConcurrentPicks == 0 {
		c.ConcurrentPicks = 250
	}
	if c.DispatcherMaxQueue == 0 {
		c.DispatcherMaxQueue = 1000
	}
	if c.HTMLCacheTTL == 0 {
		c.HTMLCacheTTL = 60 * time.Second
	}
	if c.HTMLCacheMaxEntries == 0 {
		c.HTMLCacheMaxEntries = 4096
	}
	if c.HTTPAddr == "" {
		c.HTTPAddr = ":8080"
	}
}

// Load reads configPath, overlays secrets from envPath (if it exists;
// a missing .env is not an error, matching godotenv's own idiom of
// being safely optional in production), applies defaults, and
// validates the result.
func Load(configPath, envPath string) (*Config, error) {
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: loading env overlay: %w", err)
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("config: reading config file: %w", err)
	}

	// Expand ${VAR} placeholders (e.g. the token entries in
	// configs/production.yaml) from the environment, .env overlay included.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing config file: %w", err)
	}

	if tok := os.Getenv("SUREPULSE_API_TOKEN"); tok != "" {
		cfg.APIToken = tok
	}
	if tok := os.Getenv("SUREPULSE_BOT_TOKENS"); tok != "" {
		cfg.BotTokens = splitNonEmpty(tok, ',')
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field invariants, collecting every violation
// via go-multierror rather than stopping at the first one, so an
// operator fixing a broken config file sees every problem in one pass.
func (c *Config) Validate() error {
	var errs *multierror.Error

	if c.APIBase == "" {
		errs = multierror.Append(errs, fmt.Errorf("api_base is required"))
	}
	if c.APIToken == "" {
		errs = multierror.Append(errs, fmt.Errorf("api_token is required"))
	}
	if len(c.SharpBookmakers) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("sharp_bookmakers must name at least one bookmaker"))
	}
	if len(c.TargetBookies) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("target_bookies must name at least one bookmaker"))
	}
	if len(c.BotTokens) == 0 {
		errs = multierror.Append(errs, fmt.Errorf("bot_tokens must list at least one token"))
	}

	apiSet := toSet(c.APIBookmakers)
	sharpSet := toSet(c.SharpBookmakers)

	for _, id := range c.SharpBookmakers {
		if _, ok := apiSet[id]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("sharp bookmaker %q is not listed in api_bookmakers", id))
		}
	}
	for _, id := range c.TargetBookies {
		if _, ok := apiSet[id]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("target bookie %q is not listed in api_bookmakers", id))
		}
		if _, ok := sharpSet[id]; ok {
			errs = multierror.Append(errs, fmt.Errorf("target bookie %q also listed as a sharp bookmaker", id))
		}
		if _, ok := c.BookmakerChannels[id]; !ok {
			errs = multierror.Append(errs, fmt.Errorf("target bookie %q has no entry in bookmaker_channels", id))
		}
	}

	if c.MinOdds <= 0 || c.MaxOdds <= c.MinOdds {
		errs = multierror.Append(errs, fmt.Errorf("min_odds/max_odds must satisfy 0 < min_odds < max_odds"))
	}
	if c.MaxProfit <= c.MinProfit {
		errs = multierror.Append(errs, fmt.Errorf("min_profit/max_profit must satisfy min_profit < max_profit"))
	}
	if c.PollingBaseInterval <= 0 || c.PollingMaxInterval < c.PollingBaseInterval {
		errs = multierror.Append(errs, fmt.Errorf("polling_base_interval/polling_max_interval must satisfy 0 < base <= max"))
	}

	return errs.ErrorOrNil()
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func splitNonEmpty(s string, sep byte) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == sep {
			if s[start:i] != "" {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if s[start:] != "" {
		out = append(out, s[start:])
	}
	return out
}
