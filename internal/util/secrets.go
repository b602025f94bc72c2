package util

import (
	"encoding/json"
	"fmt"
	"os"
)

type Secrets struct {
	CoinGeckoApiKey        string   `json:"coingecko"`
	EquitySymbols          []string `json:"equitySymbols"`
	UserDbPath             string   `json:"userDbPath"`
	RefreshIntervalSeconds int      `json:"refreshIntervalSeconds"`
	ApiPort                int      `json:"apiPort"`
}

// DefaultEquitySymbols is the tracked stock universe when secrets.json does
// not override it.
var DefaultEquitySymbols = []string{
	"AAPL", "GOOGL", "MSFT", "TSLA", "AMZN", "NVDA", "META", "NFLX", "AMD", "INTC",
}

func LoadSecrets() (*Secrets, error) {
	secretsFile := "secrets.json"
	if os.Getenv("MARKETDASH_ENV") == "dev" {
		secretsFile = "secrets-dev.json"
	} else if os.Getenv("MARKETDASH_ENV") == "test" {
		secretsFile = "secrets-test.json"
	}

	secrets := Secrets{}
	f, err := os.ReadFile(secretsFile)
	if os.IsNotExist(err) {
		// the CoinGecko demo tier and Yahoo quotes work without keys, so a
		// missing secrets file just means defaults
		secrets.fillDefaults()
		return &secrets, nil
	} else if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", secretsFile, err)
	}

	err = json.Unmarshal(f, &secrets)
	if err != nil {
		return nil, fmt.Errorf("could not parse %s: %w", secretsFile, err)
	}
	secrets.fillDefaults()

	return &secrets, nil
}

func (s *Secrets) fillDefaults() {
	if len(s.EquitySymbols) == 0 {
		s.EquitySymbols = DefaultEquitySymbols
	}
	if s.UserDbPath == "" {
		s.UserDbPath = "marketdash.db"
	}
	if s.RefreshIntervalSeconds <= 0 {
		s.RefreshIntervalSeconds = 30
	}
	if s.ApiPort <= 0 {
		s.ApiPort = 3009
	}
}
