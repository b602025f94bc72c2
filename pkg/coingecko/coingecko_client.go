package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strconv"
	"strings"
)

const defaultBaseUrl = "https://api.coingecko.com"

type Client struct {
	HttpClient *http.Client
	ApiKey     string
	// BaseUrl overrides the CoinGecko host, mainly for tests
	BaseUrl string
}

// Percent tolerates the three shapes CoinGecko-style feeds use for change
// fields: a plain number, null, or a string with a trailing "%".
type Percent float64

func (p *Percent) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*p = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		raw = strings.TrimSuffix(strings.TrimSpace(raw), "%")
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("failed to parse percent %q: %w", raw, err)
		}
		*p = Percent(v)
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("failed to parse percent %q: %w", s, err)
	}
	*p = Percent(v)
	return nil
}

type Sparkline struct {
	Price []float64 `json:"price"`
}

type MarketRecord struct {
	ID               string     `json:"id"`
	Symbol           string     `json:"symbol"`
	Name             string     `json:"name"`
	CurrentPrice     float64    `json:"current_price"`
	ChangePercent24h Percent    `json:"price_change_percentage_24h"`
	MarketCap        float64    `json:"market_cap"`
	TotalVolume      float64    `json:"total_volume"`
	Image            string     `json:"image"`
	Sparkline7d      *Sparkline `json:"sparkline_in_7d"`
}

// Markets returns the top coins by market cap with 24h change and a 7 day
// sparkline, matching /api/v3/coins/markets.
func (c Client) Markets(ctx context.Context) ([]MarketRecord, error) {
	baseUrl := c.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}
	url := fmt.Sprintf(
		"%s/api/v3/coins/markets?vs_currency=usd&order=market_cap_desc&per_page=50&page=1&sparkline=true&price_change_percentage=24h",
		baseUrl,
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.ApiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.ApiKey)
	}

	httpClient := c.HttpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	response, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}

	if response.StatusCode != http.StatusOK {
		type errResponse struct {
			Error string `json:"error"`
		}
		errJson := errResponse{}
		if err := json.Unmarshal(responseBytes, &errJson); err != nil || errJson.Error == "" {
			return nil, fmt.Errorf("coingecko markets failed with status code %d", response.StatusCode)
		}
		return nil, fmt.Errorf("coingecko markets failed with status code %d: %s", response.StatusCode, errJson.Error)
	}

	records := []MarketRecord{}
	err = json.Unmarshal(responseBytes, &records)
	if err != nil {
		return nil, fmt.Errorf("failed to parse markets response: %w", err)
	}

	return records, nil
}

type usdValue float64

// CoinGecko nests per-currency figures as {"usd": 123, "eur": ...}; only the
// usd leg is kept.
func (v *usdValue) UnmarshalJSON(data []byte) error {
	values := map[string]float64{}
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*v = usdValue(values["usd"])
	return nil
}

type CoinMarketData struct {
	CurrentPrice      usdValue   `json:"current_price"`
	MarketCap         usdValue   `json:"market_cap"`
	TotalVolume       usdValue   `json:"total_volume"`
	ChangePercent24h  Percent    `json:"price_change_percentage_24h"`
	ChangePercent7d   Percent    `json:"price_change_percentage_7d"`
	ChangePercent30d  Percent    `json:"price_change_percentage_30d"`
	Ath               usdValue   `json:"ath"`
	Atl               usdValue   `json:"atl"`
	CirculatingSupply float64    `json:"circulating_supply"`
	TotalSupply       float64    `json:"total_supply"`
	MaxSupply         float64    `json:"max_supply"`
	Sparkline7d       *Sparkline `json:"sparkline_7d"`
}

type CoinDetailRecord struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	Name        string `json:"name"`
	Description struct {
		En string `json:"en"`
	} `json:"description"`
	Image struct {
		Large string `json:"large"`
		Small string `json:"small"`
	} `json:"image"`
	Categories []string        `json:"categories"`
	MarketData *CoinMarketData `json:"market_data"`
}

// CoinDetail returns the rich per-coin record from /api/v3/coins/{id}:
// description, ath/atl, supply figures, 7d/30d change, 7d sparkline.
func (c Client) CoinDetail(ctx context.Context, id string) (*CoinDetailRecord, error) {
	baseUrl := c.BaseUrl
	if baseUrl == "" {
		baseUrl = defaultBaseUrl
	}
	url := fmt.Sprintf(
		"%s/api/v3/coins/%s?localization=false&tickers=false&market_data=true&community_data=false&developer_data=false&sparkline=true",
		baseUrl,
		neturl.PathEscape(id),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.ApiKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.ApiKey)
	}

	httpClient := c.HttpClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	response, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	responseBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("received status code %d and failed to read body: %w", response.StatusCode, err)
	}

	if response.StatusCode != http.StatusOK {
		type errResponse struct {
			Error string `json:"error"`
		}
		errJson := errResponse{}
		if err := json.Unmarshal(responseBytes, &errJson); err != nil || errJson.Error == "" {
			return nil, fmt.Errorf("coingecko coin detail for %s failed with status code %d", id, response.StatusCode)
		}
		return nil, fmt.Errorf("coingecko coin detail for %s failed with status code %d: %s", id, response.StatusCode, errJson.Error)
	}

	record := CoinDetailRecord{}
	err = json.Unmarshal(responseBytes, &record)
	if err != nil {
		return nil, fmt.Errorf("failed to parse coin detail response: %w", err)
	}

	return &record, nil
}
