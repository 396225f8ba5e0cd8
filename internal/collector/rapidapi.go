package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StonksPoller/internal/model"
)

// Defaults for the RealStonks endpoint on RapidAPI.
const (
	DefaultBaseURL = "https://realstonks.p.rapidapi.com"
	DefaultHost    = "realstonks.p.rapidapi.com"
)

// RapidAPIFetcher implements Fetcher against a RapidAPI-hosted quote endpoint.
type RapidAPIFetcher struct {
	BaseURL string
	Host    string
	APIKey  string
	Client  *http.Client
}

// NewRapidAPIFetcher creates a fetcher with optional proxy support.
// A zero timeout leaves requests unbounded.
func NewRapidAPIFetcher(baseURL, host, apiKey, proxyURL string, timeout time.Duration) *RapidAPIFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if host == "" {
		host = DefaultHost
	}
	return &RapidAPIFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Host:    host,
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

func (f *RapidAPIFetcher) Name() string { return "rapidapi" }

// Fetch returns the JSON object served for symbol without interpreting it.
func (f *RapidAPIFetcher) Fetch(ctx context.Context, symbol model.Symbol) (map[string]any, error) {
	endpoint := f.BaseURL + "/" + url.PathEscape(string(symbol))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Err: err}
	}
	req.Header.Set("X-RapidAPI-Key", f.APIKey)
	req.Header.Set("X-RapidAPI-Host", f.Host)

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, StatusCode: resp.StatusCode, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{Symbol: symbol, StatusCode: resp.StatusCode}
	}

	fields, err := decodeObject(body)
	if err != nil {
		return nil, &FetchError{Symbol: symbol, StatusCode: resp.StatusCode, Err: err}
	}
	return fields, nil
}

// decodeObject parses a flat JSON object, keeping numbers as json.Number.
func decodeObject(body []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode body: %w", err)
	}
	if dec.More() {
		return nil, fmt.Errorf("decode body: trailing data")
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	if len(obj) == 0 {
		return nil, ErrEmptyRecord
	}
	return obj, nil
}
