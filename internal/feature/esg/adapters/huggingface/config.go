// Package huggingface provides a client for the Hugging Face datasets-server rows API.
package huggingface

import "time"

// Default values of the public ESG scoring dataset.
const (
	DefaultBaseURL    = "https://datasets-server.huggingface.co"
	DefaultDataset    = "nlp-esg-scoring/spx-sustainalytics-esg-scores"
	DefaultConfigName = "default"
	DefaultSplit      = "train"
	DefaultPageSize   = 100 // upper bound accepted by the rows endpoint
)

// Config holds configuration for the datasets-server client.
type Config struct {
	BaseURL    string        // Base URL for the API (e.g., "https://datasets-server.huggingface.co")
	Dataset    string        // Dataset name on the hub
	ConfigName string        // Dataset config (subset) name
	Split      string        // Split to read (e.g., "train")
	PageSize   int           // Rows requested per page, at most 100
	Token      string        // Optional access token sent as a Bearer header
	Timeout    time.Duration // HTTP request timeout
}

// withDefaults fills unset fields with the defaults of the public dataset.
func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Dataset == "" {
		c.Dataset = DefaultDataset
	}
	if c.ConfigName == "" {
		c.ConfigName = DefaultConfigName
	}
	if c.Split == "" {
		c.Split = DefaultSplit
	}
	if c.PageSize <= 0 || c.PageSize > DefaultPageSize {
		c.PageSize = DefaultPageSize
	}
	return c
}
