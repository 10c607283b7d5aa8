// Package dto defines data transfer objects for the datasets-server API responses.
package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// RowsResponse represents the JSON response from the datasets-server rows endpoint.
type RowsResponse struct {
	Features []struct {
		FeatureIdx int    `json:"feature_idx"`
		Name       string `json:"name"`
	} `json:"features"`
	Rows []struct {
		RowIdx         int      `json:"row_idx"`
		Row            Row      `json:"row"`
		TruncatedCells []string `json:"truncated_cells"`
	} `json:"rows"`
	NumRowsTotal   int  `json:"num_rows_total"`
	NumRowsPerPage int  `json:"num_rows_per_page"`
	Partial        bool `json:"partial"`
}

// ErrorResponse is returned by datasets-server with a non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Row is one dataset row keyed by the dataset column names.
type Row struct {
	Company         string    `json:"Company"`
	Ticker          string    `json:"Ticker"`
	PeerGroupRoot   string    `json:"Peer_group_root"`
	Region          string    `json:"Region"`
	Country         string    `json:"Country"`
	TotalESGScore   FlexFloat `json:"total_esg_score"`
	GovernanceScore FlexFloat `json:"governance_score"`
}

// FlexFloat decodes a JSON number or a numeric string.
// null, an empty string or an absent field leave it invalid, which marks a missing score.
type FlexFloat struct {
	Value float64
	Valid bool
}

// Ptr returns the decoded value, or nil when the score is missing.
func (f FlexFloat) Ptr() *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	*f = FlexFloat{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("parse score %q: %w", s, err)
		}
		*f = FlexFloat{Value: v, Valid: true}
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = FlexFloat{Value: v, Valid: true}
	return nil
}
