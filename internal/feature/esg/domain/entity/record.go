// Package entity defines the domain models for the esg feature.
package entity

// Column names of the ESG scoring dataset. They match the headers of the
// upstream dataset and of the CSV export.
const (
	ColumnCompany         = "Company"
	ColumnTicker          = "Ticker"
	ColumnPeerGroupRoot   = "Peer_group_root"
	ColumnRegion          = "Region"
	ColumnCountry         = "Country"
	ColumnTotalESGScore   = "total_esg_score"
	ColumnGovernanceScore = "governance_score"
)

// Columns lists the dataset schema in export order.
var Columns = []string{
	ColumnCompany,
	ColumnTicker,
	ColumnPeerGroupRoot,
	ColumnRegion,
	ColumnCountry,
	ColumnTotalESGScore,
	ColumnGovernanceScore,
}

// CategoricalColumns are the columns a user can filter the dashboard by,
// in the order the selection controls are shown.
var CategoricalColumns = []string{
	ColumnCompany,
	ColumnPeerGroupRoot,
	ColumnRegion,
	ColumnCountry,
}

// Record represents one row of the ESG scoring dataset.
// A nil score is a missing value in the source and is left out of every aggregate.
type Record struct {
	Company         string   `json:"Company"`          // Company name, effectively unique per row
	Ticker          string   `json:"Ticker"`           // Exchange ticker (e.g., "AAPL")
	PeerGroupRoot   string   `json:"Peer_group_root"`  // Industry peer group
	Region          string   `json:"Region"`           // Geographic region
	Country         string   `json:"Country"`          // Country of domicile
	TotalESGScore   *float64 `json:"total_esg_score"`  // Composite ESG score, 0-100 expected
	GovernanceScore *float64 `json:"governance_score"` // Governance sub-score, 0-100 expected
}

// Score returns a pointer to v for the score fields of Record.
func Score(v float64) *float64 {
	return &v
}

// Key identifies the row by (Company, Ticker), the natural key of the dataset.
func (r Record) Key() string {
	return r.Company + "\x00" + r.Ticker
}

// Value returns the record's value for a string column.
// The second result is false when column is not a string column of the schema.
func (r Record) Value(column string) (string, bool) {
	switch column {
	case ColumnCompany:
		return r.Company, true
	case ColumnTicker:
		return r.Ticker, true
	case ColumnPeerGroupRoot:
		return r.PeerGroupRoot, true
	case ColumnRegion:
		return r.Region, true
	case ColumnCountry:
		return r.Country, true
	default:
		return "", false
	}
}
