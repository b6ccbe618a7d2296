package availability

import "fmt"

// Stats summarizes one matching pass. MatchRate is a percentage with two
// decimals, serialized as a string for the dashboard.
type Stats struct {
	TotalExternalProducts int    `json:"totalExternalProducts"`
	TotalCatalogProducts  int    `json:"totalCatalogProducts"`
	MatchedProducts       int    `json:"matchedProducts"`
	UnmatchedProducts     int    `json:"unmatchedProducts"`
	MatchRate             string `json:"matchRate"`
}

// Report is the availability response document.
type Report struct {
	Success bool          `json:"success"`
	Results []MatchResult `json:"results"`
	Stats   Stats         `json:"stats"`
}

// BuildReport assembles the response document from a session's accumulated
// state. Unmatched products are counted but not echoed individually.
func BuildReport(session *MatchSession) Report {
	results := session.Results()
	if results == nil {
		results = []MatchResult{}
	}

	return Report{
		Success: true,
		Results: results,
		Stats: Stats{
			TotalExternalProducts: session.TotalExternal(),
			TotalCatalogProducts:  session.CatalogSeen(),
			MatchedProducts:       len(results),
			UnmatchedProducts:     session.Unmatched(),
			MatchRate:             matchRate(len(results), session.TotalExternal()),
		},
	}
}

// matchRate formats matched/total as a percentage. A zero total reports
// "0.00" instead of dividing by zero.
func matchRate(matched, total int) string {
	if total == 0 {
		return "0.00"
	}

	return fmt.Sprintf("%.2f", float64(matched)/float64(total)*100)
}
