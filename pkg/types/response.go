// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// QueryResponse is the output envelope for one processed query. Callers
// always receive one; Success is false only when a collaborator call
// failed outright. A parse that degraded or a filter that matched nothing
// still produces Success=true with explanatory Warnings or Summary text.
type QueryResponse struct {
	Success       bool               `json:"success" yaml:"success"`
	ParsedRequest *ParsedUserRequest `json:"parsed_request,omitempty" yaml:"parsed_request,omitempty"`

	// Results is the filtered, ranked, truncated item list, in rank order.
	Results    []ClassifiedVideo `json:"results,omitempty" yaml:"results,omitempty"`
	TotalFound int               `json:"total_found" yaml:"total_found"`

	// ProcessingTime is the end-to-end duration in seconds.
	ProcessingTime float64 `json:"processing_time" yaml:"processing_time"`

	Summary        string `json:"summary,omitempty" yaml:"summary,omitempty"`
	DetailedReport string `json:"detailed_report,omitempty" yaml:"detailed_report,omitempty"`

	Warnings     []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	ErrorMessage string   `json:"error_message,omitempty" yaml:"error_message,omitempty"`
}
