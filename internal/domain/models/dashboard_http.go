package models

// Requests for dashboard HTTP endpoints. Defined in domain for consistency and reuse.

type ChartRequest struct {
	Country string `query:"country" json:"country" validate:"required,alphanum,min=2,max=8"`
	Compare string `query:"compare" json:"compare" validate:"omitempty,alphanum,min=2,max=8"`
	Metric  string `query:"metric" json:"metric" default:"life_expectancy" validate:"required"`
}

type ExportRequest struct {
	Country string `query:"country" json:"country" validate:"required,alphanum,min=2,max=8"`
	Compare string `query:"compare" json:"compare" validate:"omitempty,alphanum,min=2,max=8"`
	Metric  string `query:"metric" json:"metric" default:"life_expectancy" validate:"required"`
}

type BundleRequest struct {
	Country string `query:"country" json:"country" validate:"required,alphanum,min=2,max=8"`
}

// SelectRequest mutates the view state. Pointer fields are applied only when
// present so a client can change one selection at a time.
type SelectRequest struct {
	Primary        *string `json:"primary" validate:"omitempty,alphanum,min=2,max=8"`
	Metric         *string `json:"metric"`
	CompareEnabled *bool   `json:"compare_enabled"`
	Compare        *string `json:"compare" validate:"omitempty,alphanum,min=2,max=8"`
}
