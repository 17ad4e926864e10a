// Package schema defines the expected column layout of each upload type.
package schema

// ProviderExpectedColumns is the ordered column list of a provider upload.
var ProviderExpectedColumns = []string{
	"provider_name",
	"specialty",
	"division",
	"total_fte",
	"clinical_fte",
	"admin_fte",
	"research_fte",
	"teaching_fte",
	"base_salary",
	"productivity_incentive",
	"quality_incentive",
	"other_comp",
	"work_rvus",
	"panel_size",
	"model_type",
}

// MarketExpectedColumns is the ordered column list of a market survey upload.
var MarketExpectedColumns = []string{
	"specialty",
	"provider_type",
	"region",
	"tcc_p25",
	"tcc_p50",
	"tcc_p75",
	"tcc_p90",
	"wrvu_p25",
	"wrvu_p50",
	"wrvu_p75",
	"wrvu_p90",
}

// Provider returns a copy of ProviderExpectedColumns.
func Provider() []string {
	return append([]string(nil), ProviderExpectedColumns...)
}

// Market returns a copy of MarketExpectedColumns.
func Market() []string {
	return append([]string(nil), MarketExpectedColumns...)
}
