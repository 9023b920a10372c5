package ui

// The report types below mirror the pipeline structs so that ui never
// imports the pipeline packages; internal/logging already imports ui.

// KPIView is the headline block of a summary.
type KPIView struct {
	Rows              int
	TotalBusinesses   int
	TotalWorkforce    int
	AvgFormalPct      float64
	AvgDigitalPct     float64
	AvgFinancingPct   float64
	TotalRevenue      float64
	AvgMonthlyRevenue float64
}

// YoYView compares the two latest years. Available is false when the
// dataset holds a single year.
type YoYView struct {
	Available      bool
	PreviousYear   int
	CurrentYear    int
	BusinessGrowth float64
	FormalGrowth   float64
	DigitalGrowth  float64
	RevenueGrowth  float64
}

// PriorityRow is one ranked sub-district.
type PriorityRow struct {
	Rank           int
	SubDistrict    string
	District       string
	Year           int
	DominantSector string
	Score          float64

	Poverty      float64
	Unemployment float64
	Density      float64
	Readiness    float64
}

// DecisionView is the selected policy of a summary.
type DecisionView struct {
	Method     string
	Selected   string
	Score      float64
	Confidence string
	KeyInsight string
}

// RoleCard is one evaluated stakeholder KPI.
type RoleCard struct {
	Role    string
	Label   string
	Display string
}

// SummaryReport is everything SummaryUI renders.
type SummaryReport struct {
	Source       string
	Scope        string
	SelectedYear int
	KPI          KPIView
	YoY          YoYView
	Top          []PriorityRow
	Insights     []string
	Choice       string
	Reason       string
	FocusAreas   []string
	Decision     DecisionView
	Roles        []RoleCard
}

// GroupRow is one row of an aggregation table.
type GroupRow struct {
	Label           string
	Year            int
	Rows            int
	SubDistricts    int
	TotalBusinesses int
	TotalWorkforce  int
	AvgDensity      float64
	AvgFormalPct    float64
	AvgDigitalPct   float64
	TotalRevenue    float64
	DominantSector  string
}

// AggregateReport is an aggregation by one dimension.
type AggregateReport struct {
	Dimension string
	Groups    []GroupRow
}

// RankingRow is a scored entry rendered as a bar on a 0-100 scale.
type RankingRow struct {
	Rank   int
	Label  string
	Score  float64
	Detail string
	Notes  []string
}

// RankingReport is a titled list of scored entries.
type RankingReport struct {
	Title   string
	Method  string
	Entries []RankingRow
}
