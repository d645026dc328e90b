package internal

type MatchKind string

const (
	MatchGood      MatchKind = "GOOD"
	MatchPending   MatchKind = "PENDING"
	MatchDuplicate MatchKind = "DUPLICATE"
	MatchUnmatched MatchKind = "UNMATCHED"
)

const PendingStatus = "pending"

// UnitEligible is the only master-catalog unit that participates in matching.
const UnitEligible = "UNIDAD"

type PriceRecord struct {
	Code        string
	Description string
	Price       float64
	Row         []string
}

type MasterRecord struct {
	Product string
	Unit    string
	Cost    float64
	Row     []string
}

type ConfirmedMatch struct {
	ID         int64   `json:"id"`
	ProductA   string  `json:"productA"`
	ProductB   string  `json:"productB"`
	PriceA     float64 `json:"priceA"`
	PriceB     float64 `json:"priceB"`
	Similarity float64 `json:"similarity"`
}

type PendingMatch struct {
	ID         int64   `json:"id"`
	ProductA   string  `json:"productA"`
	ProductB   string  `json:"productB"`
	PriceA     float64 `json:"priceA"`
	PriceB     float64 `json:"priceB"`
	Similarity float64 `json:"similarity"`
	Status     string  `json:"status"`
}

// MatchOutcome is what one master record resolved to within a run.
// ProductA is always the price-list side, ProductB the master side.
type MatchOutcome struct {
	Kind       MatchKind `json:"kind"`
	ProductA   string    `json:"productA"`
	ProductB   string    `json:"productB"`
	PriceA     float64   `json:"priceA"`
	PriceB     float64   `json:"priceB"`
	Similarity float64   `json:"similarity"`
}

type RunCounts struct {
	Matched     int `json:"matched"`
	Pending     int `json:"pending"`
	Duplicates  int `json:"duplicates"`
	Unmatched   int `json:"unmatched"`
	SkippedUnit int `json:"skippedUnit"`
}

// RunResult carries everything a caller needs after a reconciliation run:
// categorized outcomes, counters, the cost replacements to merge into the
// master export, and the per-pair grouping keys used to color matched rows.
type RunResult struct {
	TraceID    string
	Counts     RunCounts
	Good       []MatchOutcome
	Pending    []MatchOutcome
	Duplicates []MatchOutcome

	// CostByProduct maps the raw master product text to its refreshed cost.
	CostByProduct map[string]float64
	// GroupKeys lists normalized productA/productB pairs in confirmation
	// order; entries sharing an index share an export fill color.
	GroupKeys [][2]string
}

type RunRow struct {
	ID        int64
	TraceID   string
	CountsRaw string
	CreatedAt string
}
