package ibcapuk

import "testing"

// disp builds a bare disposal for aggregation tests.
func disp(security, on string, proceeds, cost float64) Disposal {
	return Disposal{
		Security: security,
		On:       MustParseDate(on),
		Quantity: Q(1),
		Proceeds: GBP(proceeds),
		Cost:     GBP(cost),
	}
}

func TestTaxYearOf(t *testing.T) {
	testCases := []struct {
		on   string
		want TaxYear
	}{
		{"2025-04-05", 2024}, // last day of 2024/25
		{"2025-04-06", 2025}, // first day of 2025/26
		{"2024-12-31", 2024},
		{"2025-01-01", 2024},
		{"2024-04-06", 2024},
	}
	for _, tc := range testCases {
		if got := TaxYearOf(MustParseDate(tc.on)); got != tc.want {
			t.Errorf("TaxYearOf(%s) = %v, want %v", tc.on, got, tc.want)
		}
	}
}

func TestTaxYearString(t *testing.T) {
	testCases := []struct {
		year TaxYear
		want string
	}{
		{2024, "2024/25"},
		{2009, "2009/10"},
		{1999, "1999/00"},
	}
	for _, tc := range testCases {
		if got := tc.year.String(); got != tc.want {
			t.Errorf("TaxYear(%d).String() = %q, want %q", tc.year, got, tc.want)
		}
	}
}

func TestTaxYearRange(t *testing.T) {
	r := TaxYear(2024).Range()
	if got, want := r.From.String(), "2024-04-06"; got != want {
		t.Errorf("range starts %s, want %s", got, want)
	}
	if got, want := r.To.String(), "2025-04-05"; got != want {
		t.Errorf("range ends %s, want %s", got, want)
	}
}

func TestAnnualExemptAmount(t *testing.T) {
	if got := AnnualExemptAmount(2023); !got.Equal(GBP(6000)) {
		t.Errorf("allowance for 2023/24 = %s, want %s", got, GBP(6000))
	}
	if got := AnnualExemptAmount(2024); !got.Equal(GBP(3000)) {
		t.Errorf("allowance for 2024/25 = %s, want %s", got, GBP(3000))
	}
	if got := AnnualExemptAmount(2010); !got.IsZero() {
		t.Errorf("allowance for an unlisted year = %s, want 0", got)
	}
}

func TestNewTaxYearReport(t *testing.T) {
	disposals := []Disposal{
		disp("VOD", "2024-06-01", 10000, 5000), // gain 5000
		disp("BP.", "2025-01-15", 2000, 3000),  // loss 1000
		disp("VOD", "2023-06-01", 9999, 1),     // previous year, excluded
	}
	report := NewTaxYearReport(2024, disposals, "GBP")

	if len(report.Disposals) != 2 {
		t.Fatalf("bucketed %d disposals, want 2", len(report.Disposals))
	}
	if !report.Proceeds.Equal(GBP(12000)) {
		t.Errorf("proceeds = %s, want %s", report.Proceeds, GBP(12000))
	}
	if !report.Costs.Equal(GBP(8000)) {
		t.Errorf("costs = %s, want %s", report.Costs, GBP(8000))
	}
	if !report.Gains.Equal(GBP(5000)) {
		t.Errorf("gains = %s, want %s", report.Gains, GBP(5000))
	}
	if !report.Losses.Equal(GBP(1000)) {
		t.Errorf("losses = %s, want %s", report.Losses, GBP(1000))
	}
	if !report.Net.Equal(GBP(4000)) {
		t.Errorf("net = %s, want %s", report.Net, GBP(4000))
	}
	if !report.Allowance.Equal(GBP(3000)) {
		t.Errorf("allowance = %s, want %s", report.Allowance, GBP(3000))
	}
	if !report.Taxable.Equal(GBP(1000)) {
		t.Errorf("taxable = %s, want %s", report.Taxable, GBP(1000))
	}
}

func TestNewTaxYearReport_NetLoss(t *testing.T) {
	disposals := []Disposal{
		disp("VOD", "2024-06-01", 1000, 4000),
	}
	report := NewTaxYearReport(2024, disposals, "GBP")

	if !report.Net.Equal(GBP(-3000)) {
		t.Errorf("net = %s, want %s", report.Net, GBP(-3000))
	}
	// Never negative: losses carry forward, they are not refunded.
	if !report.Taxable.IsZero() {
		t.Errorf("taxable = %s, want 0", report.Taxable)
	}
}

func TestNewTaxYearReport_AllowanceIsGBPOnly(t *testing.T) {
	disposals := []Disposal{
		{Security: "AAPL", On: MustParseDate("2024-06-01"), Quantity: Q(1), Proceeds: USD(10000), Cost: USD(4000)},
	}
	report := NewTaxYearReport(2024, disposals, "USD")

	if !report.Allowance.IsZero() {
		t.Errorf("allowance = %s, want 0 outside GBP", report.Allowance)
	}
	if !report.Taxable.Equal(USD(6000)) {
		t.Errorf("taxable = %s, want %s", report.Taxable, USD(6000))
	}
}

func TestTaxYears(t *testing.T) {
	disposals := []Disposal{
		disp("VOD", "2025-06-01", 1, 1),
		disp("VOD", "2023-06-01", 1, 1),
		disp("BP.", "2024-01-01", 1, 1), // still 2023/24
		disp("BP.", "2023-12-01", 1, 1),
	}
	got := TaxYears(disposals)
	want := []TaxYear{2023, 2025}
	if len(got) != len(want) {
		t.Fatalf("TaxYears() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("TaxYears() = %v, want %v", got, want)
		}
	}
}
