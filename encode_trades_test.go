package ibcapuk

import (
	"strings"
	"testing"
)

func TestDecodeTrades(t *testing.T) {
	data := `security,side,quantity,price,currency,date,fees
VOD,buy,100,10,GBP,2024-01-02,5
AAPL,sell,50,180.25,USD,2024-01-03,1.5
VOD,sell,100,12,GBP,2024-02-01,
`
	trades, err := DecodeTrades(strings.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeTrades() error = %v", err)
	}
	if len(trades) != 3 {
		t.Fatalf("got %d trades, want 3", len(trades))
	}

	want := Trades{
		tr(1, "VOD", Buy, 100, 10, "GBP", "2024-01-02", 5),
		tr(2, "AAPL", Sell, 50, 180.25, "USD", "2024-01-03", 1.5),
		tr(3, "VOD", Sell, 100, 12, "GBP", "2024-02-01", 0),
	}
	for i := range want {
		if !trades[i].Equal(want[i]) {
			t.Errorf("trade %d = %+v, want %+v", i, trades[i], want[i])
		}
		if trades[i].ID != want[i].ID {
			t.Errorf("trade %d ID = %d, want %d", i, trades[i].ID, want[i].ID)
		}
	}
}

func TestDecodeTrades_SortsByDate(t *testing.T) {
	data := `security,side,quantity,price,currency,date,fees
VOD,sell,100,12,GBP,2024-02-01,0
VOD,buy,100,10,GBP,2024-01-02,0
`
	trades, err := DecodeTrades(strings.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeTrades() error = %v", err)
	}
	if trades[0].Side != Buy || trades[1].Side != Sell {
		t.Errorf("trades not in date order: %v then %v", trades[0].Side, trades[1].Side)
	}
	// Sequence numbers still reflect file order.
	if trades[0].ID != 2 || trades[1].ID != 1 {
		t.Errorf("IDs = %d, %d; want 2, 1", trades[0].ID, trades[1].ID)
	}
}

func TestDecodeTrades_SameDayKeepsFileOrder(t *testing.T) {
	data := `security,side,quantity,price,currency,date,fees
VOD,buy,100,10,GBP,2024-01-02,0
VOD,sell,100,12,GBP,2024-01-02,0
`
	trades, err := DecodeTrades(strings.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeTrades() error = %v", err)
	}
	if trades[0].Side != Buy || trades[1].Side != Sell {
		t.Errorf("same-day trades reordered: %v then %v", trades[0].Side, trades[1].Side)
	}
}

func TestDecodeTrades_DropsDuplicateRows(t *testing.T) {
	data := `security,side,quantity,price,currency,date,fees
VOD,buy,100,10,GBP,2024-01-02,5
VOD,buy,100,10,GBP,2024-01-02,5
VOD,buy,100,10,GBP,2024-01-03,5
`
	trades, err := DecodeTrades(strings.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeTrades() error = %v", err)
	}
	// Identical rows collapse, a different date does not.
	if len(trades) != 2 {
		t.Errorf("got %d trades, want 2", len(trades))
	}
}

func TestDecodeTrades_Malformed(t *testing.T) {
	header := "security,side,quantity,price,currency,date,fees\n"
	testCases := []struct {
		name string
		data string
	}{
		{name: "empty file", data: ""},
		{name: "wrong header", data: "ticker,side,qty,price,ccy,date,fees\nVOD,buy,100,10,GBP,2024-01-02,0\n"},
		{name: "unknown side", data: header + "VOD,short,100,10,GBP,2024-01-02,0\n"},
		{name: "zero quantity", data: header + "VOD,buy,0,10,GBP,2024-01-02,0\n"},
		{name: "negative quantity", data: header + "VOD,buy,-100,10,GBP,2024-01-02,0\n"},
		{name: "negative price", data: header + "VOD,buy,100,-10,GBP,2024-01-02,0\n"},
		{name: "negative fees", data: header + "VOD,buy,100,10,GBP,2024-01-02,-5\n"},
		{name: "bad date", data: header + "VOD,buy,100,10,GBP,02/01/2024,0\n"},
		{name: "unknown currency", data: header + "VOD,buy,100,10,ZZZ,2024-01-02,0\n"},
		{name: "missing security", data: header + ",buy,100,10,GBP,2024-01-02,0\n"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := DecodeTrades(strings.NewReader(tc.data)); err == nil {
				t.Errorf("DecodeTrades() accepted %q", tc.data)
			}
		})
	}
}

func TestEncodeTradesRoundTrip(t *testing.T) {
	trades := Trades{
		tr(1, "VOD", Buy, 100, 10, "GBP", "2024-01-02", 5),
		tr(2, "AAPL", Sell, 50, 180.25, "USD", "2024-01-03", 0),
	}

	var b strings.Builder
	if err := EncodeTrades(&b, trades); err != nil {
		t.Fatalf("EncodeTrades() error = %v", err)
	}
	decoded, err := DecodeTrades(strings.NewReader(b.String()))
	if err != nil {
		t.Fatalf("DecodeTrades() error = %v", err)
	}
	if len(decoded) != len(trades) {
		t.Fatalf("got %d trades, want %d", len(decoded), len(trades))
	}
	for i := range trades {
		if !decoded[i].Equal(trades[i]) {
			t.Errorf("trade %d = %+v, want %+v", i, decoded[i], trades[i])
		}
	}
}

func TestEncodeHoldings(t *testing.T) {
	holdings := []Holding{
		{Security: "VOD", Quantity: Q(80), Cost: GBP(640)},
	}
	var b strings.Builder
	if err := EncodeHoldings(&b, holdings); err != nil {
		t.Fatalf("EncodeHoldings() error = %v", err)
	}
	want := "security,quantity,cost,currency,average\nVOD,80,640,GBP,8\n"
	if b.String() != want {
		t.Errorf("EncodeHoldings() = %q, want %q", b.String(), want)
	}
}
