package receipt

import "testing"

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		ok   bool
	}{
		{"12.99", 1299, true},
		{"$12.99", 1299, true},
		{"1,234.56", 123456, true},
		{"5", 500, true},
		{"$ 0.80", 80, true},
		{"", 0, false},
		{"total", 0, false},
		{"-4.50", -450, true},
	}
	for _, tc := range cases {
		got, ok := ParseAmount(tc.in)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseAmount(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"January 15, 2024", "2024-01-15"},
		{"Jan 2, 2024", "2024-01-02"},
		{"15 January 2024", "2024-01-15"},
		{"01/15/2024", "2024-01-15"},
		{"12/25/23", "2023-12-25"},
		{"2024-01-15", "2024-01-15"},
	}
	for _, tc := range cases {
		got, ok := ParseDate(tc.in)
		if !ok || got != tc.want {
			t.Errorf("ParseDate(%q) = %q, %v; want %q", tc.in, got, ok, tc.want)
		}
	}

	if _, ok := ParseDate("not a date"); ok {
		t.Error("ParseDate accepted garbage")
	}
}

func TestNormalizeMerchantIdempotent(t *testing.T) {
	cases := []string{
		"  Blue Bottle Coffee  ",
		"AMAZON.COM*1X2Y3Z",
		"Uber - SFO to Home",
		"already normalized",
	}
	for _, in := range cases {
		once := NormalizeMerchant(in)
		twice := NormalizeMerchant(once)
		if once != twice {
			t.Errorf("NormalizeMerchant not idempotent for %q: %q != %q", in, once, twice)
		}
	}

	if got := NormalizeMerchant("  Blue-Bottle  COFFEE! "); got != "bluebottle coffee" {
		t.Errorf("NormalizeMerchant = %q", got)
	}
}

func TestSourceHashIgnoresItemsProviderConfidence(t *testing.T) {
	a := NewTransaction("Blue Bottle Coffee", 1080, "2024-01-15", "generic")
	a.Confidence = 0.5

	b := NewTransaction("  blue bottle COFFEE ", 1080, "2024-01-15", "receipt_photo")
	b.Confidence = 0.8
	b.Items = []Item{NewItem("Latte", 2, 540)}

	if a.SourceHash() != b.SourceHash() {
		t.Error("hashes differ for same (merchant, amount, date)")
	}

	c := NewTransaction("Blue Bottle Coffee", 1081, "2024-01-15", "generic")
	if a.SourceHash() == c.SourceHash() {
		t.Error("hash collision across differing amounts")
	}

	d := NewTransaction("Blue Bottle Coffee", 1080, "2024-01-16", "generic")
	if a.SourceHash() == d.SourceHash() {
		t.Error("hash collision across differing dates")
	}
}

func TestNewItemTotalPrice(t *testing.T) {
	item := NewItem("Latte", 3, 525)
	if item.TotalPriceCents != 1575 {
		t.Errorf("TotalPriceCents = %d, want 1575", item.TotalPriceCents)
	}
}
