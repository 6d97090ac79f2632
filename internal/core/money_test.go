package core

import (
	"encoding/json"
	"math"
	"testing"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"35.50", "35.5", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{" 2.50 ", "2.5", true},
		{"5000", "5000", true},
		{"-1", "", false},
		{"-5", "", false},
		{"0", "", false},
		{"0.00", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1,2.3", "", false},
		{"", "", false},
		{"NaN", "", false},
		{"Infinity", "", false},
		{"1e3", "1000", true},
		{"999999999999999", "999999999999999", true},
		{"0.00000001", "0.00000001", true},
		{"1e9999999", "", false},
		{"1e400", "", false},
		{"1000000000000000", "", false},
		{"1e-9999999", "", false},
		{"0.000000001", "", false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyFromFloat(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := MoneyFromFloat(f); err == nil {
			t.Fatalf("%v expected error", f)
		}
	}
	m, err := MoneyFromFloat(12.5)
	if err != nil || m.String() != "12.5" {
		t.Fatalf("unexpected %s err=%v", m, err)
	}
}

func TestMoneyArithmetic(t *testing.T) {
	a, _ := ParseMoney("0.1")
	b, _ := ParseMoney("0.2")
	if sum := a.Add(b); sum.String() != "0.3" {
		t.Fatalf("expected exact 0.3, got %s", sum)
	}
	if diff := a.Sub(b); diff.Cmp(Zero) >= 0 {
		t.Fatalf("expected negative difference, got %s", diff)
	}
	half, _ := ParseMoney("10")
	whole, _ := ParseMoney("40")
	if p := half.PercentOf(whole); p != 25 {
		t.Fatalf("expected 25%%, got %v", p)
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"0", "¥0.00"},
		{"35.5", "¥35.50"},
		{"1234567.891", "¥1,234,567.89"},
		{"999.995", "¥1,000.00"},
		{"-4964.5", "-¥4,964.50"},
	}
	for _, tc := range cases {
		var m Money
		if err := json.Unmarshal([]byte(tc.in), &m); err != nil {
			t.Fatalf("unmarshal %s: %v", tc.in, err)
		}
		if got := m.Format("¥"); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMoneyJSON(t *testing.T) {
	m, _ := ParseMoney("35.50")
	b, err := json.Marshal(m)
	if err != nil || string(b) != "35.5" {
		t.Fatalf("unexpected marshal %s err=%v", b, err)
	}
	var back Money
	if err := json.Unmarshal([]byte(`"35.50"`), &back); err != nil || !back.Equal(m) {
		t.Fatalf("quoted form not accepted: %s err=%v", back, err)
	}
}
