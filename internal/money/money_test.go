package money

import "testing"

func TestFormat(t *testing.T) {
	cases := []struct {
		amount int64
		want   string
	}{
		{0, "0"},
		{500, "500"},
		{100000, "100.000"},
		{300000, "300.000"},
		{1250000, "1.250.000"},
	}
	for _, c := range cases {
		if got := Format(c.amount); got != c.want {
			t.Errorf("Format(%d) = %q, want %q", c.amount, got, c.want)
		}
	}
}
