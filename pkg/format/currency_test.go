package format

import "testing"

func TestSalary(t *testing.T) {
	amount := func(v float64) *float64 { return &v }

	tests := []struct {
		name   string
		salary *float64
		want   string
	}{
		{name: "missing salary renders N/A", salary: nil, want: "N/A"},
		{name: "zero is a real value, not N/A", salary: amount(0), want: "$0.00"},
		{name: "thousands are grouped", salary: amount(52000), want: "$52,000.00"},
		{name: "cents are kept", salary: amount(1234.5), want: "$1,234.50"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Salary(tt.salary); got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
