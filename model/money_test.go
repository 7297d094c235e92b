package model

import "testing"

func TestParseMoney(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  float64
	}{
		{"float", 12.5, 12.5},
		{"int", 1200, 1200},
		{"int64", int64(99), 99},
		{"numeric string", "1200", 1200},
		{"decimal string", "12.50", 12.5},
		{"comma separator rejected", "12,50", 0},
		{"currency symbol rejected", "$12.50", 0},
		{"negative string rejected", "-5", 0},
		{"scientific notation rejected", "1e3", 0},
		{"garbage", "abc", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseMoney(tt.input); got != tt.want {
				t.Errorf("ParseMoney(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestOrderTotalAmount(t *testing.T) {
	order := &Order{Total: "1500"}
	if got := order.TotalAmount(); got != 1500 {
		t.Errorf("TotalAmount() = %v, want 1500", got)
	}
}
