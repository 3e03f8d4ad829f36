package services

import (
	"testing"
	"time"

	"khtherapy-backend/models"
)

func fptr(v float64) *float64 { return &v }

func dateOn(weekday time.Weekday) *time.Time {
	// 2025-06-02 is a Monday
	d := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	for d.Weekday() != weekday {
		d = d.AddDate(0, 0, 1)
	}
	return &d
}

func testServices() []models.Service {
	return []models.Service{
		{Name: "Deep Tissue Massage", Price: 65},
		{Name: "Sports Therapy", InHourPrice: fptr(70), OutOfHourPrice: fptr(90)},
		{Name: "Physio Assessment", Price: 50},
	}
}

func TestResolvePriceMatching(t *testing.T) {
	svcs := testServices()

	tests := []struct {
		name        string
		serviceName string
		wantPrice   float64
		wantMatched bool
	}{
		{"exact match", "Deep Tissue Massage", 65, true},
		{"annotation stripped", "Deep Tissue Massage (€65)", 65, true},
		{"annotation with spaces", "Physio Assessment ( €50.00 )", 50, true},
		{"substring booking in service", "Tissue Massage", 65, true},
		{"substring service in booking", "Deep Tissue Massage - with Mary", 65, true},
		{"case-insensitive", "deep tissue massage", 65, true},
		{"no match with euro fallback", "Mystery Treatment (€42)", 42, false},
		{"no match no price", "Mystery Treatment", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePrice(tt.serviceName, nil, "", svcs)
			if got.UnitPrice != tt.wantPrice {
				t.Errorf("UnitPrice = %v, want %v", got.UnitPrice, tt.wantPrice)
			}
			if got.Matched != tt.wantMatched {
				t.Errorf("Matched = %v, want %v", got.Matched, tt.wantMatched)
			}
		})
	}
}

func TestResolvePriceInOutOfHour(t *testing.T) {
	svcs := testServices()

	tests := []struct {
		name        string
		serviceName string
		date        *time.Time
		timeOfDay   string
		wantPrice   float64
		wantInHour  bool
	}{
		{"weekday business hours", "Sports Therapy", dateOn(time.Tuesday), "10:00", 70, true},
		{"weekday evening", "Sports Therapy", dateOn(time.Tuesday), "19:30", 90, false},
		{"boundary 09:00 is in-hour", "Sports Therapy", dateOn(time.Wednesday), "09:00", 70, true},
		{"boundary 17:00 is out-of-hour", "Sports Therapy", dateOn(time.Wednesday), "17:00", 90, false},
		{"saturday", "Sports Therapy", dateOn(time.Saturday), "11:00", 90, false},
		{"missing date defaults in-hour", "Sports Therapy", nil, "11:00", 70, true},
		{"missing time defaults in-hour", "Sports Therapy", dateOn(time.Sunday), "", 70, true},
		{"literal out of hour override", "Sports Therapy (out of hour)", dateOn(time.Tuesday), "10:00", 90, false},
		{"literal in hour override", "Sports Therapy (in hour)", dateOn(time.Saturday), "11:00", 70, true},
		{"flat price ignores tier", "Deep Tissue Massage", dateOn(time.Saturday), "20:00", 65, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolvePrice(tt.serviceName, tt.date, tt.timeOfDay, svcs)
			if got.UnitPrice != tt.wantPrice {
				t.Errorf("UnitPrice = %v, want %v", got.UnitPrice, tt.wantPrice)
			}
			if got.IsInHour != tt.wantInHour {
				t.Errorf("IsInHour = %v, want %v", got.IsInHour, tt.wantInHour)
			}
		})
	}
}

func TestExpectedDeposit(t *testing.T) {
	tests := []struct {
		price float64
		want  float64
	}{
		{65, 13},
		{90, 18},
		{47, 9},  // 9.4 rounds down
		{48, 10}, // 9.6 rounds up
		{0, 0},
	}

	for _, tt := range tests {
		if got := ExpectedDeposit(tt.price); got != tt.want {
			t.Errorf("ExpectedDeposit(%v) = %v, want %v", tt.price, got, tt.want)
		}
	}
}

func TestDepositDiscrepancy(t *testing.T) {
	tests := []struct {
		name      string
		price     float64
		deposit   float64
		wantWarns bool
	}{
		{"exact 20 percent", 65, 13, false},
		{"within one unit", 65, 13.80, false},
		{"more than one unit off", 65, 20, true},
		{"no deposit captured", 65, 0, false},
		{"unresolved price", 0, 13, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, got := DepositDiscrepancy(tt.price, tt.deposit)
			if got != tt.wantWarns {
				t.Errorf("DepositDiscrepancy(%v, %v) warns = %v, want %v", tt.price, tt.deposit, got, tt.wantWarns)
			}
		})
	}
}

func TestCleanServiceName(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"Deep Tissue Massage (€65)", "Deep Tissue Massage"},
		{"Deep Tissue Massage ( €65.00 )", "Deep Tissue Massage"},
		{"Deep Tissue Massage", "Deep Tissue Massage"},
		{"(€65) Prefix stays (€65)", "(€65) Prefix stays"},
	}

	for _, tt := range tests {
		if got := CleanServiceName(tt.raw); got != tt.want {
			t.Errorf("CleanServiceName(%q) = %q, want %q", tt.raw, got, tt.want)
		}
	}
}
