package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"khtherapy-backend/models"
)

// PriceResolution is the applicable unit price for a booking's service.
// Matched is false when no configured service could be found and the price
// (possibly zero) came from the raw booking string.
type PriceResolution struct {
	UnitPrice float64
	IsInHour  bool
	Matched   bool
}

const (
	businessOpenHour  = 9
	businessCloseHour = 17

	depositRate = 0.20
)

var (
	priceAnnotation = regexp.MustCompile(`\s*\(\s*€\s*\d+(?:\.\d+)?\s*\)\s*$`)
	euroAmount      = regexp.MustCompile(`€\s*(\d+(?:\.\d+)?)`)
)

// CleanServiceName strips a trailing "(€65)" style price annotation.
func CleanServiceName(name string) string {
	return strings.TrimSpace(priceAnnotation.ReplaceAllString(name, ""))
}

func inBusinessHours(date *time.Time, timeOfDay string) bool {
	if date == nil || timeOfDay == "" {
		return true
	}
	wd := date.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	t, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		return true
	}
	return t.Hour() >= businessOpenHour && t.Hour() < businessCloseHour
}

func matchService(rawName string, services []models.Service) *models.Service {
	for i := range services {
		if services[i].Name == rawName {
			return &services[i]
		}
	}
	cleaned := CleanServiceName(rawName)
	for i := range services {
		if services[i].Name == cleaned {
			return &services[i]
		}
	}
	lower := strings.ToLower(cleaned)
	for i := range services {
		sl := strings.ToLower(services[i].Name)
		if strings.Contains(sl, lower) || strings.Contains(lower, sl) {
			return &services[i]
		}
	}
	return nil
}

// ResolvePrice determines the unit price for a booking's service string.
// Match order: exact name, name with the trailing price annotation stripped,
// then case-insensitive substring in either direction. With no match the
// price is extracted from a €<number> pattern in the raw string, else 0.
//
// The in/out-of-hour tier comes from a literal "in hour"/"out of hour" in the
// cleaned name when present, otherwise from the booking's weekday and clock
// hour (Mon-Fri, 09:00-17:00 is in-hour). Missing date or time defaults to
// in-hour.
func ResolvePrice(serviceName string, date *time.Time, timeOfDay string, services []models.Service) PriceResolution {
	lowerName := strings.ToLower(CleanServiceName(serviceName))
	inHour := inBusinessHours(date, timeOfDay)
	if strings.Contains(lowerName, "out of hour") {
		inHour = false
	} else if strings.Contains(lowerName, "in hour") {
		inHour = true
	}

	svc := matchService(serviceName, services)
	if svc == nil {
		if m := euroAmount.FindStringSubmatch(serviceName); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return PriceResolution{UnitPrice: v, IsInHour: inHour}
			}
		}
		return PriceResolution{IsInHour: inHour}
	}

	price := svc.Price
	if svc.HasHourlyPair() {
		if inHour {
			price = *svc.InHourPrice
		} else {
			price = *svc.OutOfHourPrice
		}
	}
	return PriceResolution{UnitPrice: price, IsInHour: inHour, Matched: true}
}

// ExpectedDeposit is the conventional 20% upfront deposit.
func ExpectedDeposit(unitPrice float64) float64 {
	return math.Round(unitPrice * depositRate)
}

// DepositDiscrepancy returns an advisory warning when a captured deposit
// deviates from the 20% expectation by more than one currency unit. The
// classified amount stays authoritative; this is display-only.
func DepositDiscrepancy(unitPrice, classifiedDeposit float64) (string, bool) {
	if classifiedDeposit <= 0 || unitPrice <= 0 {
		return "", false
	}
	expected := ExpectedDeposit(unitPrice)
	if math.Abs(classifiedDeposit-expected) > 1 {
		return fmt.Sprintf("deposit €%.2f differs from expected €%.2f (20%% of €%.2f)",
			classifiedDeposit, expected, unitPrice), true
	}
	return "", false
}
