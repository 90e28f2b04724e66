package model

import "time"

// ForecastPoint is one predicted trading day.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Price float64   `json:"price"`
}

// ForecastPath is the day-by-day forecast; its length equals the horizon.
type ForecastPath []ForecastPoint

// Final returns the price on the last modeled day.
func (p ForecastPath) Final() float64 {
	if len(p) == 0 {
		return 0
	}
	return p[len(p)-1].Price
}

// First returns the next-day point.
func (p ForecastPath) First() (ForecastPoint, bool) {
	if len(p) == 0 {
		return ForecastPoint{}, false
	}
	return p[0], true
}
