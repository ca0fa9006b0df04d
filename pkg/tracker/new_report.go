package tracker

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const DefaultRouteName = "Brak informacji"

var ErrInvalidCoordinates = errors.New("latitude and longitude must be numeric")

// NewReport is the creation payload accepted by POST /reports/.
type NewReport struct {
	ReportingUserID int64   `json:"reporting_user_id"`
	Description     string  `json:"description"`
	Lattidude       float64 `json:"lattidude"`
	Longidute       float64 `json:"longidute"`
	RouteName       string  `json:"route_name"`
}

// NewReportForm is the raw user input; coordinates arrive as text.
type NewReportForm struct {
	ReportingUserID int64  `json:"reporting_user_id"`
	IssueType       string `json:"issue_type"`
	Location        string `json:"location"`
	RouteName       string `json:"route_name"`
	Latitude        string `json:"latitude"`
	Longitude       string `json:"longitude"`
	Description     string `json:"description"`
}

// parseCoordinate accepts finite numbers only; ParseFloat would let "NaN" and
// "inf" through.
func parseCoordinate(value string) (float64, bool) {
	coordinate, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil || math.IsNaN(coordinate) || math.IsInf(coordinate, 0) {
		return 0, false
	}

	return coordinate, true
}

func (f NewReportForm) Build() (NewReport, error) {
	lat, latOk := parseCoordinate(f.Latitude)
	lng, lngOk := parseCoordinate(f.Longitude)
	if !latOk || !lngOk {
		return NewReport{}, ErrInvalidCoordinates
	}

	report := NewReport{
		ReportingUserID: f.ReportingUserID,
		Description:     strings.TrimSpace(f.Description),
		Lattidude:       lat,
		Longidute:       lng,
		RouteName:       strings.TrimSpace(f.RouteName),
	}

	if report.Description == "" {
		location := strings.TrimSpace(f.Location)
		if location == "" {
			location = "(nieznana)"
		}
		report.Description = fmt.Sprintf("%s zgłoszone w lokalizacji %s.", f.IssueType, location)
	}
	if report.RouteName == "" {
		report.RouteName = DefaultRouteName
	}

	return report, nil
}
