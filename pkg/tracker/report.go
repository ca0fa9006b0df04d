package tracker

import (
	"strings"
	"time"
)

type Verification string

const (
	VerificationPositive   Verification = "positive"
	VerificationUnverified Verification = "unverified"
	VerificationNegative   Verification = "negative"
)

// Normalised folds case and maps anything unknown to unverified.
func (v Verification) Normalised() Verification {
	switch normalised := Verification(strings.ToLower(strings.TrimSpace(string(v)))); normalised {
	case VerificationPositive, VerificationUnverified, VerificationNegative:
		return normalised
	default:
		return VerificationUnverified
	}
}

type Report struct {
	ID          int64  `json:"id" groups:"basic"`
	Description string `json:"description" groups:"basic"`
	RouteName   string `json:"route_name" groups:"basic"`

	// Field names are misspelt on the wire and must stay that way.
	Lattidude float64 `json:"lattidude" groups:"basic"`
	Longidute float64 `json:"longidute" groups:"basic"`

	Verified  Verification `json:"verified" groups:"basic"`
	Likes     int          `json:"likes" groups:"basic"`
	Dislikes  int          `json:"dislikes" groups:"basic"`
	CreatorID int64        `json:"creator_id" groups:"detailed"`
	Timestamp *int64       `json:"timestamp,omitempty" groups:"basic"`
}

func (r *Report) Location() Location {
	return Location{Lat: r.Lattidude, Lng: r.Longidute}
}

func (r *Report) Time() (time.Time, bool) {
	if r.Timestamp == nil {
		return time.Time{}, false
	}

	return time.Unix(*r.Timestamp, 0), true
}

type ReportCounters struct {
	Positive   int `json:"positive" groups:"basic"`
	Unverified int `json:"unverified" groups:"basic"`
	Negative   int `json:"negative" groups:"basic"`
}

func CountReports(reports []Report) ReportCounters {
	var counters ReportCounters

	for _, report := range reports {
		switch report.Verified.Normalised() {
		case VerificationPositive:
			counters.Positive++
		case VerificationNegative:
			counters.Negative++
		default:
			counters.Unverified++
		}
	}

	return counters
}
