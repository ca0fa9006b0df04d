package tracker

import "strings"

var verificationLabels = map[Verification]string{
	VerificationPositive:   "Potwierdzone",
	VerificationUnverified: "Oczekuje na potwierdzenie",
	VerificationNegative:   "Odrzucone",
}

// ReportSummary is the dashboard card form of a report.
type ReportSummary struct {
	ID                int64        `json:"id" groups:"basic"`
	Title             string       `json:"title" groups:"basic"`
	Description       string       `json:"description" groups:"basic"`
	Route             string       `json:"route" groups:"basic"`
	Verification      Verification `json:"verification" groups:"basic"`
	VerificationLabel string       `json:"verification_label" groups:"basic"`
	Likes             int          `json:"likes" groups:"basic"`
	Dislikes          int          `json:"dislikes" groups:"basic"`
}

func Summarise(report Report) ReportSummary {
	verification := report.Verified.Normalised()

	summary := ReportSummary{
		ID:                report.ID,
		Title:             strings.TrimSpace(report.RouteName),
		Description:       strings.TrimSpace(report.Description),
		Route:             strings.TrimSpace(report.RouteName),
		Verification:      verification,
		VerificationLabel: verificationLabels[verification],
		Likes:             report.Likes,
		Dislikes:          report.Dislikes,
	}

	if summary.Title == "" {
		summary.Title = "Nieznana linia"
	}
	if summary.Description == "" {
		summary.Description = "Brak opisu dla tego zgłoszenia."
	}
	if summary.Route == "" {
		summary.Route = DefaultRouteName
	}

	return summary
}

// RecentSummaries summarises at most limit reports in their incoming order.
func RecentSummaries(reports []Report, limit int) []ReportSummary {
	if limit >= 0 && len(reports) > limit {
		reports = reports[:limit]
	}

	summaries := make([]ReportSummary, 0, len(reports))
	for _, report := range reports {
		summaries = append(summaries, Summarise(report))
	}

	return summaries
}
