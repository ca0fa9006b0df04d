package tracker

import (
	"fmt"
	"strings"

	"github.com/Is0meone/TransitTracker/pkg/util"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// FilterReports keeps reports whose route name or description contains search,
// ignoring case. An empty search keeps everything.
func FilterReports(reports []Report, search string) []Report {
	query := strings.ToLower(strings.TrimSpace(search))
	if query == "" {
		return reports
	}

	return util.Filter(reports, func(report Report) bool {
		return strings.Contains(strings.ToLower(report.RouteName), query) ||
			strings.Contains(strings.ToLower(report.Description), query)
	})
}

// ReportFilter is a compiled boolean expression over report fields, e.g.
// `verified == "positive" && likes > dislikes`.
type ReportFilter struct {
	Expression string

	program *vm.Program
}

func CompileReportFilter(expression string) (*ReportFilter, error) {
	program, err := expr.Compile(expression, expr.Env(reportEnvironment(Report{})), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("report filter %q: %w", expression, err)
	}

	return &ReportFilter{
		Expression: expression,
		program:    program,
	}, nil
}

func (f *ReportFilter) Match(report Report) (bool, error) {
	output, err := expr.Run(f.program, reportEnvironment(report))
	if err != nil {
		return false, err
	}

	return output.(bool), nil
}

func (f *ReportFilter) Apply(reports []Report) ([]Report, error) {
	var firstErr error

	matched := util.Filter(reports, func(report Report) bool {
		ok, err := f.Match(report)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return ok
	})

	return matched, firstErr
}

func reportEnvironment(report Report) map[string]any {
	var timestamp int64
	if report.Timestamp != nil {
		timestamp = *report.Timestamp
	}

	return map[string]any{
		"id":          report.ID,
		"description": report.Description,
		"route_name":  report.RouteName,
		"verified":    string(report.Verified.Normalised()),
		"likes":       report.Likes,
		"dislikes":    report.Dislikes,
		"creator_id":  report.CreatorID,
		"lat":         report.Lattidude,
		"lng":         report.Longidute,
		"timestamp":   timestamp,
	}
}
