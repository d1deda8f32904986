package calendar

// =============================================================================
// SELF-CHECK - Calendar completeness reporting
// =============================================================================

// ClassReport summarizes calendar coverage for one staff class.
type ClassReport struct {
	StaffClass      StaffClass `json:"staff_class"`
	PeriodCount     int        `json:"period_count"`
	MissingCutoffs  []string   `json:"missing_cutoffs,omitempty"`
	Overlaps        []string   `json:"overlaps,omitempty"`
	LatestPeriodEnd *Date      `json:"latest_period_end,omitempty"`
	ForwardDays     int        `json:"forward_days"`
}

// Report is the system self-check result consumed by operators to spot
// calendar gaps before they surface as resolution fallbacks.
type Report struct {
	AsOf    Date          `json:"as_of"`
	Classes []ClassReport `json:"classes"`
	Healthy bool          `json:"healthy"`
}

// SelfCheck inspects the calendar: periods present per class, hourly
// cutoff coverage, overlap detection, and the forward coverage horizon
// relative to asOf.
func SelfCheck(c *Calendar, asOf Date) Report {
	report := Report{AsOf: asOf, Healthy: true}

	for _, class := range []StaffClass{StaffSalaried, StaffHourly} {
		periods := c.Periods(class)
		cr := ClassReport{StaffClass: class, PeriodCount: len(periods)}

		for i, p := range periods {
			if class == StaffHourly && p.CutoffDate == nil {
				cr.MissingCutoffs = append(cr.MissingCutoffs, p.Name)
			}
			if i > 0 && periods[i-1].End.AfterOrEqual(p.Start) {
				cr.Overlaps = append(cr.Overlaps, periods[i-1].Name+" / "+p.Name)
			}
		}

		if len(periods) > 0 {
			latest := periods[len(periods)-1].End
			cr.LatestPeriodEnd = &latest
			if latest.After(asOf) {
				cr.ForwardDays = DaysBetween(asOf, latest)
			}
		}

		if cr.PeriodCount == 0 || len(cr.MissingCutoffs) > 0 || len(cr.Overlaps) > 0 || cr.ForwardDays == 0 {
			report.Healthy = false
		}
		report.Classes = append(report.Classes, cr)
	}

	return report
}
