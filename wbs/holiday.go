package wbs

// =============================================================================
// COMPANY HOLIDAY
// =============================================================================

// HolidayType classifies how a holiday entered the company calendar.
type HolidayType string

const (
	HolidayNational HolidayType = "NATIONAL"
	HolidayCompany  HolidayType = "COMPANY"
	HolidaySpecial  HolidayType = "SPECIAL"
)

// CompanyHoliday is a single non-working day in the company calendar.
// Loaded once per query window and never modified.
type CompanyHoliday struct {
	Date Date
	Name string
	Type HolidayType
}

// NewCompanyHoliday creates a holiday, defaulting an unknown type to COMPANY.
func NewCompanyHoliday(date Date, name string, typ HolidayType) CompanyHoliday {
	switch typ {
	case HolidayNational, HolidayCompany, HolidaySpecial:
	default:
		typ = HolidayCompany
	}
	return CompanyHoliday{Date: date, Name: name, Type: typ}
}

// ReconstructCompanyHoliday rehydrates a stored holiday without re-validation.
func ReconstructCompanyHoliday(date Date, name string, typ HolidayType) CompanyHoliday {
	return CompanyHoliday{Date: date, Name: name, Type: typ}
}
