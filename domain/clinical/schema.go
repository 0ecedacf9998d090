// Package clinical defines the heart-failure clinical record schema and the
// patient input consumed by the prediction model.
package clinical

import "strings"

// Column names as they appear in the clinical records file.
const (
	ColAge                     = "age"
	ColAnaemia                 = "anaemia"
	ColCreatininePhosphokinase = "creatinine_phosphokinase"
	ColDiabetes                = "diabetes"
	ColEjectionFraction        = "ejection_fraction"
	ColHighBloodPressure       = "high_blood_pressure"
	ColPlatelets               = "platelets"
	ColSerumCreatinine         = "serum_creatinine"
	ColSerumSodium             = "serum_sodium"
	ColSex                     = "sex"
	ColSmoking                 = "smoking"
	ColTime                    = "time"
	TargetColumn               = "DEATH_EVENT"
)

// FeatureColumns is the fixed feature order expected by the model.
var FeatureColumns = []string{
	ColAge,
	ColAnaemia,
	ColCreatininePhosphokinase,
	ColDiabetes,
	ColEjectionFraction,
	ColHighBloodPressure,
	ColPlatelets,
	ColSerumCreatinine,
	ColSerumSodium,
	ColSex,
	ColSmoking,
	ColTime,
}

// Columns returns the full record schema: features followed by the outcome label.
func Columns() []string {
	cols := make([]string, 0, len(FeatureColumns)+1)
	cols = append(cols, FeatureColumns...)
	return append(cols, TargetColumn)
}

// Outcome labels produced by the classifier.
const (
	LabelSurvival = 0
	LabelDeath    = 1
)

// OutcomeName maps a binary label to its display name.
func OutcomeName(label int) string {
	if label == LabelDeath {
		return "DEATH"
	}
	return "SURVIVAL"
}

// SexFilter restricts records by the sex flag.
type SexFilter string

const (
	SexAll    SexFilter = "All"
	SexFemale SexFilter = "Female"
	SexMale   SexFilter = "Male"
)

// SexFilters lists the selectable filter options in display order.
var SexFilters = []SexFilter{SexAll, SexFemale, SexMale}

// ParseSexFilter accepts the option name (case-insensitive) or the raw flag
// value. Anything else means no filtering.
func ParseSexFilter(s string) SexFilter {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "female", "0", "0 (female)":
		return SexFemale
	case "male", "1", "1 (male)":
		return SexMale
	default:
		return SexAll
	}
}

// Matches reports whether a record with the given sex flag passes the filter.
func (f SexFilter) Matches(sex float64) bool {
	switch f {
	case SexFemale:
		return sex == 0
	case SexMale:
		return sex == 1
	default:
		return true
	}
}

// Label is the option text shown in the filter dropdown.
func (f SexFilter) Label() string {
	switch f {
	case SexFemale:
		return "0 (Female)"
	case SexMale:
		return "1 (Male)"
	default:
		return string(SexAll)
	}
}

// SexLabel maps the sex flag to a display group.
func SexLabel(sex float64) string {
	if sex == 1 {
		return "Male"
	}
	return "Female"
}
