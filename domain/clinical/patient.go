package clinical

import "fmt"

// PatientInput holds the twelve clinical values entered for a single
// prediction. Binding tags bound every field for both form and JSON input.
type PatientInput struct {
	Age                     int     `form:"age" json:"age" binding:"gte=0,lte=130"`
	Anaemia                 int     `form:"anaemia" json:"anaemia" binding:"oneof=0 1"`
	CreatininePhosphokinase int     `form:"creatinine_phosphokinase" json:"creatinine_phosphokinase" binding:"gte=0"`
	Diabetes                int     `form:"diabetes" json:"diabetes" binding:"oneof=0 1"`
	EjectionFraction        int     `form:"ejection_fraction" json:"ejection_fraction" binding:"gte=0,lte=100"`
	HighBloodPressure       int     `form:"high_blood_pressure" json:"high_blood_pressure" binding:"oneof=0 1"`
	Platelets               float64 `form:"platelets" json:"platelets" binding:"gte=0"`
	SerumCreatinine         float64 `form:"serum_creatinine" json:"serum_creatinine" binding:"gte=0"`
	SerumSodium             int     `form:"serum_sodium" json:"serum_sodium" binding:"gte=0"`
	Sex                     int     `form:"sex" json:"sex" binding:"oneof=0 1"`
	Smoking                 int     `form:"smoking" json:"smoking" binding:"oneof=0 1"`
	Time                    int     `form:"time" json:"time" binding:"gte=0"`
}

// DefaultPatientInput returns the values pre-filled in the prediction form.
func DefaultPatientInput() PatientInput {
	return PatientInput{
		Age:                     60,
		CreatininePhosphokinase: 582,
		EjectionFraction:        38,
		Platelets:               265000.0,
		SerumCreatinine:         1.1,
		SerumSodium:             137,
		Time:                    130,
	}
}

// FeatureVector encodes the input in FeatureColumns order.
func (p PatientInput) FeatureVector() []float64 {
	return []float64{
		float64(p.Age),
		float64(p.Anaemia),
		float64(p.CreatininePhosphokinase),
		float64(p.Diabetes),
		float64(p.EjectionFraction),
		float64(p.HighBloodPressure),
		p.Platelets,
		p.SerumCreatinine,
		float64(p.SerumSodium),
		float64(p.Sex),
		float64(p.Smoking),
		float64(p.Time),
	}
}

// Validate applies the same bounds as the binding tags for callers that
// construct inputs outside of gin.
func (p PatientInput) Validate() error {
	if p.Age < 0 || p.Age > 130 {
		return fmt.Errorf("age must be within [0, 130], got %d", p.Age)
	}
	if p.EjectionFraction < 0 || p.EjectionFraction > 100 {
		return fmt.Errorf("ejection_fraction must be within [0, 100], got %d", p.EjectionFraction)
	}
	flags := map[string]int{
		ColAnaemia:           p.Anaemia,
		ColDiabetes:          p.Diabetes,
		ColHighBloodPressure: p.HighBloodPressure,
		ColSex:               p.Sex,
		ColSmoking:           p.Smoking,
	}
	for _, name := range []string{ColAnaemia, ColDiabetes, ColHighBloodPressure, ColSex, ColSmoking} {
		if v := flags[name]; v != 0 && v != 1 {
			return fmt.Errorf("%s must be 0 or 1, got %d", name, v)
		}
	}
	if p.CreatininePhosphokinase < 0 || p.SerumSodium < 0 || p.Time < 0 {
		return fmt.Errorf("creatinine_phosphokinase, serum_sodium and time must be non-negative")
	}
	if p.Platelets < 0 || p.SerumCreatinine < 0 {
		return fmt.Errorf("platelets and serum_creatinine must be non-negative")
	}
	return nil
}
