// Package healthkinds holds the fixed vocabulary of metric kinds the
// ingestion pipeline treats as relevant. Anything outside this set is
// dropped early so it never consumes batch capacity
package healthkinds

// Synthetic type tags attached to records derived from a workout element.
// They live outside the HK* namespace on purpose so a derived record can
// never collide with a plain measurement
const (
	Workout         = "Workout"
	WorkoutDuration = "WorkoutDuration"
	WorkoutDistance = "WorkoutDistance"
	WorkoutEnergy   = "WorkoutEnergyBurned"
)

// recognized is the vocabulary of HealthKit identifiers the dashboard charts
var recognized = map[string]struct{}{
	"HKQuantityTypeIdentifierStepCount":              {},
	"HKQuantityTypeIdentifierDistanceWalkingRunning": {},
	"HKQuantityTypeIdentifierFlightsClimbed":         {},
	"HKQuantityTypeIdentifierHeartRate":              {},
	"HKQuantityTypeIdentifierRestingHeartRate":       {},
	"HKQuantityTypeIdentifierHeartRateVariabilitySDNN": {},
	"HKQuantityTypeIdentifierActiveEnergyBurned":       {},
	"HKQuantityTypeIdentifierBasalEnergyBurned":        {},
	"HKQuantityTypeIdentifierAppleExerciseTime":        {},
	"HKQuantityTypeIdentifierAppleStandTime":           {},
	"HKQuantityTypeIdentifierBodyMass":                 {},
	"HKQuantityTypeIdentifierBodyMassIndex":            {},
	"HKQuantityTypeIdentifierBodyFatPercentage":        {},
	"HKQuantityTypeIdentifierHeight":                   {},
	"HKQuantityTypeIdentifierBloodPressureSystolic":    {},
	"HKQuantityTypeIdentifierBloodPressureDiastolic":   {},
	"HKQuantityTypeIdentifierOxygenSaturation":         {},
	"HKQuantityTypeIdentifierRespiratoryRate":          {},
	"HKQuantityTypeIdentifierVO2Max":                   {},
	"HKCategoryTypeIdentifierSleepAnalysis":            {},
	"HKCategoryTypeIdentifierMindfulSession":           {},
}

// Relevant reports whether typeID is one of the metric kinds the system
// understands. Pure lookup, no failure mode
func Relevant(typeID string) bool {
	_, ok := recognized[typeID]
	return ok
}

// All returns a copy of the vocabulary, mostly for docs and tests
func All() []string {
	out := make([]string, 0, len(recognized))
	for k := range recognized {
		out = append(out, k)
	}
	return out
}
