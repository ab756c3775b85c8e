// ABOUTME: Record types persisted by the health store and their enum domains
// ABOUTME: Field names and JSON tags mirror the host command payloads

package store

import "time"

// TimestampLayout is the sortable layout callers should use for created_at and
// other timestamp strings. Lexicographic order of values in this layout equals
// chronological order, which range queries depend on.
const TimestampLayout = "2006-01-02T15:04:05"

// FormatTimestamp renders t in TimestampLayout (UTC).
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Gender of a user.
type Gender int

const (
	GenderUnknown Gender = iota
	GenderMale
	GenderFemale
)

// DiabetesType classifies a user's diagnosis.
type DiabetesType int

const (
	DiabetesUnknown DiabetesType = iota
	DiabetesType1
	DiabetesType2
	DiabetesGestational
)

// TreatmentPlan classifies how a user's diabetes is managed.
type TreatmentPlan int

const (
	TreatmentDietOnly TreatmentPlan = iota
	TreatmentOralMedication
	TreatmentInsulin
	TreatmentCombined
)

// MealType identifies the meal a food entry or glucose reading belongs to.
type MealType int

const (
	MealBreakfast MealType = iota
	MealLunch
	MealDinner
	MealSnack
)

func (m MealType) String() string {
	switch m {
	case MealBreakfast:
		return "breakfast"
	case MealLunch:
		return "lunch"
	case MealDinner:
		return "dinner"
	case MealSnack:
		return "snack"
	default:
		return "unknown"
	}
}

// EntrySource records how a food entry was produced.
type EntrySource int

const (
	SourceManual EntrySource = iota
	SourceFoodDatabase
	SourceAIRecognition
	SourceBarcodeScan
)

// MeasurementTime is the time-of-day bucket of a glucose reading.
type MeasurementTime int

const (
	MeasuredFasting MeasurementTime = iota
	MeasuredBeforeMeal
	MeasuredAfterMeal1h
	MeasuredAfterMeal2h
	MeasuredBeforeBed
	MeasuredNight
	MeasuredRandom
)

func (m MeasurementTime) String() string {
	switch m {
	case MeasuredFasting:
		return "fasting"
	case MeasuredBeforeMeal:
		return "before_meal"
	case MeasuredAfterMeal1h:
		return "after_meal_1h"
	case MeasuredAfterMeal2h:
		return "after_meal_2h"
	case MeasuredBeforeBed:
		return "before_bed"
	case MeasuredNight:
		return "night"
	case MeasuredRandom:
		return "random"
	default:
		return "unknown"
	}
}

// MedicationType is the administration route of a medication.
type MedicationType int

const (
	MedicationOral MedicationType = iota
	MedicationInjection
	MedicationInsulinPump
)

// MedicationTiming is when a dose is scheduled relative to meals.
type MedicationTiming int

const (
	TimingBeforeBreakfast MedicationTiming = iota
	TimingBeforeLunch
	TimingBeforeDinner
	TimingAfterBreakfast
	TimingAfterLunch
	TimingAfterDinner
	TimingBeforeBed
	TimingAsNeeded
)

// InsulinType is the action profile of an insulin dose.
type InsulinType int

const (
	InsulinRapidActing InsulinType = iota
	InsulinShortActing
	InsulinIntermediate
	InsulinLongActing
	InsulinPremixed
)

// User is a device account with its diabetes profile and targets.
// PasswordHash is opaque credential material: stored, never computed or checked.
type User struct {
	ID                  string        `json:"id" validate:"required"`
	Username            string        `json:"username" validate:"required"`
	Email               string        `json:"email" validate:"required"`
	Phone               *string       `json:"phone"`
	PasswordHash        string        `json:"password_hash"`
	CreatedAt           string        `json:"created_at"`
	Birthday            *string       `json:"birthday"`
	Gender              Gender        `json:"gender" validate:"gte=0,lte=2"`
	Height              float64       `json:"height" validate:"gte=0"`
	DiabetesType        DiabetesType  `json:"diabetes_type" validate:"gte=0,lte=3"`
	DiagnosisDate       *string       `json:"diagnosis_date"`
	TreatmentPlan       TreatmentPlan `json:"treatment_plan" validate:"gte=0,lte=3"`
	TargetWeight        *float64      `json:"target_weight" validate:"omitempty,gt=0"`
	TargetHbA1c         *float64      `json:"target_hb_a1c" validate:"omitempty,gt=0"`
	TargetCalories      *float64      `json:"target_calories" validate:"omitempty,gt=0"`
	TargetCarbohydrates *float64      `json:"target_carbohydrates" validate:"omitempty,gt=0"`
}

// FoodEntry is one logged food item.
type FoodEntry struct {
	ID            string      `json:"id" validate:"required"`
	UserID        string      `json:"user_id" validate:"required"`
	CreatedAt     string      `json:"created_at" validate:"required"`
	MealType      MealType    `json:"meal_type" validate:"gte=0,lte=3"`
	MealTime      string      `json:"meal_time" validate:"required"`
	FoodName      string      `json:"food_name" validate:"required"`
	Quantity      float64     `json:"quantity" validate:"gte=0"`
	Calories      float64     `json:"calories" validate:"gte=0"`
	Carbohydrates float64     `json:"carbohydrates" validate:"gte=0"`
	Protein       float64     `json:"protein" validate:"gte=0"`
	Fat           float64     `json:"fat" validate:"gte=0"`
	GI            *float64    `json:"gi" validate:"omitempty,gte=0"`
	GL            *float64    `json:"gl" validate:"omitempty,gte=0"`
	Source        EntrySource `json:"source" validate:"gte=0,lte=3"`
	ImagePath     *string     `json:"image_path"`
	Notes         *string     `json:"notes"`
}

// BloodGlucose is one glucose measurement.
type BloodGlucose struct {
	ID                   string          `json:"id" validate:"required"`
	UserID               string          `json:"user_id" validate:"required"`
	CreatedAt            string          `json:"created_at" validate:"required"`
	Value                float64         `json:"value" validate:"gt=0"`
	MeasurementTime      MeasurementTime `json:"measurement_time" validate:"gte=0,lte=6"`
	MeasurementTimeExact *string         `json:"measurement_time_exact"`
	BeforeMealGlucose    *float64        `json:"before_meal_glucose" validate:"omitempty,gt=0"`
	AfterMealGlucose     *float64        `json:"after_meal_glucose" validate:"omitempty,gt=0"`
	RelatedMeal          *MealType       `json:"related_meal" validate:"omitempty,gte=0,lte=3"`
	Notes                *string         `json:"notes"`
	DeviceName           *string         `json:"device_name"`
	DeviceSerial         *string         `json:"device_serial"`
}

// Medication is one scheduled dose. IsTaken flips to true exactly once via
// MarkMedicationTaken.
type Medication struct {
	ID              string           `json:"id" validate:"required"`
	UserID          string           `json:"user_id" validate:"required"`
	CreatedAt       string           `json:"created_at" validate:"required"`
	DrugName        string           `json:"drug_name" validate:"required"`
	Type            MedicationType   `json:"type" validate:"gte=0,lte=2"`
	Dose            float64          `json:"dose" validate:"gt=0"`
	Unit            string           `json:"unit" validate:"required"`
	Timing          MedicationTiming `json:"timing" validate:"gte=0,lte=7"`
	InsulinType     *InsulinType     `json:"insulin_type" validate:"omitempty,gte=0,lte=4"`
	InsulinDuration *int             `json:"insulin_duration" validate:"omitempty,gte=0"`
	ScheduledTime   string           `json:"scheduled_time" validate:"required"`
	ActualTime      *string          `json:"actual_time"`
	IsTaken         bool             `json:"is_taken"`
	Notes           *string          `json:"notes"`
}

// ChatMessage is one entry of a user's assistant conversation log.
type ChatMessage struct {
	ID        string  `json:"id" validate:"required"`
	UserID    string  `json:"user_id" validate:"required"`
	CreatedAt string  `json:"created_at" validate:"required"`
	Role      string  `json:"role"`
	Content   string  `json:"content"`
	Model     *string `json:"model"`
}

// FoodStats aggregates food entries over a date range.
type FoodStats struct {
	EntryCount         int64              `json:"entry_count"`
	TotalCalories      float64            `json:"total_calories"`
	TotalCarbohydrates float64            `json:"total_carbohydrates"`
	TotalProtein       float64            `json:"total_protein"`
	TotalFat           float64            `json:"total_fat"`
	CaloriesByMeal     map[string]float64 `json:"calories_by_meal"`
}

// GlucoseStats aggregates glucose readings over a date range.
type GlucoseStats struct {
	Count                    int64              `json:"count"`
	Average                  float64            `json:"average"`
	Min                      float64            `json:"min"`
	Max                      float64            `json:"max"`
	AverageByMeasurementTime map[string]float64 `json:"average_by_measurement_time"`
}
