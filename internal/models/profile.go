package models

import "time"

// OneRepMaxes holds a user's scalar maxes for the five reference lifts used
// to scale the Iron Protocol template family.
type OneRepMaxes struct {
	UserID        string    `json:"userId"`
	BenchPress    float64   `json:"benchPress"`
	BackSquat     float64   `json:"backSquat"`
	OverheadPress float64   `json:"overheadPress"`
	BentOverRow   float64   `json:"bentOverRow"`
	RomanianDL    float64   `json:"romanianDL"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// OneRepMaxPatch is a partial update; nil fields retain their prior value.
type OneRepMaxPatch struct {
	BenchPress    *float64 `json:"benchPress,omitempty"`
	BackSquat     *float64 `json:"backSquat,omitempty"`
	OverheadPress *float64 `json:"overheadPress,omitempty"`
	BentOverRow   *float64 `json:"bentOverRow,omitempty"`
	RomanianDL    *float64 `json:"romanianDL,omitempty"`
}

// ChallengePeriod is the calendar window a challenge spans.
type ChallengePeriod string

const (
	PeriodWeekly  ChallengePeriod = "weekly"
	PeriodMonthly ChallengePeriod = "monthly"
	PeriodYearly  ChallengePeriod = "yearly"
)

// Challenge is a consistency challenge: complete TargetCount sessions
// inside the [StartDate, EndDate] window.
type Challenge struct {
	ID           string          `json:"id"`
	UserID       string          `json:"userId"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Period       ChallengePeriod `json:"period"`
	TargetCount  int             `json:"targetCount"`
	CurrentCount int             `json:"currentCount"`
	StartDate    time.Time       `json:"startDate"`
	EndDate      time.Time       `json:"endDate"`
	Completed    bool            `json:"completed"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// Meal is one logged meal.
type Meal struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Name      string    `json:"name"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	Date      string    `json:"date"` // YYYY-MM-DD
	MealType  string    `json:"mealType"`
	CreatedAt time.Time `json:"createdAt"`
}

// DailyLog is a per-day habit log keyed by (userID, date).
type DailyLog struct {
	UserID      string     `json:"userId"`
	Date        string     `json:"date"` // YYYY-MM-DD
	Trained     bool       `json:"trained"`
	ProteinHit  bool       `json:"proteinHit"`
	SleptWell   bool       `json:"sleptWell"`
	Notes       string     `json:"notes,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// DailyLogPatch is a partial daily-log update; nil fields keep prior values.
type DailyLogPatch struct {
	Trained    *bool   `json:"trained,omitempty"`
	ProteinHit *bool   `json:"proteinHit,omitempty"`
	SleptWell  *bool   `json:"sleptWell,omitempty"`
	Notes      *string `json:"notes,omitempty"`
}
