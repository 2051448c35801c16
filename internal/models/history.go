package models

import "time"

// HistorySet is a past set attempt as seen by the overload engine.
type HistorySet struct {
	Reps   int     `json:"reps"`
	Weight float64 `json:"weight"`
	RPE    int     `json:"rpe,omitempty"`
}

// HistorySession is one past session's sets for a single exercise.
type HistorySession struct {
	Date    time.Time    `json:"date"`
	Sets    []HistorySet `json:"sets"`
	BestSet HistorySet   `json:"bestSet"` // set maximizing weight*reps, ties to higher weight
}

// ExerciseHistory is the derived, read-only history for a normalized
// exercise name, ordered most-recent-first.
type ExerciseHistory struct {
	Name     string           `json:"name"` // normalized
	Sessions []HistorySession `json:"sessions"`
}

// DashboardStats summarizes a user's training history.
type DashboardStats struct {
	TotalWorkouts   int `json:"totalWorkouts"`
	TotalDuration   int `json:"totalDuration"` // seconds
	TotalCalories   int `json:"totalCaloriesBurned"`
	CurrentStreak   int `json:"currentStreak"`
	WeeklyWorkouts  int `json:"weeklyWorkouts"`
	MonthlyWorkouts int `json:"monthlyWorkouts"`
}
