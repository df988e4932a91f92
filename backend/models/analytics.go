package models

import "time"

// PathStanding is one entry in the best/worst path rankings. Progress here
// is recomputed from isComplete counts, not read from the stored aggregate.
type PathStanding struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Progress       int       `json:"progress"`
	CompletedItems int       `json:"completedItems"`
	TotalItems     int       `json:"totalItems"`
	CreatedAt      time.Time `json:"createdAt"`
}

type LearningAnalytics struct {
	BestLearningPaths        []PathStanding `json:"bestLearningPaths"`
	WorstLearningPaths       []PathStanding `json:"worstLearningPaths"`
	LearningTypeDistribution map[string]int `json:"learningTypeDistribution"`
	TotalLearningPaths       int            `json:"totalLearningPaths"`
	TotalModules             int            `json:"totalModules"`
	TotalItems               int            `json:"totalItems"`
	CompletedItems           int            `json:"completedItems"`
}

// ProgressOverview summarizes the stored path aggregates for the dashboard.
type ProgressOverview struct {
	AverageProgress float64 `json:"averageProgress"`
	TotalPaths      int     `json:"totalPaths"`
	CompletedPaths  int     `json:"completedPaths"`
	InProgressPaths int     `json:"inProgressPaths"`
	NotStartedPaths int     `json:"notStartedPaths"`
}

// DailyRecord is the average item progress behind the notes written on one day.
type DailyRecord struct {
	Date     string `json:"date"`
	Progress int    `json:"progress"`
}

// ActivityItem is a recent note rendered as a feed entry.
type ActivityItem struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	Type      string  `json:"type"`
	Progress  float64 `json:"progress"`
	Date      string  `json:"date"`
	PathTitle string  `json:"pathTitle"`
}
