package domain

import "time"

type DietPlan struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Category     string    `json:"category"` // weight-loss, weight-gain, diabetes, heart-healthy, general
	Description  string    `json:"description,omitempty"`
	DurationDays int       `json:"duration_days"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type ExerciseProgram struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Level        string    `json:"level"`    // beginner, intermediate, advanced
	Category     string    `json:"category"` // cardio, strength, flexibility, balance, mixed
	Description  string    `json:"description,omitempty"`
	DurationDays int       `json:"duration_days"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

type YogaSession struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Level           string    `json:"level"`
	Type            string    `json:"type"` // hatha, vinyasa, ashtanga, yin, meditation, pranayama
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

type SubscriptionType string

const (
	SubscriptionDiet     SubscriptionType = "diet"
	SubscriptionExercise SubscriptionType = "exercise"
	SubscriptionYoga     SubscriptionType = "yoga"
	SubscriptionCombo    SubscriptionType = "wellness-combo"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionPaused    SubscriptionStatus = "paused"
	SubscriptionCompleted SubscriptionStatus = "completed"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

type WellnessSubscription struct {
	ID         string             `json:"id"`
	UserID     string             `json:"user_id"`
	Type       SubscriptionType   `json:"type"`
	ResourceID string             `json:"resource_id,omitempty"`
	Status     SubscriptionStatus `json:"status"`
	Progress   map[string]any     `json:"progress"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

type WellnessFilter struct {
	Level       string
	Category    string
	Type        string
	MaxDuration int
}

type SubscriptionFilter struct {
	Type   SubscriptionType
	Status SubscriptionStatus
}
