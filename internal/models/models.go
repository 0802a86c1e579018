package models

import "time"

const (
	CustomerActive  = "ACTIVE"
	CustomerBlocked = "BLOCKED"
)

const (
	RoutePlanned    = "PLANNED"
	RouteInProgress = "IN_PROGRESS"
	RouteCompleted  = "COMPLETED"
)

type Customer struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Status       string   `json:"status"`
	TotalDebt    float64  `json:"total_debt"`
	Address      string   `json:"address,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	City         string   `json:"city,omitempty"`
	State        string   `json:"state,omitempty"`
	Lat          *float64 `json:"lat,omitempty"`
	Lon          *float64 `json:"lon,omitempty"`
}

// GeoPoint is a coordinate pair in decimal degrees.
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Cluster groups customers sharing a neighborhood (or city) label and
// carries aggregated collection-risk metrics. Clusters are derived on
// every read and never persisted.
type Cluster struct {
	ID            string     `json:"id"`
	Neighborhood  string     `json:"neighborhood"`
	City          string     `json:"city,omitempty"`
	Centroid      GeoPoint   `json:"centroid"`
	CustomerCount int        `json:"customer_count"`
	DefaultRate   float64    `json:"default_rate"`
	TotalDebt     float64    `json:"total_debt"`
	FallbackCount int        `json:"fallback_count"`
	Customers     []Customer `json:"customers"`
}

// RouteStop is one ordered visit within a collection route. Order is
// 1-based and contiguous. DistanceKm is measured from the previous stop
// (or the route start point for the first stop).
type RouteStop struct {
	Order        int      `json:"order"`
	CustomerID   string   `json:"customer_id"`
	CustomerName string   `json:"customer_name"`
	Point        GeoPoint `json:"point"`
	DistanceKm   float64  `json:"distance_km"`
	EstMinutes   int      `json:"est_minutes"`
}

type CollectionRoute struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
	Stops        []RouteStop `json:"stops"`
	TotalKm      float64     `json:"total_km"`
	TotalMinutes int         `json:"total_minutes"`
}

// CapturedLocation is a real-time position reported from the field,
// keyed by customer. When present it overrides the coordinate fallback
// chain.
type CapturedLocation struct {
	CustomerID string    `json:"customer_id"`
	Address    string    `json:"address,omitempty"`
	City       string    `json:"city,omitempty"`
	State      string    `json:"state,omitempty"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	UpdatedAt  time.Time `json:"updated_at"`
}
