package models

import "time"

// DashboardStats are the admin dashboard counters.
type DashboardStats struct {
	TotalItems       int `bson:"total_items" json:"totalItems"`
	StockInCount     int `bson:"stock_in_count" json:"stockInCount"`
	StockOutCount    int `bson:"stock_out_count" json:"stockOutCount"`
	DeadStockCount   int `bson:"dead_stock_count" json:"deadStockCount"`
	UsersCount       int `bson:"users_count" json:"usersCount"`
	DepartmentsCount int `bson:"departments_count" json:"departmentsCount"`
}

// RecentStockIn is one entry of the recent stock-in activity feed.
type RecentStockIn struct {
	ID         string    `json:"_id"`
	ItemName   string    `json:"item_name"`
	Quantity   int       `json:"quantity"`
	ReceivedAt time.Time `json:"received_at,omitempty"`
	Supplier   string    `json:"supplier,omitempty"`
}

// RecentStockOut is one entry of the recent stock-out activity feed.
type RecentStockOut struct {
	ID       string    `json:"_id"`
	ItemName string    `json:"item_name"`
	Quantity int       `json:"quantity"`
	IssuedAt time.Time `json:"issued_at,omitempty"`
	UserName string    `json:"user_name"`
	UserRole string    `json:"user_role"`
}

// Dashboard is the admin landing view.
type Dashboard struct {
	Stats          DashboardStats   `json:"stats"`
	RecentStockIn  []RecentStockIn  `json:"recentStockIn"`
	RecentStockOut []RecentStockOut `json:"recentStockOut"`
	// Partial is set when at least one collection could not be loaded.
	Partial     bool      `json:"partial"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// DashboardSnapshot is the persisted form of the dashboard counters.
type DashboardSnapshot struct {
	Date      time.Time      `bson:"date" json:"date"`
	Stats     DashboardStats `bson:"stats" json:"stats"`
	Partial   bool           `bson:"partial" json:"partial"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
}
