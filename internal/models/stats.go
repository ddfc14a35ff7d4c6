// file: internal/models/stats.go
package models

// CategoryCount is one bucket of a category distribution.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// LocationCount is one bucket of a location distribution.
type LocationCount struct {
	Location string `json:"location"`
	Count    int64  `json:"count"`
}

// StatusCount is one bucket of an application status distribution.
type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

// MonthCount is one month of a registration series, month formatted
// as YYYY-MM.
type MonthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

// JobStats aggregates the public job board.
type JobStats struct {
	TotalJobs     int64           `json:"totalJobs"`
	AvgSalaryMin  float64         `json:"avgSalaryMin"`
	AvgSalaryMax  float64         `json:"avgSalaryMax"`
	TotalViews    int64           `json:"totalViews"`
	TopCategories []CategoryCount `json:"topCategories"`
	TopLocations  []LocationCount `json:"topLocations"`
}

// AdminOverview holds platform-wide entity counts.
type AdminOverview struct {
	TotalUsers        int64 `json:"totalUsers"`
	TotalJobseekers   int64 `json:"totalJobseekers"`
	TotalEmployers    int64 `json:"totalEmployers"`
	TotalAdmins       int64 `json:"totalAdmins"`
	ActiveUsers       int64 `json:"activeUsers"`
	TotalJobs         int64 `json:"totalJobs"`
	ActiveJobs        int64 `json:"activeJobs"`
	TotalApplications int64 `json:"totalApplications"`
}

// AdminRecentActivity counts entities created in the trailing window.
type AdminRecentActivity struct {
	NewUsers        int64 `json:"newUsers"`
	NewJobs         int64 `json:"newJobs"`
	NewApplications int64 `json:"newApplications"`
}

// AdminStats is the full platform statistics payload.
type AdminStats struct {
	Overview             AdminOverview       `json:"overview"`
	RecentActivity       AdminRecentActivity `json:"recentActivity"`
	ApplicationsByStatus []StatusCount       `json:"applicationsByStatus"`
	JobsByCategory       []CategoryCount     `json:"jobsByCategory"`
	MonthlyRegistrations []MonthCount        `json:"monthlyRegistrations"`
}

// UserActivity summarizes one user's footprint for the admin detail view.
type UserActivity struct {
	JobsPosted            int64 `json:"jobsPosted"`
	ApplicationsSubmitted int64 `json:"applicationsSubmitted"`
	ApplicationsReceived  int64 `json:"applicationsReceived"`
}
