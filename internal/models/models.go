package models

import "time"

// User is the profile shape owned by the backend. The client holds a
// non-authoritative copy; the next /user-info fetch overwrites any local drift.
type User struct {
	ID             int       `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	IsAdmin        bool      `json:"is_admin"`
	IsActive       bool      `json:"is_active"`
	UploadsCount   int       `json:"uploads_count"`
	DownloadsCount int       `json:"downloads_count"`
	JoinDate       time.Time `json:"join_date"`
}

type FileRecord struct {
	ID            int       `json:"id"`
	Filename      string    `json:"filename"`
	OriginalName  string    `json:"original_name"`
	Category      string    `json:"category"`
	Description   string    `json:"description"`
	Tags          []string  `json:"tags"`
	SizeMB        float64   `json:"size_mb"`
	UploadedBy    string    `json:"uploaded_by"`
	UploaderID    int       `json:"uploader_id"`
	UploadDate    time.Time `json:"upload_date"`
	DownloadCount int       `json:"download_count"`
	IsFeatured    bool      `json:"is_featured"`
}

const (
	TicketPriorityLow    = "low"
	TicketPriorityMedium = "medium"
	TicketPriorityHigh   = "high"

	TicketStatusOpen       = "open"
	TicketStatusInProgress = "in-progress"
	TicketStatusResolved   = "resolved"
)

type Ticket struct {
	ID            int        `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	Priority      string     `json:"priority"`
	Status        string     `json:"status"`
	User          string     `json:"user"`
	CreatedDate   time.Time  `json:"created_date"`
	ResolvedDate  *time.Time `json:"resolved_date,omitempty"`
	AdminResponse string     `json:"admin_response,omitempty"`
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type AnalyticsStats struct {
	TotalUsers     int     `json:"total_users"`
	ActiveUsers    int     `json:"active_users"`
	TotalFiles     int     `json:"total_files"`
	TotalDownloads int     `json:"total_downloads"`
	TotalSizeMB    float64 `json:"total_size_mb"`
	OpenTickets    int     `json:"open_tickets"`
}

// AnalyticsSnapshot is a read-only aggregate; the client never mutates it.
type AnalyticsSnapshot struct {
	Stats         AnalyticsStats  `json:"stats"`
	Categories    []CategoryCount `json:"categories"`
	RecentUploads []FileRecord    `json:"recent_uploads"`
}
