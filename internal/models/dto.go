package models

// Data Transfer Objects

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	InviteCode string `json:"invite_code"`
}

type UserInfoResponse struct {
	LoggedIn bool  `json:"logged_in"`
	User     *User `json:"user,omitempty"`
}

type LoginResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user"`
}

// FileFilter is the client-side view filter. Empty or "all" category means no
// category restriction; empty SearchText matches every record.
type FileFilter struct {
	Category     string
	SearchText   string
	FeaturedOnly bool
}

type FilesResponse struct {
	Files      []FileRecord `json:"files"`
	Categories []string     `json:"categories"`
}

type UploadRequest struct {
	FileName    string
	Content     []byte
	Category    string
	Description string
	Tags        []string
}

type UploadResult struct {
	Message      string `json:"message"`
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
}

type InviteRequest struct {
	Email   string `json:"email"`
	Message string `json:"message"`
}

type InviteResult struct {
	Message    string `json:"message"`
	InviteLink string `json:"invite_link,omitempty"`
}

type CreateTicketRequest struct {
	Title       string `json:"title"`
	Priority    string `json:"priority"`
	Description string `json:"description"`
}

type TicketsResponse struct {
	Tickets []Ticket `json:"tickets"`
}

type RespondTicketRequest struct {
	Response string `json:"response"`
	Status   string `json:"status"`
}

type UsersResponse struct {
	Users []User `json:"users"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
