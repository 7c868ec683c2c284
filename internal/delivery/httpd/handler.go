// Package httpd is the local console surface: it serves rendered screen
// fragments to the browser shell and forwards user actions to the controller.
// It holds no business state of its own.
package httpd

import (
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/wyejay/edulibrary-client/internal/controller"
	"github.com/wyejay/edulibrary-client/internal/faults"
	"github.com/wyejay/edulibrary-client/internal/models"
	"github.com/wyejay/edulibrary-client/internal/notify"
	"github.com/wyejay/edulibrary-client/internal/prefs"
	"github.com/wyejay/edulibrary-client/internal/render"
	"github.com/wyejay/edulibrary-client/pkg/utils"
)

type Handler struct {
	ctrl   *controller.Controller
	prefs  *prefs.Store
	logger zerolog.Logger
}

func NewHandler(ctrl *controller.Controller, prefsStore *prefs.Store, logger zerolog.Logger) *Handler {
	return &Handler{
		ctrl:   ctrl,
		prefs:  prefsStore,
		logger: logger,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/", h.Index)
	router.Get("/health", h.HealthCheck)
	router.Get("/screen", h.GetScreen)
	router.Get("/export", h.ExportData)
	router.Get("/preferences", h.GetPreferences)
	router.Post("/preferences", h.SavePreferences)

	router.Get("/download/{id}", h.Download)
	router.Get("/preview/{id}", h.Preview)

	router.Route("/actions", func(r chi.Router) {
		r.Post("/navigate", h.Navigate)
		r.Post("/login", h.Login)
		r.Post("/register", h.Register)
		r.Post("/logout", h.Logout)
		r.Post("/search", h.Search)
		r.Post("/filter", h.Filter)
		r.Post("/upload", h.Upload)
		r.Post("/delete", h.DeleteFile)
		r.Post("/invite", h.Invite)
		r.Post("/ticket", h.CreateTicket)
		r.Post("/respond", h.RespondToTicket)

		r.Route("/admin", func(a chi.Router) {
			a.Post("/tab", h.AdminTab)
			a.Post("/users/{id}/toggle", h.ToggleUser)
			a.Delete("/users/{id}", h.DeleteUser)
			a.Post("/files/featured/{id}", h.ToggleFeatured)
			a.Post("/backup", h.Backup)
		})
	})
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>EduLibrary</title></head>
<body data-screen="{{.Screen}}">
<header>{{.UserBar}}</header>
<main id="content">{{.Content}}</main>
</body>
</html>`))

// Index serves the full screen document; the shell script polls /screen and
// posts to /actions from there on.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	view := h.ctrl.Snapshot()

	data := struct {
		Screen  controller.Screen
		UserBar template.HTML
		Content template.HTML
	}{Screen: view.Screen, Content: h.renderContent(view, r)}
	if view.User != nil {
		data.UserBar = render.UserBar(*view.User)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		h.logger.Error().Err(err).Msg("Failed to render index")
	}
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"service":   "edulibrary-console",
		"timestamp": time.Now().UTC(),
	})
}

type screenResponse struct {
	Screen        controller.Screen     `json:"screen"`
	AdminTab      controller.AdminTab   `json:"admin_tab"`
	User          *models.User          `json:"user,omitempty"`
	UserBar       template.HTML         `json:"user_bar"`
	Content       template.HTML         `json:"content"`
	Categories    template.HTML         `json:"category_options"`
	InviteLink    string                `json:"invite_link,omitempty"`
	Uploading     bool                  `json:"uploading"`
	Progress      float64               `json:"upload_progress"`
	Notifications []notify.Notification `json:"notifications"`
}

// GetScreen renders the active screen from a controller snapshot. The
// renderer is pure: all state comes in through the view.
func (h *Handler) GetScreen(w http.ResponseWriter, r *http.Request) {
	view := h.ctrl.Snapshot()

	resp := screenResponse{
		Screen:        view.Screen,
		AdminTab:      view.AdminTab,
		User:          view.User,
		Categories:    render.CategoryOptions(view.Categories),
		InviteLink:    view.InviteLink,
		Uploading:     view.Uploading,
		Progress:      view.UploadProgress,
		Notifications: view.Notices,
	}
	if view.User != nil {
		resp.UserBar = render.UserBar(*view.User)
	}
	resp.Content = h.renderContent(view, r)

	utils.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handler) renderContent(view controller.View, r *http.Request) template.HTML {
	switch view.Screen {
	case controller.ScreenAuth:
		// Invite links prefill the register form.
		query := r.URL.Query()
		return render.AuthScreen(query.Get("email"), query.Get("invite"))
	case controller.ScreenInvite:
		return render.InviteScreen(view.InviteLink)
	case controller.ScreenBrowse, controller.ScreenUpload:
		viewer := render.Viewer{}
		if view.User != nil {
			viewer = render.Viewer{Username: view.User.Username, IsAdmin: view.User.IsAdmin}
		}
		return render.FileGrid(view.Files, viewer, view.Filter.SearchText != "")
	case controller.ScreenSupport:
		return render.TicketList(view.Tickets, false)
	case controller.ScreenAdmin:
		switch view.AdminTab {
		case controller.AdminTabUsers:
			return render.UserList(view.Users)
		case controller.AdminTabFiles:
			return render.AdminFileList(view.Files)
		case controller.AdminTabTickets:
			return render.TicketList(view.Tickets, true)
		default:
			return render.Analytics(view.Analytics)
		}
	default:
		return render.FileGrid(nil, render.Viewer{}, false)
	}
}

func (h *Handler) Navigate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Section string `json:"section"`
	}
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.ctrl.Navigate(controller.Screen(req.Section))
	h.accepted(w)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.ctrl.Login(req.Username, req.Password)
	h.accepted(w)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.ctrl.Register(req)
	h.accepted(w)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.ctrl.Logout()
	h.accepted(w)
}

func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.ctrl.SearchInput(req.Query)
	h.accepted(w)
}

func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category     string `json:"category"`
		FeaturedOnly *bool  `json:"featured_only"`
	}
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Category != "" {
		h.ctrl.SetCategory(req.Category)
	}
	if req.FeaturedOnly != nil {
		h.ctrl.SetFeaturedOnly(*req.FeaturedOnly)
	}
	h.accepted(w)
}

// Upload accepts a multipart batch and hands it to the controller, which
// processes the files one at a time.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(64 << 20); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	category := r.FormValue("category")
	description := r.FormValue("description")
	tags := splitTags(r.FormValue("tags"))

	var reqs []models.UploadRequest
	if r.MultipartForm != nil {
		for _, header := range r.MultipartForm.File["pdf"] {
			file, err := header.Open()
			if err != nil {
				utils.ErrorResponse(w, http.StatusBadRequest, "Failed to read uploaded file")
				return
			}
			content, err := io.ReadAll(file)
			file.Close()
			if err != nil {
				utils.ErrorResponse(w, http.StatusBadRequest, "Failed to read uploaded file")
				return
			}
			reqs = append(reqs, models.UploadRequest{
				FileName:    header.Filename,
				Content:     content,
				Category:    category,
				Description: description,
				Tags:        tags,
			})
		}
	}

	h.ctrl.UploadFiles(reqs)
	h.accepted(w)
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID int `json:"id"`
	}
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.ctrl.DeleteFile(req.ID)
	h.accepted(w)
}

func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid file id")
		return
	}
	url, err := h.ctrl.DownloadFile(id)
	if err != nil {
		h.writeFault(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid file id")
		return
	}
	url, err := h.ctrl.PreviewFile(id)
	if err != nil {
		h.writeFault(w, err)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	var req models.InviteRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.ctrl.SendInvite(req.Email, req.Message)
	h.accepted(w)
}

func (h *Handler) CreateTicket(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTicketRequest
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.ctrl.CreateTicket(req)
	h.accepted(w)
}

func (h *Handler) RespondToTicket(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID       int    `json:"id"`
		Response string `json:"response"`
		Status   string `json:"status"`
	}
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.ctrl.RespondToTicket(req.ID, req.Response, req.Status)
	h.accepted(w)
}

func (h *Handler) AdminTab(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Tab string `json:"tab"`
	}
	if err := utils.ReadJSON(r, &req); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	h.ctrl.SetAdminTab(controller.AdminTab(req.Tab))
	h.accepted(w)
}

func (h *Handler) ToggleUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	h.ctrl.ToggleUserActive(id)
	h.accepted(w)
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid user id")
		return
	}
	h.ctrl.DeleteUser(id)
	h.accepted(w)
}

func (h *Handler) ToggleFeatured(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid file id")
		return
	}
	h.ctrl.ToggleFeatured(id)
	h.accepted(w)
}

func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	h.ctrl.CreateBackup()
	h.accepted(w)
}

// ExportData dumps the current user's profile and their uploaded files, the
// console counterpart of the browser's data export.
func (h *Handler) ExportData(w http.ResponseWriter, r *http.Request) {
	view := h.ctrl.Snapshot()
	if view.User == nil {
		h.writeFault(w, faults.New(faults.AuthRequired, "Please log in first"))
		return
	}

	var owned []models.FileRecord
	for _, f := range view.Files {
		if f.UploadedBy == view.User.Username {
			owned = append(owned, f)
		}
	}

	w.Header().Set("Content-Disposition", `attachment; filename="edulibrary-data-`+view.User.Username+`.json"`)
	utils.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"user":           view.User,
		"uploaded_files": owned,
		"export_date":    time.Now().UTC(),
	})
}

func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	p, err := h.prefs.Load()
	if err != nil {
		h.logger.Warn().Err(err).Msg("Failed to load preferences")
	}
	utils.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) SavePreferences(w http.ResponseWriter, r *http.Request) {
	var p prefs.Preferences
	if err := utils.ReadJSON(r, &p); err != nil {
		utils.ErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.prefs.Save(p); err != nil {
		utils.ErrorResponse(w, http.StatusInternalServerError, "Failed to save preferences")
		return
	}
	utils.SuccessResponse(w, p)
}

func splitTags(raw string) []string {
	var tags []string
	for _, part := range strings.Split(raw, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func (h *Handler) accepted(w http.ResponseWriter) {
	utils.WriteJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (h *Handler) writeFault(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if kind, ok := faults.KindOf(err); ok {
		switch kind {
		case faults.AuthRequired:
			status = http.StatusUnauthorized
		case faults.Forbidden:
			status = http.StatusForbidden
		case faults.ValidationFailed:
			status = http.StatusBadRequest
		case faults.NotFound:
			status = http.StatusNotFound
		case faults.NetworkFailure, faults.ServerRejected:
			status = http.StatusBadGateway
		}
	}
	utils.ErrorResponse(w, status, faults.UserMessage(err, "Request failed"))
}
