// Package controller owns the screen state machine and orchestrates fetches,
// state updates and notifications. All state transitions run on a single
// event loop goroutine: entry points post closures onto the loop, network
// calls run in the background and re-enter the loop as completion events, so
// the sequence "send request, await response, update state" is strictly
// ordered per action and no two fetch results ever race on the caches.
package controller

import (
	"context"
	"encoding/base64"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/wyejay/edulibrary-client/internal/catalog"
	"github.com/wyejay/edulibrary-client/internal/faults"
	"github.com/wyejay/edulibrary-client/internal/gateway"
	"github.com/wyejay/edulibrary-client/internal/models"
	"github.com/wyejay/edulibrary-client/internal/notify"
	"github.com/wyejay/edulibrary-client/internal/session"
)

type Screen string

const (
	ScreenAuth    Screen = "auth"
	ScreenBrowse  Screen = "browse"
	ScreenUpload  Screen = "upload"
	ScreenInvite  Screen = "invite"
	ScreenSupport Screen = "support"
	ScreenAdmin   Screen = "admin"
)

type AdminTab string

const (
	AdminTabAnalytics AdminTab = "analytics"
	AdminTabUsers     AdminTab = "users"
	AdminTabFiles     AdminTab = "files"
	AdminTabTickets   AdminTab = "tickets"
)

// View is an immutable snapshot of everything the renderer needs.
type View struct {
	Screen         Screen
	AdminTab       AdminTab
	User           *models.User
	Filter         models.FileFilter
	Files          []models.FileRecord
	Categories     []string
	Tickets        []models.Ticket
	Users          []models.User
	Analytics      *models.AnalyticsSnapshot
	Uploading      bool
	UploadProgress float64
	InviteLink     string
	Notices        []notify.Notification
}

type Controller struct {
	gw       gateway.Gateway
	session  *session.Session
	catalog  *catalog.Cache
	feed     *notify.Feed
	logger   zerolog.Logger
	debounce time.Duration

	actions  chan func()
	done     chan struct{}
	stopOnce sync.Once
	ctx      context.Context

	// Everything below is owned by the loop goroutine.
	screen         Screen
	adminTab       AdminTab
	filter         models.FileFilter
	tickets        []models.Ticket
	users          []models.User
	analytics      *models.AnalyticsSnapshot
	uploading      bool
	uploadProgress float64
	inviteLink     string
	deleting       map[int]bool

	// Sequence numbers implement supersession: a completion is applied only
	// when it belongs to the latest issued fetch for its resource.
	filesSeq     uint64
	ticketsSeq   uint64
	usersSeq     uint64
	analyticsSeq uint64
	searchGen    uint64
	pendingQuery string
}

func New(
	gw gateway.Gateway,
	sess *session.Session,
	cache *catalog.Cache,
	feed *notify.Feed,
	debounce time.Duration,
	logger zerolog.Logger,
) *Controller {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Controller{
		gw:       gw,
		session:  sess,
		catalog:  cache,
		feed:     feed,
		logger:   logger,
		debounce: debounce,
		actions:  make(chan func(), 64),
		done:     make(chan struct{}),
		screen:   ScreenAuth,
		adminTab: AdminTabAnalytics,
		deleting: make(map[int]bool),
	}
}

// Start launches the event loop and bootstraps the session: a valid backend
// session lands on browse, anything else on auth.
func (c *Controller) Start(ctx context.Context) {
	c.ctx = ctx
	go c.loop()
	c.post(c.bootstrap)
}

func (c *Controller) Stop() {
	c.stopOnce.Do(func() { close(c.done) })
}

func (c *Controller) loop() {
	for {
		select {
		case fn := <-c.actions:
			fn()
		case <-c.done:
			return
		}
	}
}

func (c *Controller) post(fn func()) {
	select {
	case c.actions <- fn:
	case <-c.done:
	}
}

// Snapshot serializes through the loop so callers always observe a consistent
// view, never a half-applied transition.
func (c *Controller) Snapshot() View {
	ch := make(chan View, 1)
	c.post(func() { ch <- c.buildView() })
	select {
	case v := <-ch:
		return v
	case <-c.done:
		return View{Screen: ScreenAuth}
	}
}

func (c *Controller) buildView() View {
	v := View{
		Screen:         c.screen,
		AdminTab:       c.adminTab,
		Filter:         c.filter,
		Files:          c.catalog.Filter(c.filter),
		Categories:     c.catalog.Categories(),
		Tickets:        c.tickets,
		Users:          c.users,
		Analytics:      c.analytics,
		Uploading:      c.uploading,
		UploadProgress: c.uploadProgress,
		InviteLink:     c.inviteLink,
		Notices:        c.feed.Active(),
	}
	if user, ok := c.session.Current(); ok {
		v.User = &user
	}
	return v
}

// fail reports err to the feed. An AuthRequired failure additionally drops
// the local session and redirects to the auth screen.
func (c *Controller) fail(err error, fallback string) {
	c.feed.Push(notify.LevelError, faults.UserMessage(err, fallback))
	if faults.IsKind(err, faults.AuthRequired) {
		c.session.Clear()
		c.screen = ScreenAuth
	}
	c.logger.Debug().Err(err).Msg("Action failed")
}

func (c *Controller) guardLogin() bool {
	if err := c.session.RequireLogin(); err != nil {
		c.fail(err, "Please log in first")
		return false
	}
	return true
}

func (c *Controller) guardAdmin() bool {
	if err := c.session.RequireAdmin(); err != nil {
		c.fail(err, "Admin access required")
		return false
	}
	return true
}

func (c *Controller) bootstrap() {
	go func() {
		user, loggedIn, err := c.gw.CurrentUser(c.ctx)
		c.post(func() {
			if err != nil || !loggedIn {
				c.screen = ScreenAuth
				return
			}
			c.session.Set(*user)
			c.inviteLink = inviteLink(user.Username)
			c.screen = ScreenBrowse
			c.refreshFiles()
		})
	}()
}

// Navigate drives the screen state machine. Entering browse refreshes the
// catalog, support refreshes tickets, admin refreshes analytics; the other
// admin tabs fetch lazily on activation.
func (c *Controller) Navigate(screen Screen) {
	c.post(func() {
		if screen != ScreenAuth && !c.guardLogin() {
			return
		}
		if screen == ScreenAdmin && !c.guardAdmin() {
			return
		}

		c.screen = screen
		switch screen {
		case ScreenBrowse:
			c.refreshFiles()
		case ScreenSupport:
			c.refreshTickets()
		case ScreenAdmin:
			c.adminTab = AdminTabAnalytics
			c.refreshAnalytics()
		}
	})
}

func (c *Controller) SetAdminTab(tab AdminTab) {
	c.post(func() {
		if !c.guardAdmin() {
			return
		}
		c.adminTab = tab
		switch tab {
		case AdminTabAnalytics:
			c.refreshAnalytics()
		case AdminTabUsers:
			c.refreshUsers()
		case AdminTabFiles:
			c.refreshFiles()
		case AdminTabTickets:
			c.refreshTickets()
		}
	})
}

func (c *Controller) Login(username, password string) {
	c.post(func() {
		if strings.TrimSpace(username) == "" || password == "" {
			c.fail(faults.New(faults.ValidationFailed, "Username and password are required"), "")
			return
		}
		go func() {
			user, err := c.gw.Login(c.ctx, username, password)
			c.post(func() {
				if err != nil {
					c.feed.Push(notify.LevelError, faults.UserMessage(err, "Login failed"))
					return
				}
				c.session.Set(*user)
				c.inviteLink = inviteLink(user.Username)
				c.screen = ScreenBrowse
				c.feed.Push(notify.LevelSuccess, "Login successful!")
				c.refreshFiles()
			})
		}()
	})
}

func (c *Controller) Register(req models.RegisterRequest) {
	c.post(func() {
		if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Email) == "" || req.Password == "" {
			c.fail(faults.New(faults.ValidationFailed, "All fields are required"), "")
			return
		}
		go func() {
			err := c.gw.Register(c.ctx, req)
			c.post(func() {
				if err != nil {
					c.fail(err, "Registration failed")
					return
				}
				c.feed.Push(notify.LevelSuccess, "Registration successful! Please login.")
			})
		}()
	})
}

func (c *Controller) Logout() {
	c.post(func() {
		go func() {
			err := c.gw.Logout(c.ctx)
			c.post(func() {
				if err != nil {
					c.logger.Warn().Err(err).Msg("Logout request failed")
				}
				c.session.Clear()
				c.catalog.Replace(nil, nil)
				c.tickets = nil
				c.users = nil
				c.analytics = nil
				c.inviteLink = ""
				c.screen = ScreenAuth
				c.feed.Push(notify.LevelSuccess, "Logged out successfully")
			})
		}()
	})
}

// SearchInput coalesces rapid keystrokes: only the query standing after the
// debounce window triggers a fetch, and a superseded window never fires.
func (c *Controller) SearchInput(query string) {
	c.post(func() {
		c.pendingQuery = query
		c.searchGen++
		gen := c.searchGen
		time.AfterFunc(c.debounce, func() {
			c.post(func() {
				if gen != c.searchGen {
					return
				}
				c.filter.SearchText = strings.TrimSpace(c.pendingQuery)
				c.refreshFiles()
			})
		})
	})
}

func (c *Controller) SetCategory(category string) {
	c.post(func() {
		c.filter.Category = category
		c.refreshFiles()
	})
}

func (c *Controller) SetFeaturedOnly(featured bool) {
	c.post(func() {
		c.filter.FeaturedOnly = featured
		c.refreshFiles()
	})
}

// UploadFiles processes the batch strictly sequentially, reporting progress
// as a fraction of files completed. The uploads counter is adjusted
// optimistically by the number of successes; the next authoritative fetch
// overwrites any drift.
func (c *Controller) UploadFiles(reqs []models.UploadRequest) {
	c.post(func() {
		if !c.guardLogin() {
			return
		}
		if len(reqs) == 0 {
			c.fail(faults.New(faults.ValidationFailed, "Please select file(s) to upload"), "")
			return
		}
		for _, r := range reqs {
			if r.FileName == "" || len(r.Content) == 0 {
				c.fail(faults.New(faults.ValidationFailed, "Please select file(s) to upload"), "")
				return
			}
			if strings.TrimSpace(r.Category) == "" {
				c.fail(faults.New(faults.ValidationFailed, "Please choose a category"), "")
				return
			}
		}
		if c.uploading {
			c.fail(faults.New(faults.ValidationFailed, "An upload is already in progress"), "")
			return
		}

		c.uploading = true
		c.uploadProgress = 0
		total := len(reqs)

		go func() {
			succeeded := 0
			var lastErr error
			for i, req := range reqs {
				_, err := c.gw.Upload(c.ctx, req)
				if err != nil {
					lastErr = err
				} else {
					succeeded++
				}
				done := i + 1
				c.post(func() {
					c.uploadProgress = float64(done) / float64(total)
				})
			}

			c.post(func() {
				c.uploading = false
				c.uploadProgress = 0
				if succeeded > 0 {
					c.session.AdjustUploads(succeeded)
					c.feed.Push(notify.LevelSuccess, "Upload successful")
					c.refreshFiles()
				}
				if succeeded == 0 && lastErr != nil {
					c.fail(lastErr, "All uploads failed. Please try again.")
				}
			})
		}()
	})
}

// DeleteFile guards locally (session, ownership, staleness) before touching
// the network. A second rapid delete of the same id resolves to NotFound at
// the UI layer instead of issuing a duplicate request, so the optimistic
// uploads counter can never go negative.
func (c *Controller) DeleteFile(id int) {
	c.post(func() {
		if !c.guardLogin() {
			return
		}
		if c.deleting[id] {
			c.fail(faults.New(faults.NotFound, "File is no longer in the catalog"), "")
			return
		}

		record, err := c.catalog.ByID(id)
		if err != nil {
			// Stale view: the record vanished server-side, refresh instead
			// of crashing.
			c.fail(err, "File is no longer in the catalog")
			c.refreshFiles()
			return
		}

		owned := record.UploadedBy == c.session.Username()
		if !owned && !c.session.IsAdmin() {
			c.fail(faults.New(faults.Forbidden, "You can only delete your own files"), "")
			return
		}

		c.deleting[id] = true
		go func() {
			err := c.gw.Delete(c.ctx, id)
			c.post(func() {
				delete(c.deleting, id)
				if err != nil {
					c.fail(err, "Failed to delete file")
					return
				}
				if owned {
					c.session.AdjustUploads(-1)
				}
				c.feed.Push(notify.LevelSuccess, "File deleted successfully")
				c.refreshFiles()
			})
		}()
	})
}

// DownloadFile validates against the cache and returns the backend URL for
// the caller to navigate to. The downloads counter is bumped optimistically
// and a delayed refresh picks up the authoritative numbers.
func (c *Controller) DownloadFile(id int) (string, error) {
	type result struct {
		url string
		err error
	}
	ch := make(chan result, 1)
	c.post(func() {
		if err := c.session.RequireLogin(); err != nil {
			c.fail(err, "Please log in first")
			ch <- result{err: err}
			return
		}
		if _, err := c.catalog.ByID(id); err != nil {
			c.fail(err, "File is no longer in the catalog")
			c.refreshFiles()
			ch <- result{err: err}
			return
		}
		c.session.AdjustDownloads(1)
		time.AfterFunc(time.Second, func() {
			c.post(c.refreshFiles)
		})
		ch <- result{url: c.gw.DownloadURL(id)}
	})
	select {
	case r := <-ch:
		return r.url, r.err
	case <-c.done:
		return "", faults.New(faults.NetworkFailure, "Client is shutting down")
	}
}

func (c *Controller) PreviewFile(id int) (string, error) {
	type result struct {
		url string
		err error
	}
	ch := make(chan result, 1)
	c.post(func() {
		if _, err := c.catalog.ByID(id); err != nil {
			c.fail(err, "File is no longer in the catalog")
			c.refreshFiles()
			ch <- result{err: err}
			return
		}
		ch <- result{url: c.gw.PreviewURL(id)}
	})
	select {
	case r := <-ch:
		return r.url, r.err
	case <-c.done:
		return "", faults.New(faults.NetworkFailure, "Client is shutting down")
	}
}

func (c *Controller) SendInvite(email, message string) {
	c.post(func() {
		if !c.guardLogin() {
			return
		}
		if strings.TrimSpace(email) == "" {
			c.fail(faults.New(faults.ValidationFailed, "Email is required"), "")
			return
		}
		go func() {
			res, err := c.gw.SendInvite(c.ctx, email, message)
			c.post(func() {
				if err != nil {
					c.fail(err, "Failed to send invitation")
					return
				}
				if res.InviteLink != "" {
					c.inviteLink = res.InviteLink
				}
				c.feed.Push(notify.LevelSuccess, "Invitation sent successfully!")
			})
		}()
	})
}

func (c *Controller) CreateTicket(req models.CreateTicketRequest) {
	c.post(func() {
		if !c.guardLogin() {
			return
		}
		if strings.TrimSpace(req.Title) == "" || strings.TrimSpace(req.Description) == "" {
			c.fail(faults.New(faults.ValidationFailed, "Title and description are required"), "")
			return
		}
		go func() {
			err := c.gw.CreateTicket(c.ctx, req)
			c.post(func() {
				if err != nil {
					c.fail(err, "Failed to create ticket")
					return
				}
				c.feed.Push(notify.LevelSuccess, "Support ticket created successfully!")
				c.refreshTickets()
			})
		}()
	})
}

func (c *Controller) RespondToTicket(id int, response, status string) {
	c.post(func() {
		if !c.guardAdmin() {
			return
		}
		if strings.TrimSpace(response) == "" {
			c.fail(faults.New(faults.ValidationFailed, "Please enter a response"), "")
			return
		}
		go func() {
			err := c.gw.RespondToTicket(c.ctx, id, response, status)
			c.post(func() {
				if err != nil {
					c.fail(err, "Failed to respond to ticket")
					return
				}
				c.feed.Push(notify.LevelSuccess, "Response sent successfully")
				c.refreshTickets()
			})
		}()
	})
}

func (c *Controller) ToggleUserActive(id int) {
	c.post(func() {
		if !c.guardAdmin() {
			return
		}
		go func() {
			message, err := c.gw.ToggleUserActive(c.ctx, id)
			c.post(func() {
				if err != nil {
					c.fail(err, "Failed to update user status")
					return
				}
				if message == "" {
					message = "User status updated"
				}
				c.feed.Push(notify.LevelSuccess, message)
				c.refreshUsers()
			})
		}()
	})
}

func (c *Controller) DeleteUser(id int) {
	c.post(func() {
		if !c.guardAdmin() {
			return
		}
		go func() {
			err := c.gw.DeleteUser(c.ctx, id)
			c.post(func() {
				if err != nil {
					c.fail(err, "Failed to delete user")
					return
				}
				c.feed.Push(notify.LevelSuccess, "User deleted successfully")
				c.refreshUsers()
			})
		}()
	})
}

func (c *Controller) ToggleFeatured(id int) {
	c.post(func() {
		if !c.guardAdmin() {
			return
		}
		go func() {
			message, err := c.gw.ToggleFeatured(c.ctx, id)
			c.post(func() {
				if err != nil {
					c.fail(err, "Failed to update file")
					return
				}
				if message == "" {
					message = "File updated"
				}
				c.feed.Push(notify.LevelSuccess, message)
				c.refreshFiles()
			})
		}()
	})
}

func (c *Controller) CreateBackup() {
	c.post(func() {
		if !c.guardAdmin() {
			return
		}
		go func() {
			message, err := c.gw.CreateBackup(c.ctx)
			c.post(func() {
				if err != nil {
					c.fail(err, "Backup failed")
					return
				}
				if message == "" {
					message = "Backup created"
				}
				c.feed.Push(notify.LevelSuccess, message)
			})
		}()
	})
}

func inviteLink(username string) string {
	return "?invite=" + base64.StdEncoding.EncodeToString([]byte(username))
}
