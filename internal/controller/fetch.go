package controller

import "github.com/wyejay/edulibrary-client/internal/models"

// The refresh helpers run on the loop, issue the fetch in the background and
// re-enter the loop with a completion event. Each carries the sequence number
// it was issued under; a completion older than the latest issued fetch for
// the same resource is discarded, so a slow early request can never overwrite
// a fast later one. A fetch failure leaves the previous data intact.

func (c *Controller) refreshFiles() {
	c.filesSeq++
	seq := c.filesSeq
	filter := c.filter
	go func() {
		resp, err := c.gw.ListFiles(c.ctx, filter)
		c.post(func() { c.applyFiles(seq, resp, err) })
	}()
}

func (c *Controller) applyFiles(seq uint64, resp *models.FilesResponse, err error) {
	if seq != c.filesSeq {
		c.logger.Debug().Uint64("seq", seq).Uint64("latest", c.filesSeq).Msg("Discarding superseded file list")
		return
	}
	if c.screen != ScreenBrowse && c.screen != ScreenUpload && c.screen != ScreenAdmin {
		return
	}
	if err != nil {
		c.fail(err, "Failed to load files")
		return
	}
	c.catalog.Replace(resp.Files, resp.Categories)
}

func (c *Controller) refreshTickets() {
	c.ticketsSeq++
	seq := c.ticketsSeq
	go func() {
		tickets, err := c.gw.ListTickets(c.ctx)
		c.post(func() { c.applyTickets(seq, tickets, err) })
	}()
}

func (c *Controller) applyTickets(seq uint64, tickets []models.Ticket, err error) {
	if seq != c.ticketsSeq {
		return
	}
	if c.screen != ScreenSupport && c.screen != ScreenAdmin {
		return
	}
	if err != nil {
		c.fail(err, "Failed to load tickets")
		return
	}
	c.tickets = tickets
}

func (c *Controller) refreshUsers() {
	c.usersSeq++
	seq := c.usersSeq
	go func() {
		users, err := c.gw.ListUsers(c.ctx)
		c.post(func() { c.applyUsers(seq, users, err) })
	}()
}

func (c *Controller) applyUsers(seq uint64, users []models.User, err error) {
	if seq != c.usersSeq || c.screen != ScreenAdmin {
		return
	}
	if err != nil {
		c.fail(err, "Failed to load users")
		return
	}
	c.users = users
}

func (c *Controller) refreshAnalytics() {
	c.analyticsSeq++
	seq := c.analyticsSeq
	go func() {
		snap, err := c.gw.Analytics(c.ctx)
		c.post(func() { c.applyAnalytics(seq, snap, err) })
	}()
}

func (c *Controller) applyAnalytics(seq uint64, snap *models.AnalyticsSnapshot, err error) {
	if seq != c.analyticsSeq || c.screen != ScreenAdmin {
		return
	}
	if err != nil {
		c.fail(err, "Failed to load analytics")
		return
	}
	c.analytics = snap
}
