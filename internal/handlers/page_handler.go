package handlers

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
)

// Page describes one client screen: where it lives and who may open it.
// ExternalURL set means the page opens outside the app instead of a Path.
type Page struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Path        string `json:"path,omitempty"`
	ExternalURL string `json:"external_url,omitempty"`
	NeedsLogin  bool   `json:"needs_login"`
	AdminOnly   bool   `json:"admin_only"`
}

// The screens clients can navigate to. Asking for an id that is not here
// is a no-op, not an error, so stale deep links degrade silently.
var pageRegistry = map[string]Page{
	"dashboard":     {ID: "dashboard", Title: "Outage Dashboard", Path: "/"},
	"report":        {ID: "report", Title: "Report an Outage", Path: "/report", NeedsLogin: true},
	"calendar":      {ID: "calendar", Title: "Outage Calendar", Path: "/calendar"},
	"map":           {ID: "map", Title: "Outage Map", Path: "/map"},
	"notifications": {ID: "notifications", Title: "Notifications", Path: "/notifications", NeedsLogin: true},
	"profile":       {ID: "profile", Title: "My Profile", Path: "/profile", NeedsLogin: true},
	"moderation":    {ID: "moderation", Title: "Report Moderation", Path: "/admin/reports", NeedsLogin: true, AdminOnly: true},
	"advisories":    {ID: "advisories", Title: "Utility Advisories", ExternalURL: "https://www.facebook.com/beneco.page"},
}

// PageHandler serves the page registry
type PageHandler struct{}

// NewPageHandler creates a new PageHandler
func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

// RegisterPageRoutes registers page registry routes
func (h *PageHandler) RegisterPageRoutes(g *echo.Group) {
	g.GET("/pages", h.List)
	g.GET("/pages/:id", h.Get)
}

// List returns every navigable page, ordered by id.
func (h *PageHandler) List(c echo.Context) error {
	pages := make([]Page, 0, len(pageRegistry))
	for _, p := range pageRegistry {
		pages = append(pages, p)
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].ID < pages[j].ID })
	return c.JSON(http.StatusOK, pages)
}

// Get returns one page descriptor; unknown ids answer 204.
func (h *PageHandler) Get(c echo.Context) error {
	page, ok := pageRegistry[c.Param("id")]
	if !ok {
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, page)
}
