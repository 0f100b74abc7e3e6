// Package apitest provides an in-process fake of the remote university API
// for package tests. It mirrors the consumed wire contract: JWT bearer
// auth, the paginated listing envelope (or its older bare-array form), the
// dashboard record, and the payment initialization stub.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/existflow/unicompass/internal/model"
)

const signingSecret = "apitest-secret"

// Server is the fake API. Exported fields may be adjusted before the first
// request of a test; counters are read back to assert request behavior.
type Server struct {
	HTTP *httptest.Server

	mu sync.Mutex

	// Fixture state
	Universities []model.University
	PageSize     int
	Paginated    bool // envelope {results,next,count} vs bare array
	Username     string
	Password     string
	Groups       []string
	Staff        bool
	Dashboard    model.Dashboard
	Users        []map[string]any

	// ActivateAfter flips the subscription to active once the dashboard
	// has been fetched this many times (0 disables).
	ActivateAfter int

	// RejectBearer makes every protected call answer 401, as an expired
	// token would.
	RejectBearer bool

	// FailList makes the listing endpoint answer 500 with a detail body.
	FailList bool

	// Counters
	ListCalls      int
	DashboardGets  int
	DashboardPosts int
}

// New starts a fake API with sane defaults.
func New() *Server {
	s := &Server{
		PageSize:  2,
		Paginated: true,
		Username:  "amira",
		Password:  "s3cret",
		Groups:    []string{"students"},
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.POST("/api/token/", s.handleToken)
	e.POST("/api/auth/users/", s.handleRegister)

	authed := e.Group("", s.requireBearer)
	authed.GET("/api/universities/", s.handleList)
	authed.GET("/api/universities/:id/", s.handleGet)
	authed.GET("/api/dashboard/", s.handleDashboardGet)
	authed.POST("/api/dashboard/", s.handleDashboardPost)
	authed.POST("/api/chapa/initialize/", s.handlePayment)
	authed.POST("/api/universities/create/", s.handleCreate)
	authed.PUT("/api/universities/:id/update/", s.handleUpdate)
	authed.DELETE("/api/universities/:id/delete/", s.handleDelete)
	authed.GET("/api/users/", s.handleUsers)
	authed.POST("/api/users/", s.handleUserCreate)
	authed.PATCH("/api/users/:id/", s.handleUserUpdate)
	authed.DELETE("/api/users/:id/", s.handleUserDelete)
	authed.GET("/api/admin/stats/", s.handleStats)

	s.HTTP = httptest.NewServer(e)
	return s
}

// URL returns the fake API base URL.
func (s *Server) URL() string {
	return s.HTTP.URL
}

// Close shuts the fake down.
func (s *Server) Close() {
	s.HTTP.Close()
}

// MintToken signs an access token carrying the given claims, the way the
// real API would.
func MintToken(username string, groups []string, staff bool, ttl time.Duration) string {
	claims := jwt.MapClaims{
		"username": username,
		"groups":   groups,
		"is_staff": staff,
		"exp":      jwt.NewNumericDate(time.Now().Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, _ := token.SignedString([]byte(signingSecret))
	return signed
}

func (s *Server) handleToken(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid request"})
	}

	s.mu.Lock()
	ok := req.Username == s.Username && req.Password == s.Password
	groups, staff := s.Groups, s.Staff
	s.mu.Unlock()

	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"detail": "No active account found with the given credentials",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"access":  MintToken(req.Username, groups, staff, time.Hour),
		"refresh": MintToken(req.Username, groups, staff, 24*time.Hour),
	})
}

func (s *Server) handleRegister(c echo.Context) error {
	var req struct {
		Email    string `json:"email"`
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid request"})
	}
	if req.Username == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, map[string][]string{
			"username": {"This field may not be blank."},
		})
	}
	return c.JSON(http.StatusCreated, map[string]string{"username": req.Username, "email": req.Email})
}

func (s *Server) requireBearer(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		reject := s.RejectBearer
		s.mu.Unlock()

		header := c.Request().Header.Get("Authorization")
		raw, found := strings.CutPrefix(header, "Bearer ")
		if reject || !found || raw == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Given token not valid"})
		}

		_, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
			return []byte(signingSecret), nil
		})
		if err != nil {
			return c.JSON(http.StatusUnauthorized, map[string]string{"detail": "Given token not valid"})
		}
		return next(c)
	}
}

func (s *Server) handleList(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ListCalls++

	if s.FailList {
		return c.JSON(http.StatusInternalServerError, map[string]string{"detail": "catalog unavailable"})
	}

	matched := s.filtered(c)

	if !s.Paginated {
		return c.JSON(http.StatusOK, matched)
	}

	page := 1
	if p := c.QueryParam("page"); p != "" {
		if n, err := strconv.Atoi(p); err == nil && n > 0 {
			page = n
		}
	}
	size := s.PageSize
	if ps := c.QueryParam("page_size"); ps != "" {
		if n, err := strconv.Atoi(ps); err == nil && n > 0 {
			size = n
		}
	}

	start := (page - 1) * size
	end := start + size
	if start > len(matched) {
		start = len(matched)
	}
	if end > len(matched) {
		end = len(matched)
	}

	var next *string
	if end < len(matched) {
		u := s.HTTP.URL + "/api/universities/?page=" + strconv.Itoa(page+1)
		next = &u
	}

	return c.JSON(http.StatusOK, map[string]any{
		"results": matched[start:end],
		"next":    next,
		"count":   len(matched),
	})
}

// filtered applies the listing params the way the real API does. Kept
// deliberately simple; the client-side predicate has its own tests.
func (s *Server) filtered(c echo.Context) []model.University {
	search := strings.ToLower(c.QueryParam("search"))
	country := c.QueryParam("country")
	degree := c.QueryParam("degree_level")

	matched := make([]model.University, 0, len(s.Universities))
	for _, u := range s.Universities {
		if search != "" &&
			!strings.Contains(strings.ToLower(u.Name), search) &&
			!strings.Contains(strings.ToLower(u.Country), search) &&
			!strings.Contains(strings.ToLower(u.CourseOffered), search) {
			continue
		}
		if country != "" && !strings.EqualFold(u.Country, country) {
			continue
		}
		if degree != "" && !strings.EqualFold(u.DegreeLevel, degree) {
			continue
		}
		matched = append(matched, u)
	}
	return matched
}

func (s *Server) handleGet(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.Universities {
		if u.ID == id {
			return c.JSON(http.StatusOK, u)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (s *Server) handleDashboardGet(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DashboardGets++
	if s.ActivateAfter > 0 && s.DashboardGets >= s.ActivateAfter {
		s.Dashboard.SubscriptionStatus = model.SubscriptionActive
	}
	if s.Dashboard.SubscriptionStatus == "" {
		s.Dashboard.SubscriptionStatus = model.SubscriptionNone
	}
	return c.JSON(http.StatusOK, s.Dashboard)
}

func (s *Server) handleDashboardPost(c echo.Context) error {
	var req struct {
		UniversityID int    `json:"university_id"`
		ListName     string `json:"list_name"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid request"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.DashboardPosts++

	bucket, ok := model.ParseBucket(req.ListName)
	if !ok {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "unknown list name"})
	}

	var uni *model.University
	for i := range s.Universities {
		if s.Universities[i].ID == req.UniversityID {
			uni = &s.Universities[i]
			break
		}
	}
	if uni == nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "unknown university"})
	}

	summary := model.University{ID: uni.ID, Name: uni.Name}
	switch bucket {
	case model.BucketFavorites:
		s.Dashboard.Favorites = append(s.Dashboard.Favorites, summary)
	case model.BucketPlanning:
		s.Dashboard.PlanningToApply = append(s.Dashboard.PlanningToApply, summary)
	case model.BucketApplied:
		s.Dashboard.Applied = append(s.Dashboard.Applied, summary)
	case model.BucketAccepted:
		s.Dashboard.Accepted = append(s.Dashboard.Accepted, summary)
	case model.BucketVisaApproved:
		s.Dashboard.VisaApproved = append(s.Dashboard.VisaApproved, summary)
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "added"})
}

func (s *Server) handlePayment(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":       "success",
		"checkout_url": "https://checkout.example/pay/123",
	})
}

func (s *Server) handleCreate(c echo.Context) error {
	var u model.University
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid request"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	maxID := 0
	for _, existing := range s.Universities {
		if existing.ID > maxID {
			maxID = existing.ID
		}
	}
	u.ID = maxID + 1
	s.Universities = append(s.Universities, u)
	return c.JSON(http.StatusCreated, u)
}

func (s *Server) handleUpdate(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var u model.University
	if err := c.Bind(&u); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid request"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Universities {
		if s.Universities[i].ID == id {
			u.ID = id
			s.Universities[i] = u
			return c.JSON(http.StatusOK, u)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (s *Server) handleDelete(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Universities {
		if s.Universities[i].ID == id {
			s.Universities = append(s.Universities[:i], s.Universities[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (s *Server) handleUsers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Users == nil {
		s.Users = []map[string]any{}
	}
	return c.JSON(http.StatusOK, s.Users)
}

func (s *Server) handleUserCreate(c echo.Context) error {
	var req map[string]any
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid request"})
	}
	username, _ := req["username"].(string)
	if username == "" {
		return c.JSON(http.StatusBadRequest, map[string][]string{
			"username": {"This field may not be blank."},
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	maxID := 0
	for _, u := range s.Users {
		if n, ok := u["id"].(int); ok && n > maxID {
			maxID = n
		}
	}
	user := map[string]any{
		"id":       maxID + 1,
		"username": username,
		"email":    req["email"],
		"is_staff": req["is_staff"] == true,
	}
	if g, ok := req["groups"]; ok {
		user["groups"] = g
	}
	s.Users = append(s.Users, user)
	return c.JSON(http.StatusCreated, user)
}

func (s *Server) handleUserUpdate(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var req map[string]any
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"detail": "invalid request"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.Users {
		if n, ok := u["id"].(int); ok && n == id {
			for k, v := range req {
				u[k] = v
			}
			u["id"] = id
			s.Users[i] = u
			return c.JSON(http.StatusOK, u)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (s *Server) handleUserDelete(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.Users {
		if n, ok := u["id"].(int); ok && n == id {
			s.Users = append(s.Users[:i], s.Users[i+1:]...)
			return c.NoContent(http.StatusNoContent)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"detail": "Not found."})
}

func (s *Server) handleStats(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, map[string]int{
		"total_users":        len(s.Users),
		"total_universities": len(s.Universities),
		"active_subscribers": 0,
	})
}
