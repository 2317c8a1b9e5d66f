package testing

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/vidx/internal/models"
)

// TestPassword is accepted by [Backend] for every active account.
const TestPassword = "password"

// Backend is an in-memory video backend served over HTTP.
type Backend struct {
	mu        sync.Mutex
	Videos    []models.Video
	Users     []models.User
	Watchlist map[int64]bool
	Fail      map[string]int // "METHOD /path" -> status returned instead of handling
	Requests  []string
	nextID    int64
}

// NewBackend creates a [Backend] with count published videos titled "Video N" and two users:
// an admin (id 1, admin@example.com) and a disabled regular account (id 2, user@example.com).
func NewBackend(count int) *Backend {
	b := &Backend{Watchlist: map[int64]bool{}, Fail: map[string]int{}, nextID: 100}
	for i := 1; i <= count; i++ {
		b.Videos = append(b.Videos, models.Video{
			ID:        int64(i),
			Title:     fmt.Sprintf("Video %d", i),
			Duration:  60 * i,
			Src:       fmt.Sprintf("video-%d.mp4", i),
			Published: true,
		})
	}
	b.Users = []models.User{
		{ID: 1, FullName: "Admin", Email: "admin@example.com", Role: models.RoleAdmin, Active: true},
		{ID: 2, FullName: "Regular User", Email: "user@example.com", Role: models.RoleUser, Active: false},
	}
	return b
}

// Serve starts an [httptest.Server] for b, closed when the test ends.
func (b *Backend) Serve(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(b.Handler())
	t.Cleanup(server.Close)
	return server
}

// Calls returns the number of requests matching "METHOD /path".
func (b *Backend) Calls(route string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.Requests {
		if r == route {
			n++
		}
	}
	return n
}

// FailWith makes route ("METHOD /path") respond with status until [Backend.Recover] is called.
func (b *Backend) FailWith(route string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Fail[route] = status
}

// Recover removes an injected failure.
func (b *Backend) Recover(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Fail, route)
}

// Watching reports whether video id is in the watchlist.
func (b *Backend) Watching(id int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.Watchlist[id]
}

// User returns the account with the given id.
func (b *Backend) User(id int64) (models.User, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if idx := b.userIndex(id); idx >= 0 {
		return b.Users[idx], true
	}
	return models.User{}, false
}

// Video returns the video with the given id.
func (b *Backend) Video(id int64) (models.Video, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if idx := b.videoIndex(id); idx >= 0 {
		return b.Videos[idx], true
	}
	return models.Video{}, false
}

// Handler returns the backend's routes.
func (b *Backend) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", b.login)
	for _, route := range []string{
		"POST /auth/signup", "GET /auth/verify-email", "POST /auth/resend-verification",
		"POST /auth/forgot-password", "POST /auth/reset-password",
	} {
		mux.HandleFunc(route, b.message)
	}
	mux.HandleFunc("POST /auth/change-password", b.authed(b.message))

	mux.HandleFunc("GET /videos/published", b.authed(b.published))
	mux.HandleFunc("GET /videos/featured", b.authed(b.featured))
	mux.HandleFunc("GET /videos/admin", b.authed(b.adminVideos))
	mux.HandleFunc("GET /videos/admin/stats", b.authed(b.stats))
	mux.HandleFunc("PATCH /videos/admin/{id}/publish", b.authed(b.publish))
	mux.HandleFunc("DELETE /videos/admin/{id}", b.authed(b.deleteVideo))

	mux.HandleFunc("GET /watchlist", b.authed(b.watchlist))
	mux.HandleFunc("POST /watchlist/{id}", b.authed(b.addWatchlist))
	mux.HandleFunc("DELETE /watchlist/{id}", b.authed(b.removeWatchlist))

	mux.HandleFunc("GET /admin/users", b.authed(b.listUsers))
	mux.HandleFunc("POST /admin/users", b.authed(b.createUser))
	mux.HandleFunc("PUT /admin/users/{id}", b.authed(b.updateUser))
	mux.HandleFunc("DELETE /admin/users/{id}", b.authed(b.deleteUser))
	mux.HandleFunc("PATCH /admin/users/{id}/toggle-status", b.authed(b.toggleUser))
	mux.HandleFunc("PATCH /admin/users/{id}/role", b.authed(b.roleUser))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path

		b.mu.Lock()
		b.Requests = append(b.Requests, route)
		status, fail := b.Fail[route]
		b.mu.Unlock()

		if fail {
			reply(w, status, map[string]string{"error": "injected failure"})
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func reply(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

func (b *Backend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer token-") {
			reply(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
			return
		}
		next(w, r)
	}
}

func pathID(r *http.Request) int64 {
	id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id
}

func paginate[T any](items []T, r *http.Request) models.Page[T] {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 10
	}
	start := min(page*size, len(items))
	end := min(start+size, len(items))
	return models.Page[T]{
		Items:         slices.Clone(items[start:end]),
		Index:         page,
		Size:          size,
		TotalPages:    (len(items) + size - 1) / size,
		TotalElements: len(items),
	}
}

func matches(search string, fields ...string) bool {
	search = strings.ToLower(search)
	if search == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), search) {
			return true
		}
	}
	return false
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	json.NewDecoder(r.Body).Decode(&creds)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.Users {
		if u.Email != creds.Email || creds.Password != TestPassword {
			continue
		}
		if !u.Active {
			reply(w, http.StatusForbidden, map[string]string{"error": "Email not verified"})
			return
		}
		reply(w, http.StatusOK, models.AuthResponse{
			Token: fmt.Sprintf("token-%d", u.ID), ID: u.ID, Email: u.Email, FullName: u.FullName, Role: u.Role,
		})
		return
	}
	reply(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
}

func (b *Backend) message(w http.ResponseWriter, r *http.Request) {
	reply(w, http.StatusOK, models.MessageResponse{Message: "ok"})
}

func (b *Backend) videoList(r *http.Request, keep func(models.Video) bool) models.Page[models.Video] {
	b.mu.Lock()
	defer b.mu.Unlock()
	search := r.URL.Query().Get("search")
	var out []models.Video
	for _, v := range b.Videos {
		if keep(v) && matches(search, v.Title, v.Description) {
			v.InWatchlist = b.Watchlist[v.ID]
			out = append(out, v)
		}
	}
	return paginate(out, r)
}

func (b *Backend) published(w http.ResponseWriter, r *http.Request) {
	reply(w, http.StatusOK, b.videoList(r, func(v models.Video) bool { return v.Published }))
}

func (b *Backend) adminVideos(w http.ResponseWriter, r *http.Request) {
	reply(w, http.StatusOK, b.videoList(r, func(models.Video) bool { return true }))
}

func (b *Backend) watchlist(w http.ResponseWriter, r *http.Request) {
	reply(w, http.StatusOK, b.videoList(r, func(v models.Video) bool { return b.Watchlist[v.ID] }))
}

func (b *Backend) featured(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := []models.Video{}
	for _, v := range b.Videos {
		if v.Featured && v.Published {
			out = append(out, v)
		}
	}
	reply(w, http.StatusOK, out)
}

func (b *Backend) stats(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	var s models.VideoStats
	for _, v := range b.Videos {
		s.TotalVideos++
		s.TotalDuration += v.Duration
		if v.Published {
			s.PublishedVideos++
		}
	}
	reply(w, http.StatusOK, s)
}

func (b *Backend) videoIndex(id int64) int {
	return slices.IndexFunc(b.Videos, func(v models.Video) bool { return v.ID == id })
}

func (b *Backend) publish(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Published bool `json:"published"`
	}
	json.NewDecoder(r.Body).Decode(&body)

	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.videoIndex(pathID(r))
	if idx < 0 {
		reply(w, http.StatusNotFound, map[string]string{"error": "Video not found"})
		return
	}
	b.Videos[idx].Published = body.Published
	reply(w, http.StatusOK, b.Videos[idx])
}

func (b *Backend) deleteVideo(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.videoIndex(pathID(r))
	if idx < 0 {
		reply(w, http.StatusNotFound, map[string]string{"error": "Video not found"})
		return
	}
	b.Videos = slices.Delete(b.Videos, idx, idx+1)
	reply(w, http.StatusOK, models.MessageResponse{Message: "Video deleted"})
}

func (b *Backend) addWatchlist(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Watchlist[pathID(r)] = true
	reply(w, http.StatusOK, models.MessageResponse{Message: "Added to watchlist"})
}

func (b *Backend) removeWatchlist(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.Watchlist, pathID(r))
	reply(w, http.StatusOK, models.MessageResponse{Message: "Removed from watchlist"})
}

func (b *Backend) listUsers(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	search := r.URL.Query().Get("search")
	var out []models.User
	for _, u := range b.Users {
		if matches(search, u.FullName, u.Email) {
			out = append(out, u)
		}
	}
	reply(w, http.StatusOK, paginate(out, r))
}

func (b *Backend) userIndex(id int64) int {
	return slices.IndexFunc(b.Users, func(u models.User) bool { return u.ID == id })
}

func (b *Backend) createUser(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	json.NewDecoder(r.Body).Decode(&in)

	b.mu.Lock()
	defer b.mu.Unlock()
	if slices.ContainsFunc(b.Users, func(u models.User) bool { return u.Email == in.Email }) {
		reply(w, http.StatusBadRequest, map[string]string{"error": "Email already in use"})
		return
	}
	b.nextID++
	u := models.User{ID: b.nextID, FullName: in.FullName, Email: in.Email, Role: in.Role, Active: true}
	b.Users = append(b.Users, u)
	reply(w, http.StatusCreated, u)
}

func (b *Backend) withUser(w http.ResponseWriter, r *http.Request, fn func(*models.User)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.userIndex(pathID(r))
	if idx < 0 {
		reply(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	fn(&b.Users[idx])
	reply(w, http.StatusOK, b.Users[idx])
}

func (b *Backend) updateUser(w http.ResponseWriter, r *http.Request) {
	var in models.UserInput
	json.NewDecoder(r.Body).Decode(&in)
	b.withUser(w, r, func(u *models.User) {
		u.FullName, u.Email, u.Role = in.FullName, in.Email, in.Role
	})
}

func (b *Backend) toggleUser(w http.ResponseWriter, r *http.Request) {
	b.withUser(w, r, func(u *models.User) { u.Active = !u.Active })
}

func (b *Backend) roleUser(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Role models.Role `json:"role"`
	}
	json.NewDecoder(r.Body).Decode(&body)
	b.withUser(w, r, func(u *models.User) { u.Role = body.Role })
}

func (b *Backend) deleteUser(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	idx := b.userIndex(pathID(r))
	if idx < 0 {
		reply(w, http.StatusNotFound, map[string]string{"error": "User not found"})
		return
	}
	b.Users = slices.Delete(b.Users, idx, idx+1)
	reply(w, http.StatusOK, models.MessageResponse{Message: "User deleted"})
}
