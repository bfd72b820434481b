package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"camping-admin/backend"
	"camping-admin/dashboard"
	"camping-admin/middleware"
	"camping-admin/models"
	"camping-admin/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const backendToken = "backend-token"

// fakeBackend imitates the rental REST API closely enough for handler tests.
type fakeBackend struct {
	mu sync.Mutex

	loginToken   string
	profile      models.AdminProfile
	rentals      []models.Penyewaan
	equipment    []models.AlatCamping
	categories   []models.KategoriAlat
	notifs       []models.Notifikasi
	unauthorized bool

	requests  []string
	multipart map[string]string
	nextID    int

	// onRequest runs before a request is served, outside the lock.
	onRequest func(r *http.Request)
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		loginToken: backendToken,
		profile:    models.AdminProfile{AdminID: 1, Nama: "Admin Satu", Email: "admin@camping.id", Role: "admin"},
		categories: []models.KategoriAlat{{ID: 1, Nama: "Shelter"}, {ID: 2, Nama: "Cooking"}},
		nextID:     100,
	}
}

func (f *fakeBackend) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if strings.HasPrefix(r, prefix) {
			n++
		}
	}
	return n
}

func (f *fakeBackend) setOnRequest(fn func(r *http.Request)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onRequest = fn
}

func (f *fakeBackend) setUnauthorized(v bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unauthorized = v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func pathID(r *http.Request) int {
	id, _ := strconv.Atoi(r.PathValue("id"))
	return id
}

func (f *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.requests = append(f.requests, r.Method+" "+r.URL.Path)
	rejected := f.unauthorized || r.Header.Get("Authorization") != "Bearer "+backendToken
	hook := f.onRequest
	f.mu.Unlock()

	if hook != nil {
		hook(r)
	}

	if r.URL.Path != "/admin/login" && rejected {
		writeJSON(w, http.StatusUnauthorized, gin.H{"message": "Unauthorized", "statusCode": 401})
		return
	}
	f.mux().ServeHTTP(w, r)
}

func (f *fakeBackend) mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "rahasia" {
			writeJSON(w, http.StatusUnauthorized, gin.H{"message": "Email atau password salah"})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusCreated, gin.H{"access_token": f.loginToken})
	})
	mux.HandleFunc("GET /admin/profile", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.profile)
	})
	mux.HandleFunc("PATCH /admin/profile", func(w http.ResponseWriter, r *http.Request) {
		var update models.ProfileUpdate
		json.NewDecoder(r.Body).Decode(&update)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.profile.FirstName = &update.FirstName
		f.profile.LastName = &update.LastName
		writeJSON(w, http.StatusOK, f.profile)
	})
	mux.HandleFunc("GET /admin/dashboard-stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, models.DashboardStats{TotalProducts: 12, ActiveRentals: 3, TotalCustomers: 8, PendingOrders: 2, TotalOrders: 20})
	})
	mux.HandleFunc("GET /penyewaan", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.rentals)
	})
	mux.HandleFunc("GET /penyewaan/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, p := range f.rentals {
			if p.PenyewaanID == pathID(r) {
				writeJSON(w, http.StatusOK, p)
				return
			}
		}
		writeJSON(w, http.StatusNotFound, gin.H{"message": "Penyewaan tidak ditemukan"})
	})
	mux.HandleFunc("PATCH /penyewaan/{id}", func(w http.ResponseWriter, r *http.Request) {
		var req models.UpdatePenyewaanRequest
		json.NewDecoder(r.Body).Decode(&req)
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.rentals {
			if f.rentals[i].PenyewaanID == pathID(r) {
				names := map[int]string{1: "Menunggu Konfirmasi", 2: "Dikonfirmasi", 3: "Selesai", 4: "Dibatalkan"}
				f.rentals[i].Status = &models.StatusSewa{StatusPenyewaanID: req.StatusID, NamaStatus: names[req.StatusID]}
				writeJSON(w, http.StatusOK, f.rentals[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, gin.H{"message": "Penyewaan tidak ditemukan"})
	})
	mux.HandleFunc("DELETE /penyewaan/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.rentals {
			if f.rentals[i].PenyewaanID == pathID(r) {
				f.rentals = append(f.rentals[:i], f.rentals[i+1:]...)
				writeJSON(w, http.StatusOK, gin.H{"message": "deleted"})
				return
			}
		}
		writeJSON(w, http.StatusNotFound, gin.H{"message": "Penyewaan tidak ditemukan"})
	})
	mux.HandleFunc("GET /alat-camping", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.equipment)
	})
	mux.HandleFunc("POST /alat-camping", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, gin.H{"message": []string{"multipart expected"}})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		f.multipart = map[string]string{}
		for k, v := range r.MultipartForm.Value {
			f.multipart[k] = v[0]
		}
		a := models.AlatCamping{Status: r.FormValue("status") == "true"}
		f.nextID++
		a.AlatCampingID = f.nextID
		a.Nama = r.FormValue("nama")
		a.Deskripsi = r.FormValue("deskripsi")
		a.Stok, _ = strconv.Atoi(r.FormValue("stok"))
		a.HargaSewaPerHari, _ = strconv.ParseFloat(r.FormValue("hargaSewaPerHari"), 64)
		kategoriID, _ := strconv.Atoi(r.FormValue("kategoriId"))
		for _, k := range f.categories {
			if k.ID == kategoriID {
				k := k
				a.Kategori = &k
			}
		}
		if file, header, err := r.FormFile("file"); err == nil {
			data, _ := io.ReadAll(file)
			file.Close()
			f.multipart["file"] = header.Filename + ":" + string(data)
			a.ImageURL = header.Filename
		}
		f.equipment = append(f.equipment, a)
		writeJSON(w, http.StatusCreated, a)
	})
	mux.HandleFunc("GET /kategori-alat", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.categories)
	})
	mux.HandleFunc("GET /notifikasi", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, f.notifs)
	})
	mux.HandleFunc("GET /notifikasi/unread-count", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		n := 0
		for _, x := range f.notifs {
			if !x.Dibaca {
				n++
			}
		}
		writeJSON(w, http.StatusOK, gin.H{"count": n})
	})
	mux.HandleFunc("PATCH /notifikasi/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i := range f.notifs {
			if f.notifs[i].ID == pathID(r) {
				f.notifs[i].Dibaca = true
				writeJSON(w, http.StatusOK, f.notifs[i])
				return
			}
		}
		writeJSON(w, http.StatusNotFound, gin.H{"message": "Notifikasi tidak ditemukan"})
	})
	return mux
}

type testEnv struct {
	backend  *fakeBackend
	server   *httptest.Server
	gate     *session.Gate
	registry *dashboard.Registry
	scope    *Scope
	router   *gin.Engine
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	fb := newFakeBackend()
	srv := httptest.NewServer(fb)

	client := backend.NewClient(srv.URL, nil, logger)
	gate := session.NewGate(session.NewMemoryStore(), nil, logger)
	signer := session.NewSigner("test-secret")
	registry := dashboard.NewRegistry(dashboard.Options{
		NewAPI:       func(token string) dashboard.API { return client.WithToken(token) },
		UploadsURL:   srv.URL + "/uploads",
		PollInterval: time.Hour,
		Alive: func(ctx context.Context, id string) bool {
			_, err := gate.Authenticated(ctx, id)
			return err == nil
		},
		Logger: logger,
	})
	gate.Subscribe(registry.HandleAuthEvent)
	t.Cleanup(func() {
		registry.Shutdown()
		srv.Close()
	})

	scope := NewScope(client, gate, registry, CookieConfig{MaxAge: 3600}, logger)
	auth := NewAuthHandler(scope, signer)
	overview := NewDashboardHandler(scope, srv.URL+"/uploads")
	profile := NewProfileHandler(scope)
	orders := NewOrderHandler(scope)
	orders.now = func() time.Time { return time.Date(2025, 6, 7, 10, 0, 0, 0, time.UTC) }
	products := NewProductHandler(scope)
	notifications := NewNotificationHandler(scope)

	router := gin.New()
	router.Use(middleware.SessionMiddleware(signer, gate, logger))
	router.GET("/health", HealthCheck)
	for _, p := range []string{"/", "/dashboard", "/orders", "/terms"} {
		router.GET(p, Page)
	}
	router.NoRoute(Page)

	router.POST("/api/login", auth.Login)
	router.POST("/api/logout", auth.Logout)
	router.GET("/api/session", auth.Session)

	api := router.Group("/api", middleware.RequireSession())
	api.GET("/dashboard", overview.Overview)
	api.GET("/profile", profile.GetProfile)
	api.PATCH("/profile", profile.UpdateProfile)
	api.GET("/orders", orders.GetOrders)
	api.GET("/orders/stats", orders.GetStats)
	api.GET("/orders/export", orders.ExportOrders)
	api.GET("/orders/:id", orders.GetOrder)
	api.PATCH("/orders/:id", orders.UpdateOrder)
	api.DELETE("/orders/:id", orders.DeleteOrder)
	api.GET("/products", products.GetProducts)
	api.POST("/products", products.CreateProduct)
	api.PATCH("/products/:id", products.UpdateProduct)
	api.DELETE("/products/:id", products.DeleteProduct)
	api.DELETE("/products/:id/image", products.DeleteProductImage)
	api.GET("/categories", products.GetCategories)
	api.GET("/notifications", notifications.GetNotifications)
	api.POST("/notifications/:id/read", notifications.MarkRead)

	return &testEnv{backend: fb, server: srv, gate: gate, registry: registry, scope: scope, router: router}
}

// do sends a request carrying handle as bearer session handle when set.
func (e *testEnv) do(method, path, handle string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if handle != "" {
		req.Header.Set("Authorization", "Bearer "+handle)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) login(t *testing.T) string {
	t.Helper()
	w := e.do("POST", "/api/login", "", models.LoginRequest{Email: "admin@camping.id", Password: "rahasia"})
	if w.Code != http.StatusOK {
		t.Fatalf("Login failed with status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil || resp.Token == "" {
		t.Fatalf("Login returned no token: %s", w.Body.String())
	}
	return resp.Token
}

// loginSession logs in and also returns the session behind the handle.
func (e *testEnv) loginSession(t *testing.T) (string, *models.Session) {
	t.Helper()
	var id string
	unsubscribe := e.gate.Subscribe(func(evt session.Event) {
		if evt.Kind == session.EventLogin {
			id = evt.SessionID
		}
	})
	handle := e.login(t)
	unsubscribe()

	sess, err := e.gate.Authenticated(context.Background(), id)
	if err != nil {
		t.Fatalf("Session %q not found after login: %v", id, err)
	}
	return handle, sess
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", w.Body.String(), err)
	}
}

func rental(id int, status, customer string) models.Penyewaan {
	return models.Penyewaan{
		PenyewaanID:  id,
		TanggalAmbil: "2025-05-01T00:00:00.000Z",
		TotalBiaya:   float64(id) * 10000,
		CreatedAt:    fmt.Sprintf("2025-04-%02dT08:00:00.000Z", id%28+1),
		Customer:     &models.Customer{Nama: customer, Email: strings.ToLower(customer) + "@mail.id"},
		Status:       &models.StatusSewa{NamaStatus: status},
		DetailSewa: []models.DetailSewa{
			{Jumlah: 2, AlatCamping: &models.AlatCamping{Nama: "Tenda Dome"}},
		},
	}
}
