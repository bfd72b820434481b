package dashboard

import (
	"context"
	"fmt"
	"sync"

	"camping-admin/backend"
	"camping-admin/models"
)

// fakeAPI is an in-memory backend for page container tests.
type fakeAPI struct {
	mu sync.Mutex

	rentals    []models.Penyewaan
	equipment  []models.AlatCamping
	categories []models.KategoriAlat
	notifs     []models.Notifikasi

	// beforeList runs before ListPenyewaan returns, outside the lock.
	beforeList func(call int)
	listCalls  int
	getErr     error
	updateErr  error

	updates       map[int]models.UpdatePenyewaanRequest
	deletes       []int
	created       []models.AlatCampingPayload
	uploads       []int
	categoryCalls int
	nextID        int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		updates: make(map[int]models.UpdatePenyewaanRequest),
		nextID:  100,
		categories: []models.KategoriAlat{
			{ID: 1, Nama: "Shelter"},
			{ID: 2, Nama: "Cooking"},
		},
	}
}

var statusNames = map[int]string{1: "Menunggu Konfirmasi", 2: "Dikonfirmasi", 3: "Selesai", 4: "Dibatalkan"}

func (f *fakeAPI) ListPenyewaan(ctx context.Context) ([]models.Penyewaan, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	out := append([]models.Penyewaan(nil), f.rentals...)
	hook := f.beforeList
	f.mu.Unlock()
	if hook != nil {
		hook(call)
	}
	return out, nil
}

func (f *fakeAPI) GetPenyewaan(ctx context.Context, id int) (*models.Penyewaan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, r := range f.rentals {
		if r.PenyewaanID == id {
			return &r, nil
		}
	}
	return nil, &backend.APIError{StatusCode: 404, Message: "Penyewaan tidak ditemukan"}
}

func (f *fakeAPI) UpdatePenyewaan(ctx context.Context, id int, req models.UpdatePenyewaanRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.updates[id] = req
	for i := range f.rentals {
		if f.rentals[i].PenyewaanID == id {
			f.rentals[i].StatusID = req.StatusID
			f.rentals[i].Status = &models.StatusSewa{StatusPenyewaanID: req.StatusID, NamaStatus: statusNames[req.StatusID]}
			if req.TanggalKembaliActual != "" {
				d := req.TanggalKembaliActual
				f.rentals[i].TanggalKembaliActual = &d
			}
		}
	}
	return nil
}

func (f *fakeAPI) DeletePenyewaan(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletes = append(f.deletes, id)
	return nil
}

func (f *fakeAPI) ListAlatCamping(ctx context.Context) ([]models.AlatCamping, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.AlatCamping(nil), f.equipment...), nil
}

func (f *fakeAPI) CreateAlatCamping(ctx context.Context, p models.AlatCampingPayload, image *models.Upload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, p)
	f.nextID++
	a := models.AlatCamping{
		AlatCampingID:    f.nextID,
		Nama:             p.Nama,
		Deskripsi:        p.Deskripsi,
		HargaSewaPerHari: p.HargaSewaPerHari,
		Stok:             p.Stok,
		Status:           p.Status,
		KategoriAlatID:   p.KategoriID,
		Kategori:         f.category(p.KategoriID),
	}
	if image != nil {
		a.ImageURL = image.Filename
	}
	f.equipment = append(f.equipment, a)
	return nil
}

func (f *fakeAPI) UpdateAlatCamping(ctx context.Context, id int, p models.AlatCampingPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.equipment {
		if f.equipment[i].AlatCampingID == id {
			f.equipment[i].Nama = p.Nama
			f.equipment[i].Stok = p.Stok
			f.equipment[i].HargaSewaPerHari = p.HargaSewaPerHari
			f.equipment[i].Deskripsi = p.Deskripsi
			f.equipment[i].Kategori = f.category(p.KategoriID)
			return nil
		}
	}
	return &backend.APIError{StatusCode: 404, Message: "Alat camping tidak ditemukan"}
}

func (f *fakeAPI) UploadAlatCampingImage(ctx context.Context, id int, image models.Upload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, id)
	for i := range f.equipment {
		if f.equipment[i].AlatCampingID == id {
			f.equipment[i].ImageURL = image.Filename
		}
	}
	return nil
}

func (f *fakeAPI) DeleteAlatCamping(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.equipment {
		if f.equipment[i].AlatCampingID == id {
			f.equipment = append(f.equipment[:i], f.equipment[i+1:]...)
			return nil
		}
	}
	return &backend.APIError{StatusCode: 404, Message: fmt.Sprintf("Alat camping %d tidak ditemukan", id)}
}

func (f *fakeAPI) DeleteAlatCampingImage(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.equipment {
		if f.equipment[i].AlatCampingID == id {
			f.equipment[i].ImageURL = ""
		}
	}
	return nil
}

func (f *fakeAPI) ListKategoriAlat(ctx context.Context) ([]models.KategoriAlat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.categoryCalls++
	return append([]models.KategoriAlat(nil), f.categories...), nil
}

func (f *fakeAPI) ListNotifikasi(ctx context.Context) ([]models.Notifikasi, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Notifikasi(nil), f.notifs...), nil
}

func (f *fakeAPI) MarkNotifikasiRead(ctx context.Context, id int) (*models.Notifikasi, error) {
	return &models.Notifikasi{ID: id, Dibaca: true}, nil
}

// category is called with f.mu held.
func (f *fakeAPI) category(id int) *models.KategoriAlat {
	for _, k := range f.categories {
		if k.ID == id {
			k := k
			return &k
		}
	}
	return nil
}

func rentalRecord(id int, status, customer, createdAt string, items ...string) models.Penyewaan {
	p := models.Penyewaan{
		PenyewaanID:  id,
		TanggalAmbil: "2025-03-01T00:00:00.000Z",
		TotalBiaya:   float64(id) * 1000,
		CreatedAt:    createdAt,
		Customer:     &models.Customer{Nama: customer, Email: customer + "@mail.id"},
		Status:       &models.StatusSewa{NamaStatus: status},
	}
	for _, name := range items {
		p.DetailSewa = append(p.DetailSewa, models.DetailSewa{Jumlah: 1, AlatCamping: &models.AlatCamping{Nama: name}})
	}
	return p
}
