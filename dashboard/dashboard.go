// Package dashboard holds the per-session page state of the admin dashboard:
// the order board, the product catalog and the category index. Containers
// keep the last fetched list and patch it locally after a mutation.
package dashboard

import (
	"context"
	"errors"

	"camping-admin/models"
)

var (
	// ErrStale is returned by a list fetch that was overtaken by a newer
	// fetch or mutation; its result has been discarded.
	ErrStale = errors.New("stale fetch discarded")

	ErrNotFound     = errors.New("not found")
	ErrNotConfirmed = errors.New("deletion not confirmed")

	// ErrSessionClosed is returned by Registry.Workspace for a session that
	// is no longer authenticated.
	ErrSessionClosed = errors.New("session closed")
)

type RentalAPI interface {
	ListPenyewaan(ctx context.Context) ([]models.Penyewaan, error)
	GetPenyewaan(ctx context.Context, id int) (*models.Penyewaan, error)
	UpdatePenyewaan(ctx context.Context, id int, req models.UpdatePenyewaanRequest) error
	DeletePenyewaan(ctx context.Context, id int) error
}

type EquipmentAPI interface {
	ListAlatCamping(ctx context.Context) ([]models.AlatCamping, error)
	CreateAlatCamping(ctx context.Context, p models.AlatCampingPayload, image *models.Upload) error
	UpdateAlatCamping(ctx context.Context, id int, p models.AlatCampingPayload) error
	UploadAlatCampingImage(ctx context.Context, id int, image models.Upload) error
	DeleteAlatCamping(ctx context.Context, id int) error
	DeleteAlatCampingImage(ctx context.Context, id int) error
}

type CategoryAPI interface {
	ListKategoriAlat(ctx context.Context) ([]models.KategoriAlat, error)
}

// fetchSeq numbers list fetches. Callers hold the owning container's mutex.
type fetchSeq struct {
	latest uint64
}

func (s *fetchSeq) next() uint64 {
	s.latest++
	return s.latest
}

func (s *fetchSeq) current(n uint64) bool {
	return n == s.latest
}
