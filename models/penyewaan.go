package models

// Penyewaan is a rental record as returned by GET /penyewaan.
type Penyewaan struct {
	PenyewaanID          int          `json:"penyewaanId"`
	CustomerID           int          `json:"customerId"`
	TanggalAmbil         string       `json:"tanggalAmbil"`
	JamAmbilBarang       string       `json:"jamAmbilBarang"`
	DurasiPenyewaan      int          `json:"durasiPenyewaan"`
	TanggalKembaliActual *string      `json:"tanggalKembaliActual"`
	TotalBiaya           float64      `json:"totalBiaya"`
	ProcessedByAdmin     bool         `json:"processedByAdmin"`
	StatusID             int          `json:"statusId"`
	CreatedAt            string       `json:"createdAt"`
	UpdatedAt            string       `json:"updatedAt"`
	Customer             *Customer    `json:"customer"`
	Status               *StatusSewa  `json:"status"`
	DetailSewa           []DetailSewa `json:"DetailSewa"`
}

type Customer struct {
	CustomerID int    `json:"customerId"`
	Nama       string `json:"nama"`
	NoHP       string `json:"noHp"`
	Email      string `json:"email,omitempty"`
	Alamat     string `json:"alamat,omitempty"`
}

type StatusSewa struct {
	StatusPenyewaanID int    `json:"statusPenyewaanId"`
	NamaStatus        string `json:"namaStatus"`
	UrutanProses      int    `json:"urutanProses"`
}

// DetailSewa is one line item of a rental.
type DetailSewa struct {
	DetailSewaID  int          `json:"detailSewaId"`
	PenyewaanID   int          `json:"penyewaanId"`
	AlatCampingID int          `json:"alatCampingId"`
	Jumlah        int          `json:"jumlah"`
	HargaSewa     float64      `json:"hargaSewa"`
	TotalHarga    float64      `json:"totalHarga"`
	AlatCamping   *AlatCamping `json:"alatCamping"`
}

// UpdatePenyewaanRequest is the only shape PATCH /penyewaan/:id accepts.
type UpdatePenyewaanRequest struct {
	StatusID             int    `json:"statusId"`
	TanggalKembaliActual string `json:"tanggalKembaliActual,omitempty"`
}
