package models

// AlatCamping is an equipment record from GET /alat-camping.
type AlatCamping struct {
	AlatCampingID    int           `json:"alatCampingId"`
	Nama             string        `json:"nama"`
	Deskripsi        string        `json:"deskripsi"`
	HargaSewaPerHari float64       `json:"hargaSewaPerHari"`
	Stok             int           `json:"stok"`
	ImageURL         string        `json:"imageUrl,omitempty"`
	Gambar           string        `json:"gambar,omitempty"`
	Status           bool          `json:"status"`
	KategoriAlatID   int           `json:"kategoriAlatId"`
	Kategori         *KategoriAlat `json:"kategori,omitempty"`
}

type KategoriAlat struct {
	ID   int    `json:"id"`
	Nama string `json:"nama"`
}

// AlatCampingPayload carries the core equipment fields for create and update.
type AlatCampingPayload struct {
	Nama             string  `json:"nama"`
	HargaSewaPerHari float64 `json:"hargaSewaPerHari"`
	Stok             int     `json:"stok"`
	Deskripsi        string  `json:"deskripsi"`
	KategoriID       int     `json:"kategoriId"`
	Status           bool    `json:"status"`
}

// Upload is an image file forwarded to the backend as multipart field "file".
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}
