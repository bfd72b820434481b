package database

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const createTermsTable = `
CREATE TABLE IF NOT EXISTS terms_sections (
	id SERIAL PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	content TEXT NOT NULL,
	position INTEGER NOT NULL,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`

func InitDB(dsn string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Database connection established")
	return db, nil
}

// DefaultSection is a terms section a fresh install starts with.
type DefaultSection struct {
	Title   string
	Content string
}

var DefaultSections = []DefaultSection{
	{
		Title:   "Ketentuan Umum",
		Content: "Dengan menggunakan layanan rental alat camping kami, Anda setuju untuk mematuhi syarat dan ketentuan yang berlaku. Layanan ini ditujukan untuk keperluan camping dan outdoor activities yang legal dan aman.",
	},
	{
		Title:   "Persyaratan Penyewaan",
		Content: "Penyewa harus berusia minimal 18 tahun atau didampingi oleh orang dewasa. Wajib menunjukkan identitas resmi (KTP/SIM/Paspor) yang masih berlaku. Pembayaran dapat dilakukan secara tunai atau transfer bank.",
	},
	{
		Title:   "Tanggung Jawab Penyewa",
		Content: "Penyewa bertanggung jawab penuh atas keamanan dan kondisi alat selama masa penyewaan. Segala kerusakan atau kehilangan akan dibebankan kepada penyewa sesuai dengan harga yang berlaku. Penyewa wajib mengembalikan alat dalam kondisi bersih dan utuh.",
	},
	{
		Title:   "Ketentuan Pembayaran",
		Content: "Pembayaran dilakukan di muka sebelum pengambilan alat. Untuk penyewaan di atas 3 hari, dapat dilakukan pembayaran dengan sistem deposit 50% dan pelunasan saat pengambilan. Biaya keterlambatan pengembalian adalah 20% dari harga sewa per hari.",
	},
	{
		Title:   "Pembatalan dan Pengembalian",
		Content: "Pembatalan dapat dilakukan maksimal 24 jam sebelum jadwal pengambilan dengan pengembalian 80% dari total pembayaran. Pembatalan di bawah 24 jam tidak mendapat pengembalian dana. Pengembalian alat harus tepat waktu sesuai kesepakatan.",
	},
	{
		Title:   "Force Majeure",
		Content: "Kami tidak bertanggung jawab atas keterlambatan atau ketidakmampuan memenuhi kewajiban akibat keadaan kahar (force majeure) seperti bencana alam, perang, atau kebijakan pemerintah yang di luar kendali kami.",
	},
}

// Migrate creates the terms table and seeds DefaultSections into it while
// it is empty.
func Migrate(db *sql.DB) error {
	if _, err := db.Exec(createTermsTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}
	if err := seedTerms(db); err != nil {
		return fmt.Errorf("failed to seed terms: %w", err)
	}
	return nil
}

func seedTerms(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// Concurrent instances starting together must not both seed.
	if _, err := tx.Exec("LOCK TABLE terms_sections IN SHARE ROW EXCLUSIVE MODE"); err != nil {
		return err
	}
	var n int
	if err := tx.QueryRow("SELECT COUNT(*) FROM terms_sections").Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return tx.Commit()
	}

	for i, section := range DefaultSections {
		if _, err := tx.Exec(
			"INSERT INTO terms_sections (title, content, position) VALUES ($1, $2, $3)",
			section.Title, section.Content, i+1,
		); err != nil {
			return err
		}
	}
	return tx.Commit()
}
