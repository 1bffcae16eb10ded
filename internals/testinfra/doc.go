// Package testinfra menyediakan database untuk test.
//
// NewSQLiteDB membuka SQLite in-memory (pure Go, tanpa cgo) dengan satu koneksi,
// sehingga transaksi yang berjalan paralel diproses berurutan. Skema sama dengan
// produksi (AutoMigrate model meetings).
//
// NewPostgresContainer (build tag integration) menjalankan PostgreSQL asli lewat
// testcontainers-go untuk menguji row lock, lock_timeout dan advisory lock.
package testinfra
