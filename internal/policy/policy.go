// Package policy memusatkan keputusan otorisasi yang sebelumnya
// tersebar sebagai cabang if-admin di tiap handler.
package policy

import "sanapati-backend/internal/model"

type Keputusan int

const (
	Ditolak Keputusan = iota
	SebagaiAdmin
	SebagaiPenerima
	SebagaiPemilik
)

// Diizinkan true untuk semua keputusan selain Ditolak.
func (k Keputusan) Diizinkan() bool {
	return k != Ditolak
}

// PutuskanTelegram menilai hak aktor memutasi status/checklist sebuah
// telegram: admin boleh semua, penerima hanya miliknya sendiri.
func PutuskanTelegram(aktor *model.User, t *model.Telegram) Keputusan {
	if aktor.IsAdmin() {
		return SebagaiAdmin
	}
	if t.AdalahPenerima(aktor.ID) {
		return SebagaiPenerima
	}
	return Ditolak
}

// PutuskanTTE menilai hak aktor mengakses/menghapus sebuah pengajuan TTE.
func PutuskanTTE(aktor *model.User, tte *model.TTE) Keputusan {
	if aktor.IsAdmin() {
		return SebagaiAdmin
	}
	if tte.UserID == aktor.ID {
		return SebagaiPemilik
	}
	return Ditolak
}
