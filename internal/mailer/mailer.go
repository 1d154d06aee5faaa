package mailer

import (
	"fmt"
	"log"

	"sanapati-backend/config"
	"sanapati-backend/internal/model"

	"gopkg.in/gomail.v2"
)

// Mailer mengirim notifikasi hasil pengajuan TTE ke pemohon.
// Kalau SMTP_HOST kosong, semua kiriman jadi no-op.
type Mailer struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Mailer {
	return &Mailer{cfg: cfg}
}

func (m *Mailer) enabled() bool {
	return m.cfg.SMTPHost != ""
}

// KirimKeputusanTTE memberi tahu user bahwa pengajuannya disetujui/ditolak.
// Dipanggil lewat goroutine; kegagalan hanya dicatat, tidak menggagalkan
// request.
func (m *Mailer) KirimKeputusanTTE(tte *model.TTE) {
	if !m.enabled() || tte.User.Email == "" {
		return
	}

	var subject, body string
	switch tte.Status {
	case model.TTEApproved:
		subject = "Pengajuan TTE Disetujui"
		body = fmt.Sprintf(
			"Yth. %s,\n\nPengajuan TTE Anda telah disetujui atas nama %s.\nSilakan login ke aplikasi untuk melihat detailnya.",
			tte.NamaLengkap, tte.TTESignatureName)
	case model.TTERejected:
		subject = "Pengajuan TTE Ditolak"
		body = fmt.Sprintf(
			"Yth. %s,\n\nMohon maaf, pengajuan TTE Anda ditolak.\nAlasan: %s\n\nSilakan perbaiki data lalu ajukan kembali.",
			tte.NamaLengkap, tte.RejectionReason)
	default:
		return
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.SMTPFrom)
	msg.SetHeader("To", tte.User.Email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	dialer := gomail.NewDialer(m.cfg.SMTPHost, m.cfg.SMTPPort, m.cfg.SMTPUser, m.cfg.SMTPPass)
	if err := dialer.DialAndSend(msg); err != nil {
		log.Printf("Gagal kirim email notifikasi TTE ke %s: %v", tte.User.Email, err)
	}
}
