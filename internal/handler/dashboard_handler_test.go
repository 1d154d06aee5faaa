package handler_test

import (
	"net/http"
	"testing"

	"sanapati-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardAdmin(t *testing.T) {
	app, db, _ := setupTest(t)

	admin := buatUser(t, db, "Diskominfo", "admin@lingga.go.id", model.RoleAdmin)
	opd := buatUser(t, db, "Dinas Pendidikan", "disdik@lingga.go.id", model.RoleOPD)
	adminToken := tokenUntuk(t, admin)

	buatTelegram(t, app, db, adminToken, []uint{opd.ID}, []string{"Baca surat"})
	tg := buatTelegram(t, app, db, adminToken, []uint{opd.ID}, []string{"Baca surat"})

	// Satu telegram dituntaskan
	resp := doJSON(t, app, http.MethodPut, "/api/telegrams/"+itoa(tg.ID)+"/status", tokenUntuk(t, opd),
		map[string]string{"status": model.StatusDibaca})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doJSON(t, app, http.MethodGet, "/api/telegrams/dashboard-data", adminToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	stats := body["statistics"].(map[string]interface{})
	assert.EqualValues(t, 2, stats["totalTelegrams"])
	assert.EqualValues(t, 1, stats["readTelegrams"])
	assert.EqualValues(t, 1, stats["unreadTelegrams"])

	charts := body["charts"].(map[string]interface{})
	distribution := charts["telegramDistribution"].(map[string]interface{})
	assert.EqualValues(t, 1, distribution["Dibaca"])
	assert.EqualValues(t, 1, distribution["BelumDibaca"])
	assert.EqualValues(t, 2, distribution["Semua"])

	// Semua level klasifikasi selalu ada, walau 0
	levels := charts["telegramKlasifikasiLevels"].(map[string]interface{})
	for _, k := range model.SemuaKlasifikasi {
		_, ada := levels[k]
		assert.True(t, ada, "klasifikasi %s tidak ada di chart", k)
	}
	assert.EqualValues(t, 2, levels[model.KlasifikasiSegera])
	assert.EqualValues(t, 0, levels[model.KlasifikasiRahasia])

	recent := body["recentTelegrams"].([]interface{})
	assert.Len(t, recent, 2)
}

func TestDashboardUserTerbatasPenerima(t *testing.T) {
	app, db, _ := setupTest(t)

	admin := buatUser(t, db, "Diskominfo", "admin@lingga.go.id", model.RoleAdmin)
	opdA := buatUser(t, db, "Dinas Pendidikan", "disdik@lingga.go.id", model.RoleOPD)
	opdB := buatUser(t, db, "Dinas Kesehatan", "dinkes@lingga.go.id", model.RoleOPD)
	adminToken := tokenUntuk(t, admin)

	buatTelegram(t, app, db, adminToken, []uint{opdA.ID}, []string{"Baca surat"})
	buatTelegram(t, app, db, adminToken, []uint{opdA.ID, opdB.ID}, []string{"Baca surat"})

	resp := doJSON(t, app, http.MethodGet, "/api/telegrams/user-dashboard-data", tokenUntuk(t, opdB), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)

	stats := body["statistics"].(map[string]interface{})
	assert.EqualValues(t, 1, stats["totalTelegrams"])

	recent := body["recentTelegrams"].([]interface{})
	assert.Len(t, recent, 1)
}

func TestDashboardAdminOnly(t *testing.T) {
	app, db, _ := setupTest(t)

	opd := buatUser(t, db, "Dinas Pendidikan", "disdik@lingga.go.id", model.RoleOPD)

	resp := doJSON(t, app, http.MethodGet, "/api/telegrams/dashboard-data", tokenUntuk(t, opd), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
