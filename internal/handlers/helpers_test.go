package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/dentaldesk/clinic-scheduler/internal/metrics"
	"github.com/dentaldesk/clinic-scheduler/internal/middleware"
	"github.com/dentaldesk/clinic-scheduler/internal/models"
)

// One collector per test binary; prometheus panics on double registration.
var testMetrics = metrics.NewCollector()

type webFixture struct {
	db *gorm.DB

	tenant  models.Tenant
	dentist models.User
	patient models.Patient
}

func newWebFixture(t *testing.T) *webFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Patient{},
		&models.ScheduleConfig{},
		&models.Appointment{},
		&models.Treatment{},
		&models.OdontogramEntry{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	f := &webFixture{db: db}

	f.tenant = models.Tenant{Name: "Clinica Test", Active: true}
	if err := db.Create(&f.tenant).Error; err != nil {
		t.Fatalf("seed tenant: %v", err)
	}

	f.dentist = models.User{
		TenantID:     f.tenant.ID,
		FirstName:    "Diana",
		LastName:     "Dentista",
		Email:        "diana@" + f.tenant.ID.String() + ".test",
		PasswordHash: "x",
		Role:         models.RoleDentist,
		Active:       true,
	}
	if err := db.Create(&f.dentist).Error; err != nil {
		t.Fatalf("seed dentist: %v", err)
	}

	f.patient = models.Patient{
		TenantID:  f.tenant.ID,
		FirstName: "Pablo",
		LastName:  "Paciente",
		Document:  "40111222",
		Active:    true,
	}
	if err := db.Create(&f.patient).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}

	return f
}

// authAs stands in for the JWT middleware: it injects the identity the
// token would have carried.
func authAs(userID, tenantID uuid.UUID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextUserID, userID)
		c.Set(middleware.ContextTenantID, tenantID)
		c.Set(middleware.ContextUserRole, role)
		c.Next()
	}
}

func zapTest() *zap.Logger {
	return zap.NewNop()
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"error_code"`
	}
	decodeJSON(t, w, &body)
	return body.Code
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, want int) {
	t.Helper()
	if w.Code != want {
		t.Fatalf("status = %d, want %d (body %s)", w.Code, want, w.Body.String())
	}
}
