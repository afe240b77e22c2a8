package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tuanphatnh/thptapp/database"
	"github.com/tuanphatnh/thptapp/models"
)

// newTestDB opens a throwaway sqlite database with the full schema and
// foreign keys enforced, mirroring the Postgres constraints.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db") + "?_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newRequest builds an echo context backed by a recorder. body may be
// nil for GET/DELETE.
func newRequest(t *testing.T, e *echo.Echo, method, target string, body any) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// actAs attaches the caller identity the auth middleware would set.
func actAs(c echo.Context, u *models.User) {
	c.Set("user_id", u.ID)
	c.Set("role", u.Role)
	c.Set("name", u.FullName)
	c.Set("class_id", u.ClassID)
}

// status resolves the effective HTTP status of a direct handler call:
// handlers either write to the recorder or return an *echo.HTTPError.
func status(t *testing.T, err error, rec *httptest.ResponseRecorder) int {
	t.Helper()
	if err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return he.Code
		}
		t.Fatalf("handler returned non-HTTP error: %v", err)
	}
	return rec.Code
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
	return out
}

/* ---- seed helpers ---- */

func mkClass(t *testing.T, db *gorm.DB, name string, grade int) *models.Class {
	t.Helper()
	cls := &models.Class{Name: name, GradeLevel: grade, SchoolYear: "2024-2025"}
	if err := db.Create(cls).Error; err != nil {
		t.Fatalf("seed class %s: %v", name, err)
	}
	return cls
}

func mkUser(t *testing.T, db *gorm.DB, username string, role models.Role, classID *uint) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u := &models.User{
		Username:     username,
		PasswordHash: string(hash),
		FullName:     "Test " + username,
		Role:         role,
		DisplayTitle: string(role),
		ClassID:      classID,
	}
	if err := db.Create(u).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

func mkRule(t *testing.T, db *gorm.DB, desc string, delta int, cat models.RuleCategory) *models.RuleType {
	t.Helper()
	rule := &models.RuleType{Description: desc, PointDelta: delta, Category: cat}
	if err := db.Create(rule).Error; err != nil {
		t.Fatalf("seed rule %s: %v", desc, err)
	}
	return rule
}

func mkSlot(t *testing.T, db *gorm.DB, classID, teacherID uint, day, period int) *models.TimetableSlot {
	t.Helper()
	slot := &models.TimetableSlot{
		ClassID:      classID,
		TeacherID:    teacherID,
		DayOfWeek:    day,
		PeriodNumber: period,
		SubjectName:  "Toán",
		Semester:     1,
		SchoolYear:   "2024-2025",
	}
	if err := db.Create(slot).Error; err != nil {
		t.Fatalf("seed timetable slot: %v", err)
	}
	return slot
}

func mkReport(t *testing.T, db *gorm.DB, classID, ruleID, reporterID uint, week int, st models.ViolationStatus) *models.ViolationReport {
	t.Helper()
	rep := &models.ViolationReport{
		ClassID:       classID,
		RuleID:        ruleID,
		ReporterID:    reporterID,
		Description:   "test report",
		ViolationDate: "2025-03-05",
		WeekNumber:    week,
		Status:        st,
	}
	if err := db.Create(rep).Error; err != nil {
		t.Fatalf("seed violation report: %v", err)
	}
	return rep
}
