package handlers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanphatnh/thptapp/models"
)

func deleteClass(t *testing.T, h *ClassHandler, id uint) int {
	t.Helper()
	e := newTestEcho()
	c, rec := newRequest(t, e, http.MethodDelete, "/admin/classes/:id", nil)
	c.SetParamNames("id")
	c.SetParamValues(strconv.Itoa(int(id)))
	return status(t, h.Delete(c), rec)
}

func TestCreateClassDuplicate(t *testing.T) {
	db := newTestDB(t)
	h := NewClassHandler(db)

	e := newTestEcho()
	body := ClassReq{Name: "12A1", GradeLevel: 12, SchoolYear: "2024-2025"}
	c, rec := newRequest(t, e, http.MethodPost, "/admin/classes", body)
	require.Equal(t, http.StatusCreated, status(t, h.Create(c), rec))

	c, rec = newRequest(t, e, http.MethodPost, "/admin/classes", body)
	assert.Equal(t, http.StatusConflict, status(t, h.Create(c), rec))

	// same name in another school year is a different class
	body.SchoolYear = "2025-2026"
	c, rec = newRequest(t, e, http.MethodPost, "/admin/classes", body)
	assert.Equal(t, http.StatusCreated, status(t, h.Create(c), rec))
}

func TestDeleteClassBlockedByLinkedRecords(t *testing.T) {
	db := newTestDB(t)
	h := NewClassHandler(db)
	cls := mkClass(t, db, "12A1", 12)
	teacher := mkUser(t, db, "gv1", models.RoleTeacher, nil)
	mkSlot(t, db, cls.ID, teacher.ID, 1, 1)

	assert.Equal(t, http.StatusConflict, deleteClass(t, h, cls.ID))

	// still present
	var count int64
	require.NoError(t, db.Model(&models.Class{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteEmptyClass(t *testing.T) {
	db := newTestDB(t)
	h := NewClassHandler(db)
	cls := mkClass(t, db, "12A1", 12)

	assert.Equal(t, http.StatusOK, deleteClass(t, h, cls.ID))
	assert.Equal(t, http.StatusNotFound, deleteClass(t, h, cls.ID))
}

func TestListClassesOrdering(t *testing.T) {
	db := newTestDB(t)
	h := NewClassHandler(db)
	mkClass(t, db, "12A1", 12)
	mkClass(t, db, "10A1", 10)
	mkClass(t, db, "11A1", 11)

	e := newTestEcho()
	c, rec := newRequest(t, e, http.MethodGet, "/classes", nil)
	require.Equal(t, http.StatusOK, status(t, h.List(c), rec))

	body := decodeBody(t, rec)
	classes := body["classes"].([]any)
	require.Len(t, classes, 3)
	grades := make([]float64, 0, 3)
	for _, raw := range classes {
		grades = append(grades, raw.(map[string]any)["grade_level"].(float64))
	}
	assert.Equal(t, []float64{10, 11, 12}, grades)
}
