package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanphatnh/thptapp/models"
)

func signLogbook(t *testing.T, h *LogbookHandler, actor *models.User, body SignReq) int {
	t.Helper()
	e := newTestEcho()
	c, rec := newRequest(t, e, http.MethodPost, "/logbook/sign", body)
	actAs(c, actor)
	return status(t, h.Sign(c), rec)
}

func TestSignUpsertsEntryAndReplacesLinks(t *testing.T) {
	db := newTestDB(t)
	h := NewLogbookHandler(db)
	cls := mkClass(t, db, "12A1", 12)
	teacher := mkUser(t, db, "gv1", models.RoleTeacher, &cls.ID)
	slot := mkSlot(t, db, cls.ID, teacher.ID, 1, 1)
	r1 := mkRule(t, db, "Nói chuyện riêng", -2, models.CategoryInClass)
	r2 := mkRule(t, db, "Không làm bài tập", -3, models.CategoryInClass)
	r3 := mkRule(t, db, "Mất trật tự", -5, models.CategoryInClass)

	code := signLogbook(t, h, teacher, SignReq{
		TimetableID:     slot.ID,
		WeekNumber:      10,
		LessonContent:   "Chương 3: Hàm số",
		SelectedRuleIDs: []uint{r1.ID, r2.ID},
	})
	require.Equal(t, http.StatusCreated, code)

	code = signLogbook(t, h, teacher, SignReq{
		TimetableID:     slot.ID,
		WeekNumber:      10,
		LessonContent:   "Chương 3: Hàm số (sửa)",
		Notes:           "lớp ổn định",
		SelectedRuleIDs: []uint{r3.ID},
	})
	require.Equal(t, http.StatusCreated, code)

	// exactly one entry, carrying the second call's content
	var entries []models.LogbookEntry
	require.NoError(t, db.Where("timetable_id = ?", slot.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, "Chương 3: Hàm số (sửa)", entries[0].LessonContent)
	assert.Equal(t, "lớp ổn định", entries[0].Notes)
	assert.Equal(t, 10, entries[0].WeekNumber)

	// only the second call's links survive
	var links []models.LogbookViolation
	require.NoError(t, db.Where("entry_id = ?", entries[0].ID).Find(&links).Error)
	require.Len(t, links, 1)
	assert.Equal(t, r3.ID, links[0].RuleID)
}

func TestSignUnknownSlot(t *testing.T) {
	db := newTestDB(t)
	h := NewLogbookHandler(db)
	teacher := mkUser(t, db, "gv1", models.RoleTeacher, nil)

	code := signLogbook(t, h, teacher, SignReq{TimetableID: 777, WeekNumber: 10})
	assert.Equal(t, http.StatusNotFound, code)
}

func TestSignRequiresSlotOwnership(t *testing.T) {
	db := newTestDB(t)
	h := NewLogbookHandler(db)
	cls := mkClass(t, db, "12A1", 12)
	owner := mkUser(t, db, "gv1", models.RoleTeacher, &cls.ID)
	intruder := mkUser(t, db, "gv2", models.RoleTeacher, nil)
	principal := mkUser(t, db, "bgh1", models.RolePrincipal, nil)
	slot := mkSlot(t, db, cls.ID, owner.ID, 2, 3)

	code := signLogbook(t, h, intruder, SignReq{TimetableID: slot.ID, WeekNumber: 10})
	assert.Equal(t, http.StatusForbidden, code)

	// principal board override is allowed and recorded as the grader
	code = signLogbook(t, h, principal, SignReq{TimetableID: slot.ID, WeekNumber: 10, LessonContent: "ký thay"})
	require.Equal(t, http.StatusCreated, code)

	var entry models.LogbookEntry
	require.NoError(t, db.First(&entry, "timetable_id = ?", slot.ID).Error)
	assert.Equal(t, principal.ID, entry.GraderID)
	assert.Equal(t, owner.ID, entry.TeacherID)
}

func TestSignComputesEntryDateFromWeekAndSlotDay(t *testing.T) {
	db := newTestDB(t)
	h := NewLogbookHandler(db)
	cls := mkClass(t, db, "12A1", 12)
	teacher := mkUser(t, db, "gv1", models.RoleTeacher, &cls.ID)
	slot := mkSlot(t, db, cls.ID, teacher.ID, 3, 2) // Wednesday

	require.Equal(t, http.StatusCreated, signLogbook(t, h, teacher, SignReq{TimetableID: slot.ID, WeekNumber: 10}))

	var entry models.LogbookEntry
	require.NoError(t, db.First(&entry, "timetable_id = ?", slot.ID).Error)
	want := lessonDate(currentYear(), 10, 3).Format(dateLayout)
	assert.Equal(t, want, entry.EntryDate)
}

func TestSignDistinctSlotsSameWeek(t *testing.T) {
	db := newTestDB(t)
	h := NewLogbookHandler(db)
	cls := mkClass(t, db, "12A1", 12)
	teacher := mkUser(t, db, "gv1", models.RoleTeacher, &cls.ID)
	s1 := mkSlot(t, db, cls.ID, teacher.ID, 1, 1)
	s2 := mkSlot(t, db, cls.ID, teacher.ID, 2, 4)

	require.Equal(t, http.StatusCreated, signLogbook(t, h, teacher, SignReq{TimetableID: s1.ID, WeekNumber: 10}))
	require.Equal(t, http.StatusCreated, signLogbook(t, h, teacher, SignReq{TimetableID: s2.ID, WeekNumber: 10}))

	var count int64
	require.NoError(t, db.Model(&models.LogbookEntry{}).Where("week_number = ?", 10).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

func TestSignUnknownRuleRollsBack(t *testing.T) {
	db := newTestDB(t)
	h := NewLogbookHandler(db)
	cls := mkClass(t, db, "12A1", 12)
	teacher := mkUser(t, db, "gv1", models.RoleTeacher, &cls.ID)
	slot := mkSlot(t, db, cls.ID, teacher.ID, 1, 1)

	code := signLogbook(t, h, teacher, SignReq{
		TimetableID:     slot.ID,
		WeekNumber:      10,
		LessonContent:   "should not persist",
		SelectedRuleIDs: []uint{9999},
	})
	assert.Equal(t, http.StatusConflict, code)

	// the whole sign rolled back, entry upsert included
	var count int64
	require.NoError(t, db.Model(&models.LogbookEntry{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestMyScheduleMarksSignedSlots(t *testing.T) {
	db := newTestDB(t)
	h := NewLogbookHandler(db)
	cls := mkClass(t, db, "12A1", 12)
	teacher := mkUser(t, db, "gv1", models.RoleTeacher, &cls.ID)
	s1 := mkSlot(t, db, cls.ID, teacher.ID, 1, 1)
	mkSlot(t, db, cls.ID, teacher.ID, 2, 2)
	rule := mkRule(t, db, "Nói chuyện riêng", -2, models.CategoryInClass)

	require.Equal(t, http.StatusCreated, signLogbook(t, h, teacher, SignReq{
		TimetableID:     s1.ID,
		WeekNumber:      10,
		SelectedRuleIDs: []uint{rule.ID},
	}))

	e := newTestEcho()
	c, rec := newRequest(t, e, http.MethodGet, "/logbook/my-schedule?week_number=10", nil)
	actAs(c, teacher)
	require.Equal(t, http.StatusOK, status(t, h.MySchedule(c), rec))

	body := decodeBody(t, rec)
	schedule := body["schedule"].([]any)
	require.Len(t, schedule, 2)

	signed := 0
	for _, raw := range schedule {
		item := raw.(map[string]any)
		if item["is_signed"].(bool) {
			signed++
			assert.Len(t, item["violations"].([]any), 1)
		}
	}
	assert.Equal(t, 1, signed)
}
