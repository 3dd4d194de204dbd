package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"talleres/internal/model"
	"talleres/internal/repository"
	pkgerrors "talleres/pkg/errors"
)

// newMockRepository 组装一套内存 mock；db 为空，Transaction 直接执行回调
func newMockRepository() (*repository.Repository, *mockSet) {
	ms := &mockSet{
		users:       newMockUserRepo(),
		workshops:   newMockWorkshopRepo(),
		teachers:    newMockTeacherRepo(),
		locations:   newMockLocationRepo(),
		enrollments: newMockEnrollmentRepo(),
		attendance:  newMockAttendanceRepo(),
	}
	ms.schedules = newMockScheduleRepo(ms.workshops, ms.teachers, ms.locations)
	ms.locations.schedules = ms.schedules

	repo := &repository.Repository{
		User:       ms.users,
		Workshop:   ms.workshops,
		Teacher:    ms.teachers,
		Location:   ms.locations,
		Schedule:   ms.schedules,
		Enrollment: ms.enrollments,
		Attendance: ms.attendance,
	}
	return repo, ms
}

type mockSet struct {
	users       *mockUserRepo
	workshops   *mockWorkshopRepo
	teachers    *mockTeacherRepo
	locations   *mockLocationRepo
	schedules   *mockScheduleRepo
	enrollments *mockEnrollmentRepo
	attendance  *mockAttendanceRepo
}

// ── Mock WorkshopRepository ──

type mockWorkshopRepo struct {
	workshops map[string]*model.Workshop
	failList  error
}

func newMockWorkshopRepo() *mockWorkshopRepo {
	return &mockWorkshopRepo{workshops: make(map[string]*model.Workshop)}
}

func (m *mockWorkshopRepo) Create(_ context.Context, w *model.Workshop) error {
	if w.WorkshopID == "" {
		w.WorkshopID = fmt.Sprintf("ws-%03d", len(m.workshops)+1)
	}
	cp := *w
	m.workshops[w.WorkshopID] = &cp
	return nil
}

func (m *mockWorkshopRepo) GetByID(_ context.Context, id string) (*model.Workshop, error) {
	if w, ok := m.workshops[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockWorkshopRepo) List(_ context.Context, includeInactive bool) ([]model.Workshop, error) {
	if m.failList != nil {
		return nil, m.failList
	}
	var result []model.Workshop
	for _, w := range m.workshops {
		if includeInactive || w.IsActive {
			result = append(result, *w)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].WorkshopID < result[j].WorkshopID })
	return result, nil
}

func (m *mockWorkshopRepo) NameTable(_ context.Context) (map[string]string, error) {
	names := make(map[string]string, len(m.workshops))
	for id, w := range m.workshops {
		names[id] = w.Name
	}
	return names, nil
}

func (m *mockWorkshopRepo) Update(_ context.Context, w *model.Workshop) error {
	stored, ok := m.workshops[w.WorkshopID]
	if !ok || stored.Version != w.Version {
		return pkgerrors.ErrOptimisticLock
	}
	w.Version++
	cp := *w
	m.workshops[w.WorkshopID] = &cp
	return nil
}

func (m *mockWorkshopRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.workshops, id)
	return nil
}

// ── Mock TeacherRepository ──

type mockTeacherRepo struct {
	teachers map[string]*model.Teacher
}

func newMockTeacherRepo() *mockTeacherRepo {
	return &mockTeacherRepo{teachers: make(map[string]*model.Teacher)}
}

func (m *mockTeacherRepo) Create(_ context.Context, t *model.Teacher) error {
	if t.TeacherID == "" {
		t.TeacherID = fmt.Sprintf("tch-%03d", len(m.teachers)+1)
	}
	m.teachers[t.TeacherID] = t
	return nil
}

func (m *mockTeacherRepo) GetByID(_ context.Context, id string) (*model.Teacher, error) {
	if t, ok := m.teachers[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTeacherRepo) List(_ context.Context, includeInactive bool) ([]model.Teacher, error) {
	var result []model.Teacher
	for _, t := range m.teachers {
		if includeInactive || t.IsActive {
			result = append(result, *t)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockTeacherRepo) Update(_ context.Context, t *model.Teacher) error {
	m.teachers[t.TeacherID] = t
	return nil
}

func (m *mockTeacherRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.teachers, id)
	return nil
}

// ── Mock LocationRepository ──

type mockLocationRepo struct {
	locations map[string]*model.Location
	schedules *mockScheduleRepo
}

func newMockLocationRepo() *mockLocationRepo {
	return &mockLocationRepo{locations: make(map[string]*model.Location)}
}

func (m *mockLocationRepo) Create(_ context.Context, loc *model.Location) error {
	if loc.LocationID == "" {
		loc.LocationID = fmt.Sprintf("loc-%03d", len(m.locations)+1)
	}
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) GetByID(_ context.Context, id string) (*model.Location, error) {
	if l, ok := m.locations[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLocationRepo) List(_ context.Context, includeInactive bool) ([]model.Location, error) {
	var result []model.Location
	for _, l := range m.locations {
		if includeInactive || l.IsActive {
			result = append(result, *l)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (m *mockLocationRepo) Update(_ context.Context, loc *model.Location) error {
	m.locations[loc.LocationID] = loc
	return nil
}

func (m *mockLocationRepo) CountActiveSchedules(_ context.Context, id string) (int64, error) {
	var n int64
	if m.schedules == nil {
		return 0, nil
	}
	for _, s := range m.schedules.schedules {
		if s.IsActive && s.LocationID != nil && *s.LocationID == id {
			n++
		}
	}
	return n, nil
}

func (m *mockLocationRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.locations, id)
	return nil
}

// ── Mock ScheduleRepository ──

type mockScheduleRepo struct {
	schedules map[string]*model.WorkshopSchedule
	locked    []string

	workshops *mockWorkshopRepo
	teachers  *mockTeacherRepo
	locations *mockLocationRepo
}

func newMockScheduleRepo(w *mockWorkshopRepo, t *mockTeacherRepo, l *mockLocationRepo) *mockScheduleRepo {
	return &mockScheduleRepo{
		schedules: make(map[string]*model.WorkshopSchedule),
		workshops: w,
		teachers:  t,
		locations: l,
	}
}

func (m *mockScheduleRepo) Create(_ context.Context, s *model.WorkshopSchedule) error {
	if s.ScheduleID == "" {
		s.ScheduleID = fmt.Sprintf("sch-%03d", len(m.schedules)+1)
	}
	cp := *s
	cp.Workshop, cp.Teacher, cp.Location = nil, nil, nil
	m.schedules[s.ScheduleID] = &cp
	return nil
}

// preload 模拟 gorm Preload 关联
func (m *mockScheduleRepo) preload(s *model.WorkshopSchedule) model.WorkshopSchedule {
	cp := *s
	cp.Workshop = m.workshops.workshops[s.WorkshopID]
	if s.TeacherID != nil {
		cp.Teacher = m.teachers.teachers[*s.TeacherID]
	}
	if s.LocationID != nil {
		cp.Location = m.locations.locations[*s.LocationID]
	}
	return cp
}

func (m *mockScheduleRepo) GetByID(_ context.Context, id string) (*model.WorkshopSchedule, error) {
	if s, ok := m.schedules[id]; ok {
		cp := m.preload(s)
		return &cp, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockScheduleRepo) List(_ context.Context, filter repository.ScheduleFilter) ([]model.WorkshopSchedule, error) {
	var result []model.WorkshopSchedule
	for _, s := range m.schedules {
		if filter.WorkshopID != "" && s.WorkshopID != filter.WorkshopID {
			continue
		}
		if filter.TeacherID != "" && (s.TeacherID == nil || *s.TeacherID != filter.TeacherID) {
			continue
		}
		if filter.LocationID != "" && (s.LocationID == nil || *s.LocationID != filter.LocationID) {
			continue
		}
		if !filter.IncludeInactive && !s.IsActive {
			continue
		}
		result = append(result, m.preload(s))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ScheduleID < result[j].ScheduleID })
	return result, nil
}

func (m *mockScheduleRepo) ListActive(_ context.Context) ([]model.WorkshopSchedule, error) {
	var result []model.WorkshopSchedule
	for _, s := range m.schedules {
		w, ok := m.workshops.workshops[s.WorkshopID]
		if !s.IsActive || !ok || !w.IsActive {
			continue
		}
		result = append(result, m.preload(s))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ScheduleID < result[j].ScheduleID })
	return result, nil
}

func (m *mockScheduleRepo) Update(_ context.Context, s *model.WorkshopSchedule) error {
	stored, ok := m.schedules[s.ScheduleID]
	if !ok || stored.Version != s.Version {
		return pkgerrors.ErrOptimisticLock
	}
	s.Version++
	cp := *s
	cp.Workshop, cp.Teacher, cp.Location = nil, nil, nil
	m.schedules[s.ScheduleID] = &cp
	return nil
}

func (m *mockScheduleRepo) Lock(_ context.Context, id string) error {
	if _, ok := m.schedules[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	m.locked = append(m.locked, id)
	return nil
}

func (m *mockScheduleRepo) Delete(_ context.Context, id string, _ string) error {
	delete(m.schedules, id)
	return nil
}

// ── Mock EnrollmentRepository ──

type mockEnrollmentRepo struct {
	enrollments map[string]*model.Enrollment
}

func newMockEnrollmentRepo() *mockEnrollmentRepo {
	return &mockEnrollmentRepo{enrollments: make(map[string]*model.Enrollment)}
}

func (m *mockEnrollmentRepo) Create(_ context.Context, e *model.Enrollment) error {
	if e.EnrollmentID == "" {
		e.EnrollmentID = fmt.Sprintf("enr-%03d", len(m.enrollments)+1)
	}
	m.enrollments[e.EnrollmentID] = e
	return nil
}

func (m *mockEnrollmentRepo) GetByID(_ context.Context, id string) (*model.Enrollment, error) {
	if e, ok := m.enrollments[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEnrollmentRepo) ListBySchedule(_ context.Context, scheduleID string, includeCancelled bool) ([]model.Enrollment, error) {
	var result []model.Enrollment
	for _, e := range m.enrollments {
		if e.ScheduleID != scheduleID {
			continue
		}
		if !includeCancelled && e.Status != model.EnrollmentActive {
			continue
		}
		result = append(result, *e)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].EnrollmentID < result[j].EnrollmentID })
	return result, nil
}

func (m *mockEnrollmentRepo) CountActive(_ context.Context, scheduleID string) (int64, error) {
	var n int64
	for _, e := range m.enrollments {
		if e.ScheduleID == scheduleID && e.Status == model.EnrollmentActive {
			n++
		}
	}
	return n, nil
}

func (m *mockEnrollmentRepo) Update(_ context.Context, e *model.Enrollment) error {
	m.enrollments[e.EnrollmentID] = e
	return nil
}

// ── Mock AttendanceRepository ──

type mockAttendanceRepo struct {
	records map[string]*model.Attendance // key: enrollment_id|class_date
}

func newMockAttendanceRepo() *mockAttendanceRepo {
	return &mockAttendanceRepo{records: make(map[string]*model.Attendance)}
}

func attendanceKey(enrollmentID string, date time.Time) string {
	return enrollmentID + "|" + date.Format("2006-01-02")
}

func (m *mockAttendanceRepo) Upsert(_ context.Context, a *model.Attendance) error {
	key := attendanceKey(a.EnrollmentID, a.ClassDate)
	if existing, ok := m.records[key]; ok {
		a.AttendanceID = existing.AttendanceID
	} else if a.AttendanceID == "" {
		a.AttendanceID = fmt.Sprintf("att-%03d", len(m.records)+1)
	}
	m.records[key] = a
	return nil
}

func (m *mockAttendanceRepo) ListByScheduleAndDate(_ context.Context, scheduleID string, classDate time.Time) ([]model.Attendance, error) {
	var result []model.Attendance
	for _, a := range m.records {
		if a.ScheduleID == scheduleID && a.ClassDate.Format("2006-01-02") == classDate.Format("2006-01-02") {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].AttendanceID < result[j].AttendanceID })
	return result, nil
}

// ── 测试数据辅助 ──

func seedWorkshop(ms *mockSet, id, name string, capacity int) *model.Workshop {
	w := &model.Workshop{WorkshopID: id, Name: name, Capacity: capacity, IsActive: true}
	w.Version = 1
	ms.workshops.workshops[id] = w
	return w
}

func seedSchedule(ms *mockSet, id, workshopID, daySpec, start, end string) *model.WorkshopSchedule {
	s := &model.WorkshopSchedule{
		ScheduleID: id,
		WorkshopID: workshopID,
		DaySpec:    daySpec,
		StartTime:  start,
		EndTime:    end,
		IsActive:   true,
	}
	s.Version = 1
	ms.schedules.schedules[id] = s
	return s
}

// fixedClock 2024-06-03（周一）的指定时刻，UTC
func fixedClock(hour, minute int) Clock {
	return func() time.Time { return time.Date(2024, 6, 3, hour, minute, 0, 0, time.UTC) }
}
