package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"

	"talleres/internal/api/middleware"
	"talleres/internal/dto"
	"talleres/internal/service"
	pkgerrors "talleres/pkg/errors"
	"talleres/pkg/jwt"
	"talleres/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

const (
	testScheduleID = "8f6c2b1e-3d4a-4e5f-9a0b-1c2d3e4f5a6b"
	testWorkshopID = "0b1c2d3e-4f5a-4b6c-8d7e-9f0a1b2c3d4e"
)

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock AuthService ──

type mockAuthService struct {
	service.AuthService
	loginResult   *dto.TokenResponse
	loginErr      error
	refreshResult *dto.TokenResponse
	refreshErr    error
	logoutClaims  *jwt.Claims
	logoutErr     error
	meResult      *dto.UserResponse
	meErr         error
}

func (m *mockAuthService) Login(_ context.Context, _ *dto.LoginRequest) (*dto.TokenResponse, error) {
	return m.loginResult, m.loginErr
}
func (m *mockAuthService) Refresh(_ context.Context, _ *dto.RefreshTokenRequest) (*dto.TokenResponse, error) {
	return m.refreshResult, m.refreshErr
}
func (m *mockAuthService) Logout(_ context.Context, claims *jwt.Claims) error {
	m.logoutClaims = claims
	return m.logoutErr
}
func (m *mockAuthService) Me(_ context.Context, _ string) (*dto.UserResponse, error) {
	return m.meResult, m.meErr
}

// ── Mock WorkshopService ──

type mockWorkshopService struct {
	service.WorkshopService
	listResult   []dto.WorkshopResponse
	createResult *dto.WorkshopResponse
	updateErr    error
	deleteErr    error
	lastCaller   string
}

func (m *mockWorkshopService) List(_ context.Context, _ *dto.ListRequest) ([]dto.WorkshopResponse, error) {
	return m.listResult, nil
}
func (m *mockWorkshopService) Create(_ context.Context, _ *dto.CreateWorkshopRequest, callerID string) (*dto.WorkshopResponse, error) {
	m.lastCaller = callerID
	return m.createResult, nil
}
func (m *mockWorkshopService) Update(_ context.Context, _ string, _ *dto.UpdateWorkshopRequest, _ string) (*dto.WorkshopResponse, error) {
	return nil, m.updateErr
}
func (m *mockWorkshopService) Delete(_ context.Context, _ string, _ string) error {
	return m.deleteErr
}

// ── Mock LocationService ──

type mockLocationService struct {
	service.LocationService
	createReq *dto.CreateLocationRequest
	deleteErr error
}

func (m *mockLocationService) Create(_ context.Context, req *dto.CreateLocationRequest, _ string) (*dto.LocationResponse, error) {
	m.createReq = req
	return &dto.LocationResponse{ID: "loc1", Name: req.Name, Room: req.Room, Capacity: req.Capacity}, nil
}
func (m *mockLocationService) Delete(_ context.Context, _ string, _ string) error {
	return m.deleteErr
}

// ── Mock ScheduleService ──

type mockScheduleService struct {
	service.ScheduleService
	listReq      *dto.ScheduleListRequest
	listResult   []dto.ScheduleResponse
	createResult *dto.ScheduleResponse
	createErr    error
	getErr       error
	auditResult  []dto.ScheduleIssueResponse
}

func (m *mockScheduleService) List(_ context.Context, req *dto.ScheduleListRequest) ([]dto.ScheduleResponse, error) {
	m.listReq = req
	return m.listResult, nil
}
func (m *mockScheduleService) Create(_ context.Context, _ *dto.CreateScheduleRequest, _ string) (*dto.ScheduleResponse, error) {
	return m.createResult, m.createErr
}
func (m *mockScheduleService) GetByID(_ context.Context, _ string) (*dto.ScheduleResponse, error) {
	return nil, m.getErr
}
func (m *mockScheduleService) Audit(_ context.Context) ([]dto.ScheduleIssueResponse, error) {
	return m.auditResult, nil
}

// ── Mock EnrollmentService ──

type mockEnrollmentService struct {
	service.EnrollmentService
	enrollErr error
}

func (m *mockEnrollmentService) Enroll(_ context.Context, scheduleID string, req *dto.EnrollRequest, _ string) (*dto.EnrollmentResponse, error) {
	if m.enrollErr != nil {
		return nil, m.enrollErr
	}
	return &dto.EnrollmentResponse{ID: "enr-1", ScheduleID: scheduleID, StudentName: req.StudentName, Status: "active"}, nil
}

// ── Mock AttendanceService ──

type mockAttendanceService struct {
	service.AttendanceService
	recordErr error
}

func (m *mockAttendanceService) Record(_ context.Context, scheduleID string, req *dto.RecordAttendanceRequest, _ string) (*dto.AttendanceResponse, error) {
	if m.recordErr != nil {
		return nil, m.recordErr
	}
	return &dto.AttendanceResponse{ID: "att-1", ScheduleID: scheduleID, EnrollmentID: req.EnrollmentID, ClassDate: req.ClassDate, Present: req.Present}, nil
}

// ── Mock DashboardService ──

type mockDashboardService struct {
	service.DashboardService
	todayResult *dto.TodayResponse
	weekReq     *dto.WeekRequest
	weekErr     error
}

func (m *mockDashboardService) Today(_ context.Context) (*dto.TodayResponse, error) {
	return m.todayResult, nil
}
func (m *mockDashboardService) Week(_ context.Context, req *dto.WeekRequest) (*dto.WeekResponse, error) {
	m.weekReq = req
	if m.weekErr != nil {
		return nil, m.weekErr
	}
	return &dto.WeekResponse{WeekStart: "2024-06-03", WeekEnd: "2024-06-09", Days: []dto.WeekDayResponse{}}, nil
}

// ── Mock ExportService ──

type mockExportService struct {
	file *service.ExportFile
	err  error
}

func (m *mockExportService) ExportWeekXLSX(_ context.Context, _ *dto.WeekRequest) (*service.ExportFile, error) {
	return m.file, m.err
}
func (m *mockExportService) ExportICS(_ context.Context) (*service.ExportFile, error) {
	return m.file, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

// withAuth 模拟 JWTAuth 中间件注入的上下文
func withAuth(c *gin.Context) {
	claims := &jwt.Claims{UserID: "test-user-id", Role: "admin", TokenType: jwt.TokenTypeAccess}
	claims.ID = "test-jti"
	c.Set(middleware.CtxUserID, claims.UserID)
	c.Set(middleware.CtxRole, claims.Role)
	c.Set(middleware.CtxJTI, claims.ID)
	c.Set(middleware.CtxClaims, claims)
	c.Next()
}

func newRouter(auth bool) *gin.Engine {
	r := gin.New()
	if auth {
		r.Use(withAuth)
	}
	return r
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func do(r *gin.Engine, method, path string, body io.Reader) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// ═══════════════════════════════════════════════════════════
// AuthHandler Tests
// ═══════════════════════════════════════════════════════════

func TestAuthHandler_Login_Success(t *testing.T) {
	mock := &mockAuthService{loginResult: &dto.TokenResponse{AccessToken: "a", RefreshToken: "r", ExpiresIn: 900}}
	r := newRouter(false)
	r.POST("/auth/login", NewAuthHandler(mock).Login)

	w := do(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "admin@talleres.cl", Password: "Secreta123"}))

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 0 {
		t.Errorf("expected code 0, got %d", resp.Code)
	}
}

func TestAuthHandler_Login_BadJSON(t *testing.T) {
	r := newRouter(false)
	r.POST("/auth/login", NewAuthHandler(&mockAuthService{}).Login)

	w := do(r, "POST", "/auth/login", strings.NewReader("invalid json"))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestAuthHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"InvalidCredentials", service.ErrInvalidCredentials, 401, 11001},
		{"Disabled", service.ErrUserDisabled, 403, 11003},
		{"InternalError", errors.New("db down"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(false)
			r.POST("/auth/login", NewAuthHandler(&mockAuthService{loginErr: tt.err}).Login)

			w := do(r, "POST", "/auth/login", jsonBody(dto.LoginRequest{Email: "a@b.cl", Password: "x"}))

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAuthHandler_RefreshToken_Invalid(t *testing.T) {
	r := newRouter(false)
	r.POST("/auth/refresh", NewAuthHandler(&mockAuthService{refreshErr: service.ErrInvalidRefresh}).RefreshToken)

	w := do(r, "POST", "/auth/refresh", jsonBody(dto.RefreshTokenRequest{RefreshToken: "old"}))

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 11002 {
		t.Errorf("expected code 11002, got %d", resp.Code)
	}
}

func TestAuthHandler_Logout_PassesClaims(t *testing.T) {
	mock := &mockAuthService{}
	r := newRouter(true)
	r.POST("/auth/logout", NewAuthHandler(mock).Logout)

	w := do(r, "POST", "/auth/logout", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.logoutClaims == nil || mock.logoutClaims.ID != "test-jti" {
		t.Errorf("expected claims with jti test-jti, got %+v", mock.logoutClaims)
	}
}

func TestAuthHandler_Me_Unauthenticated(t *testing.T) {
	r := newRouter(false)
	r.GET("/auth/me", NewAuthHandler(&mockAuthService{}).Me)

	w := do(r, "GET", "/auth/me", nil)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// WorkshopHandler Tests
// ═══════════════════════════════════════════════════════════

func TestWorkshopHandler_List(t *testing.T) {
	mock := &mockWorkshopService{listResult: []dto.WorkshopResponse{{ID: "w1", Name: "Cerámica"}, {ID: "w2", Name: "Yoga"}}}
	r := newRouter(true)
	r.GET("/workshops", NewWorkshopHandler(mock).ListWorkshops)

	w := do(r, "GET", "/workshops", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Data response.ListData `json:"data"`
	}
	json.Unmarshal(w.Body.Bytes(), &body)
	if body.Data.Total != 2 {
		t.Errorf("expected total 2, got %d", body.Data.Total)
	}
}

func TestWorkshopHandler_Create(t *testing.T) {
	mock := &mockWorkshopService{createResult: &dto.WorkshopResponse{ID: "w1", Name: "Cerámica"}}
	r := newRouter(true)
	r.POST("/workshops", NewWorkshopHandler(mock).CreateWorkshop)

	w := do(r, "POST", "/workshops", jsonBody(dto.CreateWorkshopRequest{Name: "Cerámica", Capacity: 12}))

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
	if mock.lastCaller != "test-user-id" {
		t.Errorf("expected caller test-user-id, got %q", mock.lastCaller)
	}
}

func TestWorkshopHandler_Update_StaleVersion(t *testing.T) {
	mock := &mockWorkshopService{updateErr: pkgerrors.ErrOptimisticLock}
	r := newRouter(true)
	r.PUT("/workshops/:id", NewWorkshopHandler(mock).UpdateWorkshop)

	name := "Cerámica II"
	w := do(r, "PUT", "/workshops/w1", jsonBody(dto.UpdateWorkshopRequest{Name: &name, Version: 1}))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10009 {
		t.Errorf("expected code 10009, got %d", resp.Code)
	}
}

func TestWorkshopHandler_Delete_HasSchedules(t *testing.T) {
	mock := &mockWorkshopService{deleteErr: service.ErrWorkshopHasSchedules}
	r := newRouter(true)
	r.DELETE("/workshops/:id", NewWorkshopHandler(mock).DeleteWorkshop)

	w := do(r, "DELETE", "/workshops/w1", nil)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 12002 {
		t.Errorf("expected code 12002, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// LocationHandler Tests
// ═══════════════════════════════════════════════════════════

func TestLocationHandler_Create_RoomAndCapacity(t *testing.T) {
	mock := &mockLocationService{}
	r := newRouter(true)
	r.POST("/locations", NewLocationHandler(mock).CreateLocation)

	w := do(r, "POST", "/locations", strings.NewReader(`{"name":"Centro Cultural","room":"Sala 2","capacity":18}`))

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if mock.createReq == nil || mock.createReq.Room != "Sala 2" || mock.createReq.Capacity == nil || *mock.createReq.Capacity != 18 {
		t.Errorf("room/capacity not bound: %+v", mock.createReq)
	}
}

func TestLocationHandler_Create_ZeroCapacityRejected(t *testing.T) {
	mock := &mockLocationService{}
	r := newRouter(true)
	r.POST("/locations", NewLocationHandler(mock).CreateLocation)

	w := do(r, "POST", "/locations", strings.NewReader(`{"name":"Centro Cultural","capacity":0}`))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if mock.createReq != nil {
		t.Error("service should not be called")
	}
}

func TestLocationHandler_Delete_InUse(t *testing.T) {
	mock := &mockLocationService{deleteErr: service.ErrLocationInUse}
	r := newRouter(true)
	r.DELETE("/locations/:id", NewLocationHandler(mock).DeleteLocation)

	w := do(r, "DELETE", "/locations/loc1", nil)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 16002 {
		t.Errorf("expected code 16002, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ScheduleHandler Tests
// ═══════════════════════════════════════════════════════════

func TestScheduleHandler_List_WeekdayFilter(t *testing.T) {
	mock := &mockScheduleService{listResult: []dto.ScheduleResponse{{ID: testScheduleID}}}
	r := newRouter(true)
	r.GET("/schedules", NewScheduleHandler(mock).ListSchedules)

	w := do(r, "GET", "/schedules?weekday=3", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.listReq.Weekday == nil || *mock.listReq.Weekday != 3 {
		t.Errorf("expected weekday 3, got %v", mock.listReq.Weekday)
	}
}

func TestScheduleHandler_List_BadWeekday(t *testing.T) {
	r := newRouter(true)
	r.GET("/schedules", NewScheduleHandler(&mockScheduleService{}).ListSchedules)

	w := do(r, "GET", "/schedules?weekday=9", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestScheduleHandler_Create_InvalidDaySpec(t *testing.T) {
	mock := &mockScheduleService{createErr: fmt.Errorf("%w: %q", service.ErrScheduleDaySpec, "xyz")}
	r := newRouter(true)
	r.POST("/schedules", NewScheduleHandler(mock).CreateSchedule)

	w := do(r, "POST", "/schedules", jsonBody(dto.CreateScheduleRequest{
		WorkshopID: testWorkshopID,
		DaySpec:    "xyz",
		StartTime:  "10:00",
		EndTime:    "12:00",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	resp := parseResponse(w)
	if resp.Code != 14002 {
		t.Errorf("expected code 14002, got %d", resp.Code)
	}
	if !strings.Contains(resp.Details, "xyz") {
		t.Errorf("expected details to mention the day spec, got %q", resp.Details)
	}
}

func TestScheduleHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"NotFound", service.ErrScheduleNotFound, 404, 14001},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(true)
			r.GET("/schedules/:id", NewScheduleHandler(&mockScheduleService{getErr: tt.err}).GetSchedule)

			w := do(r, "GET", "/schedules/"+testScheduleID, nil)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestScheduleHandler_Audit(t *testing.T) {
	mock := &mockScheduleService{auditResult: []dto.ScheduleIssueResponse{{ScheduleID: "s1", Kind: "day_spec", Value: "xyz"}}}
	r := newRouter(true)
	r.GET("/schedules/audit", NewScheduleHandler(mock).AuditSchedules)

	w := do(r, "GET", "/schedules/audit", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"total":1`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

// ═══════════════════════════════════════════════════════════
// EnrollmentHandler / AttendanceHandler Tests
// ═══════════════════════════════════════════════════════════

func TestEnrollmentHandler_Enroll(t *testing.T) {
	r := newRouter(true)
	r.POST("/schedules/:id/enrollments", NewEnrollmentHandler(&mockEnrollmentService{}).Enroll)

	w := do(r, "POST", "/schedules/"+testScheduleID+"/enrollments", jsonBody(dto.EnrollRequest{StudentName: "Camila"}))

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestEnrollmentHandler_Enroll_Full(t *testing.T) {
	r := newRouter(true)
	r.POST("/schedules/:id/enrollments", NewEnrollmentHandler(&mockEnrollmentService{enrollErr: service.ErrScheduleFull}).Enroll)

	w := do(r, "POST", "/schedules/"+testScheduleID+"/enrollments", jsonBody(dto.EnrollRequest{StudentName: "Camila"}))

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 15002 {
		t.Errorf("expected code 15002, got %d", resp.Code)
	}
}

func TestAttendanceHandler_Record_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"WrongDay", service.ErrAttendanceWrongDay, 400, 17001},
		{"FutureDate", service.ErrAttendanceFutureDate, 400, 17002},
		{"OtherSchedule", service.ErrEnrollmentNotInSchedule, 400, 17003},
		{"Cancelled", service.ErrEnrollmentCancelled, 409, 15004},
		{"ScheduleNotFound", service.ErrScheduleNotFound, 404, 14001},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(true)
			r.POST("/schedules/:id/attendance", NewAttendanceHandler(&mockAttendanceService{recordErr: tt.err}).RecordAttendance)

			w := do(r, "POST", "/schedules/"+testScheduleID+"/attendance", jsonBody(dto.RecordAttendanceRequest{
				EnrollmentID: "3e4f5a6b-7c8d-4e9f-8a0b-1c2d3e4f5a6b",
				ClassDate:    "2024-06-03",
				Present:      true,
			}))

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

func TestAttendanceHandler_Record_BadDate(t *testing.T) {
	r := newRouter(true)
	r.POST("/schedules/:id/attendance", NewAttendanceHandler(&mockAttendanceService{}).RecordAttendance)

	w := do(r, "POST", "/schedules/"+testScheduleID+"/attendance", jsonBody(map[string]interface{}{
		"enrollment_id": "3e4f5a6b-7c8d-4e9f-8a0b-1c2d3e4f5a6b",
		"class_date":    "03/06/2024",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// DashboardHandler Tests
// ═══════════════════════════════════════════════════════════

func TestDashboardHandler_Today(t *testing.T) {
	mock := &mockDashboardService{todayResult: &dto.TodayResponse{
		Today:      "2024-06-03",
		InProgress: []dto.OccurrenceResponse{{ID: "s1:2024-06-03", WorkshopName: "Cerámica"}},
		Upcoming:   []dto.OccurrenceResponse{},
		TodayTotal: 1,
	}}
	r := newRouter(true)
	r.GET("/dashboard/today", NewDashboardHandler(mock).Today)

	w := do(r, "GET", "/dashboard/today", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"id":"s1:2024-06-03"`) {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestDashboardHandler_Week(t *testing.T) {
	mock := &mockDashboardService{}
	r := newRouter(true)
	r.GET("/dashboard/week", NewDashboardHandler(mock).Week)

	w := do(r, "GET", "/dashboard/week?date=2024-06-05", nil)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if mock.weekReq == nil || mock.weekReq.Date != "2024-06-05" {
		t.Errorf("expected date 2024-06-05, got %+v", mock.weekReq)
	}
}

func TestDashboardHandler_Week_BadDate(t *testing.T) {
	r := newRouter(true)
	r.GET("/dashboard/week", NewDashboardHandler(&mockDashboardService{}).Week)

	w := do(r, "GET", "/dashboard/week?date=ayer", nil)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_Week_Success(t *testing.T) {
	mock := &mockExportService{file: &service.ExportFile{
		Buf:         bytes.NewBufferString("excel content"),
		Filename:    "agenda_2024-06-03.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	}}
	r := newRouter(true)
	r.GET("/export/week", NewExportHandler(mock).ExportWeek)

	w := do(r, "GET", "/export/week", nil)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != mock.file.ContentType {
		t.Errorf("unexpected content type: %s", ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "agenda_2024-06-03.xlsx") {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}
	if w.Body.String() != "excel content" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestExportHandler_Calendar_NoSchedules(t *testing.T) {
	r := newRouter(true)
	r.GET("/export/calendar.ics", NewExportHandler(&mockExportService{err: service.ErrExportNoSchedules}).ExportCalendar)

	w := do(r, "GET", "/export/calendar.ics", nil)

	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 18001 {
		t.Errorf("expected code 18001, got %d", resp.Code)
	}
}

func TestExportHandler_GenerateFail(t *testing.T) {
	r := newRouter(true)
	r.GET("/export/week", NewExportHandler(&mockExportService{err: service.ErrExportGenerateFail}).ExportWeek)

	w := do(r, "GET", "/export/week", nil)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

func TestScheduleHandler_Create_BadClockRejectedByBinding(t *testing.T) {
	mock := &mockScheduleService{createResult: &dto.ScheduleResponse{ID: testScheduleID}}
	r := newRouter(true)
	r.POST("/schedules", NewScheduleHandler(mock).CreateSchedule)

	w := do(r, "POST", "/schedules", jsonBody(dto.CreateScheduleRequest{
		WorkshopID: testWorkshopID,
		DaySpec:    "lunes",
		StartTime:  "25:00",
		EndTime:    "26:00",
	}))

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 10001 {
		t.Errorf("expected code 10001, got %d", resp.Code)
	}
}

func TestRespondUnexpected_ConstraintViolations(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"Unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), 409, 10007},
		{"ForeignKey", &pgconn.PgError{Code: "23503"}, 400, 10008},
		{"Other", errors.New("boom"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(true)
			r.DELETE("/workshops/:id", NewWorkshopHandler(&mockWorkshopService{deleteErr: tt.err}).DeleteWorkshop)

			w := do(r, "DELETE", "/workshops/w1", nil)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if resp := parseResponse(w); resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}
