package routes_test

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"housetrack_backend/internals/configs"
	"housetrack_backend/internals/constants"
	userModel "housetrack_backend/internals/features/users/user/model"
	helper "housetrack_backend/internals/helpers"
	"housetrack_backend/internals/helpers/blob"
	routes "housetrack_backend/internals/route"
	"housetrack_backend/internals/testutil"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type env struct {
	app *fiber.App
	db  *gorm.DB
}

func newEnv(t *testing.T) env {
	t.Helper()
	configs.JWTSecret = testutil.JWTSecret
	configs.JWTRefreshSecret = testutil.JWTRefreshSecret

	db := testutil.NewDB(t)
	store, err := blob.NewLocalStore(t.TempDir(), "http://test.local/uploads")
	require.NoError(t, err)

	app := fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: helper.ErrorHandler,
	})
	routes.SetupRoutes(app, db, routes.Options{Blob: store})
	return env{app: app, db: db}
}

type envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	ErrorCode string          `json:"error_code"`
	Data      json.RawMessage `json:"data"`
}

func (e env) do(t *testing.T, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, rdr)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return e.send(t, req)
}

func (e env) send(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

type idOnly struct {
	ID string `json:"id"`
}

/* ======================= auth ======================= */

func TestAuth_RegisterLoginMeLogout(t *testing.T) {
	e := newEnv(t)

	status, res := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"userName": "budi_s",
		"email":    "Budi@Example.com",
		"password": "rumah123",
	})
	require.Equal(t, http.StatusCreated, status, res.Message)
	created := decode[map[string]any](t, res.Data)
	assert.Equal(t, constants.RoleSurveyor, created["role"])
	assert.Equal(t, "budi@example.com", created["email"])

	status, res = e.do(t, http.MethodPost, "/api/auth/register", "", map[string]any{
		"userName": "budi_s",
		"email":    "other@example.com",
		"password": "rumah123",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, res = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"identifier": "budi@example.com",
		"password":   "wrongpass1",
	})
	assert.Equal(t, http.StatusUnauthorized, status)

	status, res = e.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"identifier": "budi_s",
		"password":   "rumah123",
	})
	require.Equal(t, http.StatusOK, status, res.Message)
	login := decode[struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}](t, res.Data)
	require.NotEmpty(t, login.AccessToken)
	require.NotEmpty(t, login.RefreshToken)

	status, res = e.do(t, http.MethodGet, "/api/auth/me", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)
	me := decode[map[string]any](t, res.Data)
	assert.Equal(t, "budi_s", me["userName"])

	// rotate
	status, res = e.do(t, http.MethodPost, "/api/auth/refresh-token", "", map[string]any{
		"refreshToken": login.RefreshToken,
	})
	require.Equal(t, http.StatusOK, status, res.Message)
	status, _ = e.do(t, http.MethodPost, "/api/auth/refresh-token", "", map[string]any{
		"refreshToken": login.RefreshToken,
	})
	assert.Equal(t, http.StatusUnauthorized, status, "old refresh token is single use")

	status, _ = e.do(t, http.MethodPost, "/api/auth/logout", login.AccessToken, nil)
	require.Equal(t, http.StatusOK, status)

	status, res = e.do(t, http.MethodGet, "/api/auth/me", login.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, res.Success)
	assert.Equal(t, "UNAUTHORIZED", res.ErrorCode)
}

func TestAuth_InactiveUserRejected(t *testing.T) {
	e := newEnv(t)
	u := testutil.CreateUser(t, e.db, constants.RoleSurveyor)
	token := testutil.AccessToken(t, u)
	require.NoError(t, e.db.Model(&userModel.UserModel{}).Where("id = ?", u.ID).Update("is_active", false).Error)

	status, _ := e.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{
		"identifier": u.Email,
		"password":   testutil.Password,
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = e.do(t, http.MethodGet, "/api/u/projects", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	e := newEnv(t)

	status, res := e.do(t, http.MethodGet, "/api/u/projects", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, res.Success)

	status, _ = e.do(t, http.MethodGet, "/api/u/projects", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestRoleGuards(t *testing.T) {
	e := newEnv(t)
	surveyor := testutil.AccessToken(t, testutil.CreateUser(t, e.db, constants.RoleSurveyor))
	reviewer := testutil.AccessToken(t, testutil.CreateUser(t, e.db, constants.RoleReviewer))

	status, res := e.do(t, http.MethodPost, "/api/a/projects", surveyor, map[string]any{"name": "Nope"})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", res.ErrorCode)

	status, _ = e.do(t, http.MethodPost, "/api/a/projects", reviewer, map[string]any{"name": "Alpha"})
	assert.Equal(t, http.StatusCreated, status)

	status, _ = e.do(t, http.MethodGet, "/api/a/users", reviewer, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

/* ======================= users (admin) ======================= */

func TestUsers_AdminChangesRoleAndActive(t *testing.T) {
	e := newEnv(t)
	admin := testutil.CreateUser(t, e.db, constants.RoleAdmin)
	target := testutil.CreateUser(t, e.db, constants.RoleSurveyor)
	token := testutil.AccessToken(t, admin)

	status, res := e.do(t, http.MethodGet, "/api/a/users?role=surveyor", token, nil)
	require.Equal(t, http.StatusOK, status)
	list := decode[[]map[string]any](t, res.Data)
	require.Len(t, list, 1)
	assert.Equal(t, target.ID.String(), list[0]["id"])
	assert.NotContains(t, list[0], "password")

	status, res = e.do(t, http.MethodPatch, "/api/a/users/"+target.ID.String()+"/role", token, map[string]any{"role": "reviewer"})
	require.Equal(t, http.StatusOK, status, res.Message)
	assert.Equal(t, "reviewer", decode[map[string]any](t, res.Data)["role"])

	status, _ = e.do(t, http.MethodPatch, "/api/a/users/"+target.ID.String()+"/role", token, map[string]any{"role": "boss"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = e.do(t, http.MethodPatch, "/api/a/users/"+target.ID.String()+"/active", token, map[string]any{"isActive": false})
	require.Equal(t, http.StatusOK, status)

	status, _ = e.do(t, http.MethodPatch, "/api/a/users/"+admin.ID.String()+"/active", token, map[string]any{"isActive": false})
	assert.Equal(t, http.StatusBadRequest, status, "admin cannot lock themselves out")
}

/* ======================= construction flow ======================= */

type houseActivityRow struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type activityPatchResult struct {
	Status        string `json:"status"`
	StatusChanged bool   `json:"statusChanged"`
	House         *struct {
		Status   string  `json:"status"`
		Progress float64 `json:"progress"`
	} `json:"house"`
	Projects []struct {
		HousesCompleted int `json:"housesCompleted"`
		TotalHouses     int `json:"totalHouses"`
	} `json:"projects"`
}

func TestConstructionFlow_ActivityUpdatesRollUp(t *testing.T) {
	e := newEnv(t)
	testutil.CreateTemplates(t, e.db, 2)
	surveyor := testutil.CreateUser(t, e.db, constants.RoleSurveyor)
	reviewer := testutil.CreateUser(t, e.db, constants.RoleReviewer)
	sTok := testutil.AccessToken(t, surveyor)
	rTok := testutil.AccessToken(t, reviewer)

	status, res := e.do(t, http.MethodPost, "/api/a/projects", rTok, map[string]any{"name": "Lomas del Sol"})
	require.Equal(t, http.StatusCreated, status, res.Message)
	project := decode[idOnly](t, res.Data)

	status, res = e.do(t, http.MethodPost, "/api/a/houses", rTok, map[string]any{
		"name":      "Lot 12",
		"projectId": project.ID,
	})
	require.Equal(t, http.StatusCreated, status, res.Message)
	created := decode[struct {
		House         idOnly `json:"house"`
		ActivityCount int    `json:"activityCount"`
	}](t, res.Data)
	require.Equal(t, 2, created.ActivityCount)
	houseID := created.House.ID

	status, res = e.do(t, http.MethodGet, "/api/u/houses/"+houseID+"/activities", sTok, nil)
	require.Equal(t, http.StatusOK, status)
	acts := decode[[]houseActivityRow](t, res.Data)
	require.Len(t, acts, 2)
	first, second := acts[0].ID, acts[1].ID

	// surveyor claims and starts
	status, res = e.do(t, http.MethodPatch, "/api/u/house-activities/"+first, sTok, map[string]any{
		"appUserId": surveyor.ID.String(),
		"startDate": "2026-03-01",
	})
	require.Equal(t, http.StatusOK, status, res.Message)
	out := decode[activityPatchResult](t, res.Data)
	assert.Equal(t, "in_progress", out.Status)
	assert.True(t, out.StatusChanged)

	// another surveyor cannot take it over
	intruder := testutil.CreateUser(t, e.db, constants.RoleSurveyor)
	status, _ = e.do(t, http.MethodPatch, "/api/u/house-activities/"+first, testutil.AccessToken(t, intruder), map[string]any{
		"appUserId": intruder.ID.String(),
		"remarks":   "mine now",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, res = e.do(t, http.MethodPatch, "/api/u/house-activities/"+first, sTok, map[string]any{
		"completionDate": "2026-03-05T10:00:00Z",
	})
	require.Equal(t, http.StatusOK, status, res.Message)
	assert.Equal(t, "review", decode[activityPatchResult](t, res.Data).Status)

	// surveyor cannot approve
	status, res = e.do(t, http.MethodPatch, "/api/u/house-activities/"+first, sTok, map[string]any{
		"approvedById": surveyor.ID.String(),
	})
	assert.Equal(t, http.StatusForbidden, status)
	assert.Contains(t, string(res.Data), "approvedById")

	// surveyor cannot touch an activity assigned to nobody else but not to them
	status, _ = e.do(t, http.MethodPatch, "/api/u/house-activities/"+second, sTok, map[string]any{
		"remarks": "looks fine",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, res = e.do(t, http.MethodPatch, "/api/u/house-activities/"+first, rTok, map[string]any{
		"approvedById": reviewer.ID.String(),
	})
	require.Equal(t, http.StatusOK, status, res.Message)
	out = decode[activityPatchResult](t, res.Data)
	assert.Equal(t, "completed", out.Status)
	require.NotNil(t, out.House)
	assert.Equal(t, 50.0, out.House.Progress)
	assert.Equal(t, "in_progress", out.House.Status)

	status, res = e.do(t, http.MethodPatch, "/api/u/house-activities/"+second, rTok, map[string]any{
		"completionDate": "2026-03-06",
		"approvedById":   reviewer.ID.String(),
	})
	require.Equal(t, http.StatusOK, status, res.Message)
	out = decode[activityPatchResult](t, res.Data)
	assert.Equal(t, "completed", out.Status)
	require.NotNil(t, out.House)
	assert.Equal(t, 100.0, out.House.Progress)
	assert.Equal(t, "completed", out.House.Status)
	require.Len(t, out.Projects, 1)
	assert.Equal(t, 1, out.Projects[0].HousesCompleted)
	assert.Equal(t, 1, out.Projects[0].TotalHouses)

	status, res = e.do(t, http.MethodGet, "/api/u/projects/"+project.ID, sTok, nil)
	require.Equal(t, http.StatusOK, status)
	detail := decode[struct {
		HousesCompleted int     `json:"housesCompleted"`
		Progress        float64 `json:"progress"`
	}](t, res.Data)
	assert.Equal(t, 1, detail.HousesCompleted)
	assert.Equal(t, 100.0, detail.Progress)

	// listing by assignee
	status, res = e.do(t, http.MethodGet, "/api/u/house-activities?mine=true", sTok, nil)
	require.Equal(t, http.StatusOK, status)
	mine := decode[[]houseActivityRow](t, res.Data)
	require.Len(t, mine, 1)
	assert.Equal(t, first, mine[0].ID)
}

func TestHouses_ListRejectsUnknownSort(t *testing.T) {
	e := newEnv(t)
	tok := testutil.AccessToken(t, testutil.CreateUser(t, e.db, constants.RoleSurveyor))

	status, _ := e.do(t, http.MethodGet, "/api/u/houses?sort_by=name&order=asc", tok, nil)
	assert.Equal(t, http.StatusOK, status)

	status, res := e.do(t, http.MethodGet, "/api/u/houses?sort_by=password", tok, nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, res.Message, "sort_by")
}

/* ======================= images ======================= */

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for x := 0; x < 64; x++ {
		img.Set(x, x%48, color.RGBA{R: 200, G: uint8(x), B: 40, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func uploadRequest(t *testing.T, path, token, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.WriteField("description", "north wall"))
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestImages_UploadListDelete(t *testing.T) {
	e := newEnv(t)
	testutil.CreateTemplates(t, e.db, 1)
	surveyor := testutil.CreateUser(t, e.db, constants.RoleSurveyor)
	other := testutil.CreateUser(t, e.db, constants.RoleSurveyor)
	reviewer := testutil.CreateUser(t, e.db, constants.RoleReviewer)
	sTok := testutil.AccessToken(t, surveyor)
	oTok := testutil.AccessToken(t, other)
	rTok := testutil.AccessToken(t, reviewer)

	status, res := e.do(t, http.MethodPost, "/api/a/houses", rTok, map[string]any{"name": "Lot 3"})
	require.Equal(t, http.StatusCreated, status, res.Message)
	houseID := decode[struct {
		House idOnly `json:"house"`
	}](t, res.Data).House.ID

	_, res = e.do(t, http.MethodGet, "/api/u/houses/"+houseID+"/activities", sTok, nil)
	haID := decode[[]houseActivityRow](t, res.Data)[0].ID

	// not assigned yet
	status, _ = e.send(t, uploadRequest(t, "/api/u/house-activities/"+haID+"/images", sTok, "wall.png", pngBytes(t)))
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = e.do(t, http.MethodPatch, "/api/u/house-activities/"+haID, sTok, map[string]any{"appUserId": surveyor.ID.String()})
	require.Equal(t, http.StatusOK, status)

	status, _ = e.send(t, uploadRequest(t, "/api/u/house-activities/"+haID+"/images", sTok, "notes.txt", []byte("hello")))
	assert.Equal(t, http.StatusBadRequest, status)

	status, res = e.send(t, uploadRequest(t, "/api/u/house-activities/"+haID+"/images", sTok, "wall.png", pngBytes(t)))
	require.Equal(t, http.StatusCreated, status, res.Message)
	img := decode[struct {
		ID          string `json:"id"`
		URL         string `json:"url"`
		ContentType string `json:"contentType"`
	}](t, res.Data)
	assert.Equal(t, "image/webp", img.ContentType)
	assert.Contains(t, img.URL, "http://test.local/uploads/house-activities/"+haID+"/")

	status, res = e.do(t, http.MethodGet, "/api/u/house-activities/"+haID+"/images", oTok, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]idOnly](t, res.Data), 1)

	status, _ = e.do(t, http.MethodDelete, "/api/u/images/"+img.ID, oTok, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = e.do(t, http.MethodDelete, "/api/u/images/"+img.ID, rTok, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = e.do(t, http.MethodDelete, "/api/u/images/"+img.ID, rTok, nil)
	assert.Equal(t, http.StatusNotFound, status)
}
