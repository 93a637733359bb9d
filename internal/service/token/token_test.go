package token

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kamberss/camrent/internal/models"
)

var (
	testJWTSecret     = []byte("test-jwt-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

func newService(t *testing.T) *TokenService {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.RefreshToken{}))

	return &TokenService{DB: db, JWTSecret: testJWTSecret, RefreshSecret: testRefreshSecret}
}

func newContext(cookies ...*http.Cookie) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec)
}

func TestCheckCookieValidAccess(t *testing.T) {
	svc := newService(t)

	access, err := SignAccessToken(1, "admin", testJWTSecret)
	require.NoError(t, err)

	c := newContext(&http.Cookie{Name: "accessToken", Value: access})
	gotAccess, gotRefresh, role, err := svc.CheckCookie(c)
	require.NoError(t, err)
	require.Equal(t, access, gotAccess)
	require.Empty(t, gotRefresh)
	require.Equal(t, "admin", role)
	require.Equal(t, uint(1), c.Get("userID"))
}

func TestCheckCookieRotation(t *testing.T) {
	svc := newService(t)

	refresh, err := SignRefreshToken(7, "customer", testRefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 7, "customer"))

	c := newContext(&http.Cookie{Name: "refreshToken", Value: refresh})
	newAccess, newRefresh, role, err := svc.CheckCookie(c)
	require.NoError(t, err)
	require.NotEmpty(t, newAccess)
	require.NotEmpty(t, newRefresh)
	require.Equal(t, "customer", role)

	var stored models.RefreshToken
	require.NoError(t, svc.DB.Where("token = ?", newRefresh).First(&stored).Error)
	require.Equal(t, uint(7), stored.UserID)
}

func TestCheckCookieMissing(t *testing.T) {
	svc := newService(t)

	_, _, _, err := svc.CheckCookie(newContext())
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, he.Code)
}

func TestValidateRefreshRejectsRevoked(t *testing.T) {
	svc := newService(t)

	refresh, err := SignRefreshToken(3, "customer", testRefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 3, "customer"))
	svc.DB.Model(&models.RefreshToken{}).Where("token = ?", refresh).Update("revoked", true)

	_, err = ValidateRefresh(refresh, testRefreshSecret, svc.DB)
	require.Error(t, err)
}

func TestValidateRefreshRejectsAccessToken(t *testing.T) {
	svc := newService(t)

	// an access token is missing the refresh type claim
	access, err := SignAccessToken(3, "customer", testRefreshSecret)
	require.NoError(t, err)

	_, err = ValidateRefresh(access, testRefreshSecret, svc.DB)
	require.Error(t, err)
}

func TestAdminMiddlewareRejectsCustomer(t *testing.T) {
	svc := newService(t)

	access, err := SignAccessToken(2, "customer", testJWTSecret)
	require.NoError(t, err)

	c := newContext(&http.Cookie{Name: "accessToken", Value: access})
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	err = svc.AutoRefreshMiddlewareAdmin(next)(c)
	require.Error(t, err)
	he, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	require.Equal(t, http.StatusForbidden, he.Code)
}

func TestAdminMiddlewareAllowsAdmin(t *testing.T) {
	svc := newService(t)

	access, err := SignAccessToken(1, "admin", testJWTSecret)
	require.NoError(t, err)

	called := false
	c := newContext(&http.Cookie{Name: "accessToken", Value: access})
	next := func(c echo.Context) error { called = true; return c.NoContent(http.StatusOK) }
	require.NoError(t, svc.AutoRefreshMiddlewareAdmin(next)(c))
	require.True(t, called)
}

func TestAutoRefreshMiddlewareRotatesCookies(t *testing.T) {
	svc := newService(t)

	refresh, err := SignRefreshToken(4, "customer", testRefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 4, "customer"))

	c := newContext(&http.Cookie{Name: "refreshToken", Value: refresh})
	next := func(c echo.Context) error { return c.NoContent(http.StatusOK) }
	require.NoError(t, svc.AutoRefreshMiddleware(next)(c))

	cookies := c.Response().Header().Values("Set-Cookie")
	require.NotEmpty(t, cookies)
	require.Equal(t, uint(4), c.Get("userID"))
}

func TestRotationMintsDistinctTokens(t *testing.T) {
	svc := newService(t)

	refresh, err := SignRefreshToken(6, "customer", testRefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 6, "customer"))

	// back-to-back rotations land within the same second; every minted
	// token must still be unique
	_, second, _, err := svc.RotateToken(refresh)
	require.NoError(t, err)
	require.NotEqual(t, refresh, second)

	_, third, _, err := svc.RotateToken(second)
	require.NoError(t, err)
	require.NotEqual(t, second, third)
}

func TestRotationRevokesSpentToken(t *testing.T) {
	svc := newService(t)

	refresh, err := SignRefreshToken(8, "customer", testRefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 8, "customer"))

	_, _, _, err = svc.RotateToken(refresh)
	require.NoError(t, err)

	var stored models.RefreshToken
	require.NoError(t, svc.DB.Where("token = ?", refresh).First(&stored).Error)
	require.True(t, stored.Revoked)

	_, _, _, err = svc.RotateToken(refresh)
	require.Error(t, err)
}

func TestExpiredAccessFallsBackToRefresh(t *testing.T) {
	svc := newService(t)

	expClaims := jwt.MapClaims{
		"sub":  float64(5),
		"role": "customer",
		"exp":  time.Now().Add(-time.Minute).Unix(),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, expClaims).SignedString(testJWTSecret)
	require.NoError(t, err)

	refresh, err := SignRefreshToken(5, "customer", testRefreshSecret)
	require.NoError(t, err)
	require.NoError(t, SaveRefreshToken(svc.DB, refresh, 5, "customer"))

	c := newContext(
		&http.Cookie{Name: "accessToken", Value: expired},
		&http.Cookie{Name: "refreshToken", Value: refresh},
	)
	newAccess, newRefresh, role, err := svc.CheckCookie(c)
	require.NoError(t, err)
	require.NotEmpty(t, newAccess)
	require.NotEmpty(t, newRefresh)
	require.Equal(t, "customer", role)
}
