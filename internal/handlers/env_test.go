package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kamberss/camrent/internal/models"
	"github.com/kamberss/camrent/internal/mykafka"
)

var (
	testJWTSecret     = []byte("test-jwt-secret")
	testRefreshSecret = []byte("test-refresh-secret")
)

type testEnv struct {
	T  *testing.T
	E  *echo.Echo
	DB *gorm.DB

	Auth    *AuthHandler
	Product *ProductHandler
	Rental  *RentalHandler
	Payment *PaymentHandler
	User    *UserHandler
}

func initTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Product{},
		&models.User{},
		&models.RefreshToken{},
		&models.Rental{},
		&models.RentalItem{},
		&models.PaymentTransaction{},
	); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	return db
}

func newTestEnv(t *testing.T) *testEnv {
	db := initTestDB(t)
	prod := &mykafka.Producer{}

	return &testEnv{
		T:       t,
		E:       echo.New(),
		DB:      db,
		Auth:    &AuthHandler{DB: db, JWTSecret: testJWTSecret, RefreshSecret: testRefreshSecret, Producer: prod},
		Product: &ProductHandler{DB: db, Producer: prod},
		Rental:  &RentalHandler{DB: db, Producer: prod},
		Payment: &PaymentHandler{DB: db, Producer: prod, RedirectURL: "https://pay.test/session"},
		User:    &UserHandler{DB: db, Producer: prod},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}
