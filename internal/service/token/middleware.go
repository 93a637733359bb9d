package token

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kamberss/camrent/internal/handlers"
)

func (t *TokenService) AutoRefreshMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, _, err := t.CheckCookie(c)
		if err != nil {
			return err
		}

		if newRefresh == "" {
			return next(c)
		}

		c.SetCookie(handlers.CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTTL)))
		c.SetCookie(handlers.CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTTL)))

		t.setContextFromAccess(c, newAccess)
		return next(c)
	}
}

func (t *TokenService) AutoRefreshMiddlewareAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		newAccess, newRefresh, role, err := t.CheckCookie(c)
		if err != nil {
			return err
		}

		if role != "admin" {
			return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
		}

		if newRefresh != "" {
			c.SetCookie(handlers.CreateCookie("accessToken", newAccess, "/", time.Now().Add(AccessTTL)))
			c.SetCookie(handlers.CreateCookie("refreshToken", newRefresh, "/", time.Now().Add(RefreshTTL)))
		}

		t.setContextFromAccess(c, newAccess)
		return next(c)
	}
}
