package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/souq/internal/service"
	"github.com/Skotchmaster/souq/internal/transport"
	"github.com/Skotchmaster/souq/pkg/logging"
)

const msgBadCredentials = "البريد الإلكتروني أو كلمة المرور غير صحيحة"

type AccountHTTP struct {
	Svc *service.AccountService
}

func (h *AccountHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidData)
	}

	cust, err := h.Svc.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrConflict):
			l.Warn("register_error", "status", 400, "reason", "email already registered", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, "البريد الإلكتروني مسجل بالفعل")
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_error", "status", 400, "reason", "validation failed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidData)
		default:
			l.Error("register_error", "status", 500, "reason", "cannot store customer", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "خطأ في إنشاء الحساب")
		}
	}

	l.Info("register_success", "customer_id", cust.ID)
	return c.JSON(http.StatusCreated, transport.NewCustomerResponse(cust))
}

func (h *AccountHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidData)
	}

	cust, err := h.Svc.Login(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_error", "status", 401, "reason", "invalid credentials")
			return echo.NewHTTPError(http.StatusUnauthorized, msgBadCredentials)
		}
		l.Error("login_error", "status", 500, "reason", "cannot read customer", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "خطأ في تسجيل الدخول")
	}

	l.Info("login_success", "customer_id", cust.ID)
	return c.JSON(http.StatusOK, transport.NewCustomerResponse(cust))
}

func (h *AccountHTTP) AdminLogin(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.admin_login")

	var req transport.AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("admin_login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidData)
	}

	if err := h.Svc.AdminLogin(ctx, req); err != nil {
		l.Warn("admin_login_error", "status", 401, "reason", "invalid credentials")
		return echo.NewHTTPError(http.StatusUnauthorized, "اسم المستخدم أو كلمة المرور غير صحيحة")
	}

	l.Info("admin_login_success")
	return c.JSON(http.StatusOK, transport.AdminLoginResponse{Success: true, Role: "admin"})
}
