package httpserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/souq/internal/models"
	"github.com/Skotchmaster/souq/internal/service"
	"github.com/Skotchmaster/souq/internal/transport"
	"github.com/Skotchmaster/souq/pkg/logging"
)

const (
	msgOrderNotFound  = "الطلب غير موجود"
	msgStatusRequired = "الحالة مطلوبة"
	msgStatusInvalid  = "حالة غير صالحة"
	msgOrderUpdate    = "خطأ في تحديث الطلب"
)

type OrderHTTP struct {
	Svc *service.OrderService
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	orders, err := h.Svc.ListOrders(ctx)
	if err != nil {
		l.Error("list_orders_error", "status", 500, "reason", "cannot read orders", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "خطأ في جلب الطلبات")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	id, err := parseID(c)
	if err != nil {
		l.Warn("get_order_error", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, msgOrderNotFound)
	}

	o, err := h.Svc.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_order_error", "status", 404, "reason", "order not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgOrderNotFound)
		}
		l.Error("get_order_error", "status", 500, "reason", "cannot read order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "خطأ في جلب الطلب")
	}
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.create_order")

	var req transport.CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgInvalidData)
	}

	o, err := h.Svc.CreateOrder(ctx, req)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_order_error", "status", 400, "reason", "validation failed", "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, msgInvalidData)
		}
		l.Error("create_order_error", "status", 500, "reason", "cannot store order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "خطأ في إنشاء الطلب")
	}

	l.Info("create_order_success", "order_id", o.ID)
	return c.JSON(http.StatusCreated, o)
}

func (h *OrderHTTP) UpdateStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_status")

	var req transport.UpdateStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgOrderUpdate)
	}
	if req.Status == nil || strings.TrimSpace(*req.Status) == "" {
		l.Warn("update_status_error", "status", 400, "reason", "status missing")
		return echo.NewHTTPError(http.StatusBadRequest, msgStatusRequired)
	}
	status, err := models.ParseOrderStatus(*req.Status)
	if err != nil {
		l.Warn("update_status_error", "status", 400, "reason", "unknown status", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgStatusInvalid)
	}

	id, err := parseID(c)
	if err != nil {
		l.Warn("update_status_error", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, msgOrderNotFound)
	}

	o, err := h.Svc.UpdateStatus(ctx, id, status)
	if err != nil {
		return statusError(l, "update_status_error", err)
	}

	l.Info("update_status_success", "order_id", o.ID, "order_status", o.Status.String())
	return c.JSON(http.StatusOK, o)
}

func (h *OrderHTTP) AdvanceStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.advance_status")

	id, err := parseID(c)
	if err != nil {
		l.Warn("advance_status_error", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, msgOrderNotFound)
	}

	o, err := h.Svc.AdvanceStatus(ctx, id)
	if err != nil {
		return statusError(l, "advance_status_error", err)
	}

	l.Info("advance_status_success", "order_id", o.ID, "order_status", o.Status.String())
	return c.JSON(http.StatusOK, o)
}

func statusError(l *slog.Logger, event string, err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		l.Warn(event, "status", 404, "reason", "order not found", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, msgOrderNotFound)
	case errors.Is(err, service.ErrValidation):
		l.Warn(event, "status", 400, "reason", "invalid status", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, msgStatusInvalid)
	case errors.Is(err, service.ErrConflict):
		l.Warn(event, "status", 409, "reason", "transition not allowed", "error", err)
		return echo.NewHTTPError(http.StatusConflict, "لا يمكن تغيير حالة الطلب")
	default:
		l.Error(event, "status", 500, "reason", "cannot update order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, msgOrderUpdate)
	}
}

func (h *OrderHTTP) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.delete_order")

	id, err := parseID(c)
	if err != nil {
		l.Warn("delete_order_error", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, msgOrderNotFound)
	}

	if err := h.Svc.DeleteOrder(ctx, id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("delete_order_error", "status", 404, "reason", "order not found", "error", err)
			return echo.NewHTTPError(http.StatusNotFound, msgOrderNotFound)
		}
		l.Error("delete_order_error", "status", 500, "reason", "cannot delete order", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "خطأ في حذف الطلب")
	}

	l.Info("delete_order_success", "order_id", id)
	return c.JSON(http.StatusOK, transport.SuccessResponse{Success: true})
}

func (h *OrderHTTP) CustomerOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.customer_orders")

	id, err := parseID(c)
	if err != nil {
		l.Warn("customer_orders_error", "status", 404, "reason", "id is not a uuid", "error", err)
		return echo.NewHTTPError(http.StatusNotFound, "العميل غير موجود")
	}

	orders, err := h.Svc.CustomerOrders(ctx, id, c.QueryParam("email"))
	if err != nil {
		l.Error("customer_orders_error", "status", 500, "reason", "cannot read orders", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "خطأ في جلب الطلبات")
	}
	return c.JSON(http.StatusOK, orders)
}

func (h *OrderHTTP) Stats(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "admin.stats")

	st, err := h.Svc.Stats(ctx)
	if err != nil {
		l.Error("stats_error", "status", 500, "reason", "cannot compute stats", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "خطأ في جلب الإحصائيات")
	}

	byStatus := make(map[string]int, len(st.ByStatus))
	for s, n := range st.ByStatus {
		byStatus[s.String()] = n
	}
	return c.JSON(http.StatusOK, transport.StatsResponse{
		Products: st.Products,
		Orders:   st.Orders,
		ByStatus: byStatus,
		Revenue:  st.Revenue,
	})
}
