package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/courseverse/course-marketplace/internal/api/metrics"
	"github.com/courseverse/course-marketplace/internal/core/domain"
	"github.com/courseverse/course-marketplace/internal/core/ports"
)

// PaymentHandler handles order creation and purchase validation.
type PaymentHandler struct {
	service ports.PaymentService
}

func NewPaymentHandler(service ports.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// CreateOrder handles POST /users/order — registers a payment order with the
// gateway on the client's behalf. The client completes payment out of band.
//
// @Summary      Create a payment order
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order parameters"
// @Success      200   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      502   {object}  errorResponse
// @Router       /users/order [post]
func (h *PaymentHandler) CreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.service.CreateOrder(c.Request().Context(), ports.OrderInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
	})
	if err != nil {
		return err
	}

	metrics.OrdersCreatedTotal.WithLabelValues(order.Currency).Inc()

	return c.JSON(http.StatusOK, orderResponse{
		ID:       order.ID,
		Amount:   order.Amount,
		Currency: order.Currency,
		Receipt:  order.Receipt,
		Status:   order.Status,
	})
}

// ValidatePurchase handles POST /users/validate — verifies the processor's
// signature over the confirmation and grants the course at most once.
//
// @Summary      Validate a payment and grant the course
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      validatePurchaseRequest  true  "Payment confirmation"
// @Success      200   {object}  validatePurchaseResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/validate [post]
func (h *PaymentHandler) ValidatePurchase(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req validatePurchaseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.service.ValidatePurchase(c.Request().Context(), username, ports.PurchaseConfirmation{
		OrderID:   req.OrderID,
		PaymentID: req.PaymentID,
		Signature: req.Signature,
		CourseID:  req.CourseID,
	})
	if err != nil {
		metrics.PurchaseErrorsTotal.WithLabelValues(purchaseErrorReason(err)).Inc()
		return err
	}

	outcome := "granted"
	if result.AlreadyOwned {
		outcome = "already_owned"
	}
	metrics.PurchaseValidationsTotal.WithLabelValues(outcome).Inc()

	return c.JSON(http.StatusOK, validatePurchaseResponse{
		Message:   "transaction is legit",
		OrderID:   result.OrderID,
		PaymentID: result.PaymentID,
	})
}

// PurchasedCourses handles GET /users/purchased-courses.
//
// @Summary      List purchased courses
// @Tags         payments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   courseResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/purchased-courses [get]
func (h *PaymentHandler) PurchasedCourses(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	courses, err := h.service.PurchasedCourses(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCourseListResponse(courses))
}

// CheckCourse handles POST /users/check-course — membership test on the
// caller's purchased set.
//
// @Summary      Check course ownership
// @Tags         payments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      checkCourseRequest  true  "Course id"
// @Success      200   {object}  checkCourseResponse
// @Failure      404   {object}  errorResponse
// @Router       /users/check-course [post]
func (h *PaymentHandler) CheckCourse(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req checkCourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	owns, err := h.service.OwnsCourse(c.Request().Context(), username, req.CourseID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, checkCourseResponse{CourseExists: owns})
}

func purchaseErrorReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrForgedSignature):
		return "forged"
	case errors.Is(err, domain.ErrInvalidCourseID):
		return "invalid_course_id"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "account_not_found"
	case errors.Is(err, domain.ErrCourseNotFound):
		return "course_not_found"
	default:
		return "internal"
	}
}
