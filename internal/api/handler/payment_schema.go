package handler

type createOrderRequest struct {
	// Amount is in the currency's smallest unit, as the gateway expects.
	Amount   int64  `json:"amount"   validate:"required,gt=0"`
	Currency string `json:"currency" validate:"required"`
	Receipt  string `json:"receipt"  validate:"required"`
}

type orderResponse struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type validatePurchaseRequest struct {
	OrderID   string `json:"orderId"   validate:"required"`
	PaymentID string `json:"paymentId" validate:"required"`
	Signature string `json:"signature" validate:"required"`
	CourseID  string `json:"courseId"  validate:"required"`
}

type validatePurchaseResponse struct {
	Message   string `json:"message"`
	OrderID   string `json:"orderId"`
	PaymentID string `json:"paymentId"`
}

type checkCourseRequest struct {
	CourseID string `json:"courseId" validate:"required"`
}

type checkCourseResponse struct {
	CourseExists bool `json:"courseExists"`
}
