package handler

type courseRequest struct {
	Title      string  `json:"title"      validate:"required"`
	Rating     float64 `json:"rating"`
	Price      float64 `json:"price"      validate:"gte=0"`
	ImageLink  string  `json:"imageLink"  validate:"required"`
	Published  bool    `json:"published"`
	CourseLink string  `json:"courseLink" validate:"required"`
}

type courseResponse struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Rating     float64 `json:"rating"`
	Price      float64 `json:"price"`
	ImageLink  string  `json:"imageLink"`
	Published  bool    `json:"published"`
	CourseLink string  `json:"courseLink"`
	Owner      string  `json:"owner"`
}

type courseMessageResponse struct {
	Message string         `json:"message"`
	Course  courseResponse `json:"course"`
}
