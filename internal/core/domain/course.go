package domain

// Course is a marketplace listing. The id is immutable once created and the
// owner is the username of the admin who published it.
type Course struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Rating     float64 `json:"rating"`
	Price      float64 `json:"price"`
	ImageLink  string  `json:"imageLink"`
	Published  bool    `json:"published"`
	CourseLink string  `json:"courseLink"`
	Owner      string  `json:"owner"`
}
