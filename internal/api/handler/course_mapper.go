package handler

import (
	"github.com/courseverse/course-marketplace/internal/core/domain"
	"github.com/courseverse/course-marketplace/internal/core/ports"
)

func toCourseInput(req courseRequest) ports.CourseInput {
	return ports.CourseInput{
		Title:      req.Title,
		Rating:     req.Rating,
		Price:      req.Price,
		ImageLink:  req.ImageLink,
		Published:  req.Published,
		CourseLink: req.CourseLink,
	}
}

func toCourseResponse(c *domain.Course) courseResponse {
	return courseResponse{
		ID:         c.ID,
		Title:      c.Title,
		Rating:     c.Rating,
		Price:      c.Price,
		ImageLink:  c.ImageLink,
		Published:  c.Published,
		CourseLink: c.CourseLink,
		Owner:      c.Owner,
	}
}

func toCourseListResponse(courses []*domain.Course) []courseResponse {
	out := make([]courseResponse, len(courses))
	for i, c := range courses {
		out[i] = toCourseResponse(c)
	}
	return out
}
