package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/courseverse/course-marketplace/internal/core/ports"
)

// CourseHandler handles course catalog requests. Mutating routes are
// admin-only; the read-only List is also mounted for users.
type CourseHandler struct {
	service ports.CourseService
}

func NewCourseHandler(service ports.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// Create handles POST /admin/courses.
//
// @Summary      Create a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      courseRequest  true  "Course details"
// @Success      201   {object}  courseMessageResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /admin/courses [post]
func (h *CourseHandler) Create(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.service.Create(c.Request().Context(), username, toCourseInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, courseMessageResponse{
		Message: "course created successfully",
		Course:  toCourseResponse(course),
	})
}

// List handles GET /admin/courses and GET /users/courses.
//
// @Summary      List all courses
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   courseResponse
// @Failure      401  {object}  errorResponse
// @Router       /users/courses [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCourseListResponse(courses))
}

// MyCourses handles GET /admin/mycourses — courses owned by the caller.
//
// @Summary      List own courses
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   courseResponse
// @Failure      401  {object}  errorResponse
// @Router       /admin/mycourses [get]
func (h *CourseHandler) MyCourses(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	courses, err := h.service.ListByOwner(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCourseListResponse(courses))
}

// Update handles PUT /admin/courses/:id.
//
// @Summary      Update a course
// @Tags         courses
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Course id"
// @Param        body  body      courseRequest  true  "Course details"
// @Success      200   {object}  courseMessageResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /admin/courses/{id} [put]
func (h *CourseHandler) Update(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req courseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course, err := h.service.Update(c.Request().Context(), username, c.Param("id"), toCourseInput(req))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, courseMessageResponse{
		Message: "course updated successfully",
		Course:  toCourseResponse(course),
	})
}

// Delete handles DELETE /admin/courses/:id.
//
// @Summary      Delete a course
// @Tags         courses
// @Produce      json
// @Security     BearerAuth
// @Param        id  path      string  true  "Course id"
// @Success      200  {object}  messageResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /admin/courses/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	if err := h.service.Delete(c.Request().Context(), username, c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "course deleted successfully"})
}
