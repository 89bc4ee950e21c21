// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"academy/internal/delivery/http/middleware"
	"academy/internal/delivery/http/router/handler"
	"academy/internal/domain/entity"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	AuthHandler       *handler.AuthHandler
	ApprovalHandler   *handler.ApprovalHandler
	RosterHandler     *handler.RosterHandler
	GroupHandler      *handler.GroupHandler
	GradeHandler      *handler.GradeHandler
	AttendanceHandler *handler.AttendanceHandler
	PaymentHandler    *handler.PaymentHandler
	DashboardHandler  *handler.DashboardHandler
	AuthMiddleware    *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	params RouterParams
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{params: params}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	p := r.params

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Auth routes
	authGroup := e.Group("/auth")
	{
		authGroup.POST("/register", p.AuthHandler.Register)
		authGroup.POST("/login", p.AuthHandler.Login)
		authGroup.POST("/logout", p.AuthHandler.Logout, p.AuthMiddleware.Authenticate)
		authGroup.GET("/session", p.AuthHandler.Session)
	}

	// Routes shared by every signed-in role
	meGroup := e.Group("/me")
	meGroup.Use(p.AuthMiddleware.Authenticate)
	{
		meGroup.GET("/profile", p.RosterHandler.GetMyProfile)
		meGroup.PUT("/profile", p.RosterHandler.UpdateMyProfile)
		meGroup.POST("/devices", p.RosterHandler.RegisterDevice)
	}

	// Owner-only administration
	adminGroup := e.Group("/admin")
	adminGroup.Use(p.AuthMiddleware.Authenticate)
	adminGroup.Use(p.AuthMiddleware.RequireRole(entity.RoleOwner))
	{
		adminGroup.GET("/dashboard", p.DashboardHandler.Owner)

		adminGroup.GET("/requests", p.ApprovalHandler.ListRequests)
		adminGroup.POST("/requests/:id", p.ApprovalHandler.Decide)

		adminGroup.GET("/profiles", p.RosterHandler.ListProfiles)
		adminGroup.GET("/profiles/:id", p.RosterHandler.GetProfile)
		adminGroup.PUT("/profiles/:id", p.RosterHandler.UpdateProfile)
		adminGroup.DELETE("/profiles/:id", p.RosterHandler.DeactivateProfile)

		adminGroup.POST("/subjects", p.GroupHandler.CreateSubject)
		adminGroup.GET("/subjects", p.GroupHandler.ListSubjects)
		adminGroup.DELETE("/subjects/:id", p.GroupHandler.DeleteSubject)

		adminGroup.POST("/groups", p.GroupHandler.CreateGroup)
		adminGroup.GET("/groups", p.GroupHandler.ListGroups)
		adminGroup.GET("/groups/:id", p.GroupHandler.GetGroup)
		adminGroup.PUT("/groups/:id", p.GroupHandler.UpdateGroup)
		adminGroup.DELETE("/groups/:id", p.GroupHandler.DeleteGroup)
		adminGroup.GET("/groups/:id/students", p.GroupHandler.ListGroupStudents)
		adminGroup.POST("/groups/:id/students/:studentID", p.GroupHandler.Enroll)
		adminGroup.DELETE("/groups/:id/students/:studentID", p.GroupHandler.Unenroll)

		adminGroup.POST("/payments", p.PaymentHandler.Charge)
		adminGroup.GET("/payments", p.PaymentHandler.ListPayments)
		adminGroup.POST("/payments/:id/paid", p.PaymentHandler.MarkPaid)
	}

	// Teacher workspace
	teacherGroup := e.Group("/teacher")
	teacherGroup.Use(p.AuthMiddleware.Authenticate)
	teacherGroup.Use(p.AuthMiddleware.RequireRole(entity.RoleTeacher, entity.RoleOwner))
	{
		teacherGroup.GET("/dashboard", p.DashboardHandler.Teacher)
		teacherGroup.GET("/groups", p.GroupHandler.ListMyGroups)
		teacherGroup.GET("/groups/:id/students", p.GroupHandler.ListGroupStudents)
		teacherGroup.GET("/groups/:id/grades", p.GradeHandler.ListGroupGrades)
		teacherGroup.GET("/groups/:id/attendance", p.AttendanceHandler.ListGroupAttendance)
		teacherGroup.POST("/grades", p.GradeHandler.RecordGrade)
		teacherGroup.POST("/attendance", p.AttendanceHandler.Mark)
	}

	// Student workspace
	studentGroup := e.Group("/student")
	studentGroup.Use(p.AuthMiddleware.Authenticate)
	studentGroup.Use(p.AuthMiddleware.RequireRole(entity.RoleStudent))
	{
		studentGroup.GET("/dashboard", p.DashboardHandler.Student)
		studentGroup.GET("/groups", p.GroupHandler.ListMyEnrolledGroups)
		studentGroup.GET("/grades", p.GradeHandler.ListMyGrades)
		studentGroup.GET("/attendance", p.AttendanceHandler.ListMyAttendance)
		studentGroup.GET("/payments", p.PaymentHandler.ListMyPayments)
	}

	// Parent workspace
	parentGroup := e.Group("/parent")
	parentGroup.Use(p.AuthMiddleware.Authenticate)
	parentGroup.Use(p.AuthMiddleware.RequireRole(entity.RoleParent))
	{
		parentGroup.GET("/dashboard", p.DashboardHandler.Parent)
		parentGroup.GET("/children", p.RosterHandler.ListChildren)
		parentGroup.POST("/children", p.RosterHandler.LinkGuardian)
		parentGroup.GET("/children/:studentID/grades", p.GradeHandler.ListChildGrades)
		parentGroup.GET("/children/:studentID/attendance", p.AttendanceHandler.ListChildAttendance)
		parentGroup.GET("/children/:studentID/payments", p.PaymentHandler.ListChildPayments)
	}
}
