package router

import (
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"intelliface/backend/foundation/web"
	engine "intelliface/backend/internal/attendance"
	"intelliface/backend/internal/auth"
	"intelliface/backend/internal/face"
	"intelliface/backend/internal/middleware"
	"intelliface/backend/internal/pkg/config"
	"intelliface/backend/internal/pkg/repository/postgresql"

	"intelliface/backend/internal/repository/postgres/attendance"
	"intelliface/backend/internal/repository/postgres/department"
	"intelliface/backend/internal/repository/postgres/location"
	"intelliface/backend/internal/repository/postgres/user"

	attendance_controller "intelliface/backend/internal/controller/http/v1/attendance"
	auth_controller "intelliface/backend/internal/controller/http/v1/auth"
	dashboard_controller "intelliface/backend/internal/controller/http/v1/dashboard"
	department_controller "intelliface/backend/internal/controller/http/v1/department"
	file_controller "intelliface/backend/internal/controller/http/v1/file"
	location_controller "intelliface/backend/internal/controller/http/v1/location"
	user_controller "intelliface/backend/internal/controller/http/v1/user"
)

type Router struct {
	*web.App
	postgresDB *postgresql.Database
	redisDB    *redis.Client
	cfg        *config.Config
	auth       *auth.Auth
}

func NewRouter(
	app *web.App,
	postgresDB *postgresql.Database,
	redisDB *redis.Client,
	cfg *config.Config,
	auth *auth.Auth,
) *Router {
	return &Router{
		app,
		postgresDB,
		redisDB,
		cfg,
		auth,
	}
}

func (r Router) Init() error {
	r.HandleMethodNotAllowed = true
	r.Use(middleware.CORSMiddleware())

	// Every "today" in the system is bounded in this one timezone.
	loc, err := time.LoadLocation(r.cfg.Timezone)
	if err != nil {
		return errors.Wrapf(err, "loading timezone %q", r.cfg.Timezone)
	}

	// - postgresql
	userPostgres := user.NewRepository(r.postgresDB)
	departmentPostgres := department.NewRepository(r.postgresDB)
	locationPostgres := location.NewRepository(r.postgresDB)
	attendancePostgres := attendance.NewRepository(r.postgresDB, loc)

	// - verification engine
	faceClient := face.NewClient(r.cfg.FaceServiceURL, r.cfg.FaceTimeout())
	faceGateway := face.NewGateway(userPostgres, faceClient)

	attendanceEngine, err := engine.NewEngine(
		attendancePostgres,
		faceGateway,
		locationPostgres,
		engine.SystemClock{},
		loc,
		r.cfg.OnTimeDeadline,
	)
	if err != nil {
		return errors.Wrap(err, "building attendance engine")
	}

	// controller
	authController := auth_controller.NewController(userPostgres, r.cfg.JWTKeyPath)
	userController := user_controller.NewController(userPostgres, faceClient)
	departmentController := department_controller.NewController(departmentPostgres)
	locationController := location_controller.NewController(locationPostgres)
	attendanceController := attendance_controller.NewController(attendanceEngine, attendancePostgres)
	dashboardController := dashboard_controller.NewController(attendancePostgres, r.redisDB, loc)
	fileController := file_controller.NewController("./statics")

	// #auth
	r.Post("/api/v1/sign-in", authController.SignIn)
	r.Post("/api/v1/refresh-token", authController.RefreshToken)

	// #attendance
	r.Post("/api/v1/attendance/check-in", attendanceController.CheckIn, middleware.Authenticate(r.auth))
	r.Patch("/api/v1/attendance/check-out", attendanceController.CheckOut, middleware.Authenticate(r.auth))
	r.Get("/api/v1/attendance/today", attendanceController.GetToday, middleware.Authenticate(r.auth))
	r.Get("/api/v1/attendance/list", attendanceController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/attendance/export", attendanceController.ExportExcel, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/attendance/report", attendanceController.ExportReport, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/attendance/:id", attendanceController.GetById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/attendance/:id", attendanceController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #user
	r.Get("/api/v1/user/list", userController.GetList, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/user/:id", userController.GetDetailById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/user/:id/badge", userController.GetBadge, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/user/create", userController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/user/:id/enroll-face", userController.EnrollFace, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/user/:id", userController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/user/:id", userController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #department
	r.Get("/api/v1/department/list", departmentController.GetList, middleware.Authenticate(r.auth))
	r.Get("/api/v1/department/:id", departmentController.GetById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/department/create", departmentController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/department/:id", departmentController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/department/:id", departmentController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #location
	r.Get("/api/v1/location/list", locationController.GetList, middleware.Authenticate(r.auth))
	r.Get("/api/v1/location/:id", locationController.GetById, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Post("/api/v1/location/create", locationController.Create, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Patch("/api/v1/location/:id", locationController.UpdateColumns, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Delete("/api/v1/location/:id", locationController.Delete, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #dashboard
	r.Get("/api/v1/dashboard/statistics", dashboardController.GetStatistics, middleware.Authenticate(r.auth, auth.RoleAdmin))
	r.Get("/api/v1/dashboard/trend", dashboardController.GetTrend, middleware.Authenticate(r.auth, auth.RoleAdmin))

	// #files
	r.GET("/statics/*filepath", fileController.File)
	r.HEAD("/statics/*filepath", fileController.File)

	return r.Run(r.cfg.ServerPort)
}
