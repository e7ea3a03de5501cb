package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/eris-ems/eris-api/api"
	"github.com/eris-ems/eris-api/api/scheduler"
	"github.com/eris-ems/eris-api/config"
	"github.com/eris-ems/eris-api/databases"
	"github.com/eris-ems/eris-api/models"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	DB        databases.CollectionHelper
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	// setup go-guardian for middleware
	m := api.MiddlewareDB{DB: databases.NewUserDatabase(a.dbHelper)}
	m.SetupGoGuardian()

	r := mux.NewRouter()
	r.Use(api.MetricsMiddleware)

	hub := NewHub()

	u := User{DB: databases.NewUserDatabase(a.dbHelper)}
	team := Team{DB: databases.NewTeamDatabase(a.dbHelper), RDB: databases.NewResponseDatabase(a.dbHelper)}
	d := Dispatch{
		TDB:  databases.NewTeamDatabase(a.dbHelper),
		RDB:  databases.NewResponseDatabase(a.dbHelper),
		Hub:  hub,
		Conf: a.Config,
	}
	resp := Response{
		DB:  databases.NewResponseDatabase(a.dbHelper),
		TDB: databases.NewTeamDatabase(a.dbHelper),
		Hub: hub,
	}
	report := Report{DB: databases.NewReportDatabase(a.dbHelper), RDB: databases.NewResponseDatabase(a.dbHelper)}
	shift := Shift{DB: databases.NewShiftDatabase(a.dbHelper)}
	admin := Admin{ADB: databases.NewAdminDatabase(a.dbHelper), TDB: databases.NewTeamDatabase(a.dbHelper), RDB: databases.NewResponseDatabase(a.dbHelper)}
	cloudinaryHandler := CloudinaryHandler{}

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)
	r.Handle("/metrics", api.MetricsHandler()).Methods("GET")
	r.HandleFunc("/ws", hub.ServeWS)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/token", api.Middleware(http.HandlerFunc(m.CreateToken))).Methods("POST")
	apiCreate.Handle("/auth/logout", api.Middleware(http.HandlerFunc(api.RevokeToken))).Methods("DELETE")

	apiCreate.Handle("/team", api.Middleware(http.HandlerFunc(team.CreateTeamHandler))).Methods("POST")
	apiCreate.Handle("/team/{team_id}", api.Middleware(http.HandlerFunc(team.TeamByIDHandler))).Methods("GET")
	apiCreate.Handle("/team/{team_id}", api.Middleware(http.HandlerFunc(team.UpdateTeamByIDHandler))).Methods("PUT")
	apiCreate.Handle("/team/{team_id}", api.Middleware(http.HandlerFunc(team.DeleteTeamByIDHandler))).Methods("DELETE")
	apiCreate.Handle("/teams", api.Middleware(http.HandlerFunc(team.TeamHandler))).Methods("GET")
	apiCreate.Handle("/teams/availability", api.Middleware(http.HandlerFunc(team.TeamAvailabilityHandler))).Methods("GET")

	apiCreate.Handle("/dispatch/recommendations", api.Middleware(http.HandlerFunc(d.RecommendTeamsHandler))).Methods("GET")
	apiCreate.Handle("/dispatch", api.Middleware(http.HandlerFunc(d.CreateDispatchHandler))).Methods("POST")

	apiCreate.Handle("/response/{response_id}", api.Middleware(http.HandlerFunc(resp.ResponseByIDHandler))).Methods("GET")
	apiCreate.Handle("/response/{response_id}", api.Middleware(http.HandlerFunc(resp.UpdateResponseByIDHandler))).Methods("PUT")
	apiCreate.Handle("/response/{response_id}", api.Middleware(http.HandlerFunc(resp.DeleteResponseByIDHandler))).Methods("DELETE")
	apiCreate.Handle("/response/{response_id}/status", api.Middleware(http.HandlerFunc(resp.TransitionResponseHandler))).Methods("PUT")
	apiCreate.Handle("/response/{response_id}/team", api.Middleware(http.HandlerFunc(resp.ReassignTeamHandler))).Methods("PUT")
	apiCreate.Handle("/responses", api.Middleware(http.HandlerFunc(resp.ResponseHandler))).Methods("GET")

	apiCreate.Handle("/report", api.Middleware(http.HandlerFunc(report.CreateReportHandler))).Methods("POST")
	apiCreate.Handle("/report/{report_id}", api.Middleware(http.HandlerFunc(report.ReportByIDHandler))).Methods("GET")
	apiCreate.Handle("/report/{report_id}", api.Middleware(http.HandlerFunc(report.UpdateReportByIDHandler))).Methods("PUT")
	apiCreate.Handle("/reports", api.Middleware(http.HandlerFunc(report.ReportHandler))).Methods("GET")
	apiCreate.Handle("/reports/response/{response_id}", api.Middleware(http.HandlerFunc(report.ReportsByResponseIDHandler))).Methods("GET")

	apiCreate.Handle("/shift/clock-in", api.Middleware(http.HandlerFunc(shift.ClockInHandler))).Methods("POST")
	apiCreate.Handle("/shift/{shift_id}/clock-out", api.Middleware(http.HandlerFunc(shift.ClockOutHandler))).Methods("PUT")
	apiCreate.Handle("/shifts", api.Middleware(http.HandlerFunc(shift.ShiftHandler))).Methods("GET")
	apiCreate.Handle("/shifts/member/{member_id}", api.Middleware(http.HandlerFunc(shift.ShiftsByMemberIDHandler))).Methods("GET")

	apiCreate.Handle("/user/create-user", http.HandlerFunc(u.UserCreateHandler)).Methods("POST")
	apiCreate.Handle("/user/check-user", http.HandlerFunc(u.UserCheckEmailHandler)).Methods("POST")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UserHandler))).Methods("GET")
	apiCreate.Handle("/user/{user_id}", api.Middleware(http.HandlerFunc(u.UpdateUserByIDHandler))).Methods("PUT")

	apiCreate.Handle("/admin/login", http.HandlerFunc(admin.AdminLoginHandler)).Methods("POST")
	apiCreate.Handle("/admin/overview", admin.JWTMiddleware(http.HandlerFunc(admin.AdminOverviewHandler))).Methods("GET")

	apiCreate.Handle("/generate-signature", api.Middleware(http.HandlerFunc(cloudinaryHandler.GenerateSignature))).Methods("POST")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("eris-api has connected to the database")

	// initialize background jobs
	a.Scheduler = scheduler.NewScheduler(
		databases.NewTeamDatabase(a.dbHelper),
		databases.NewResponseDatabase(a.dbHelper),
		databases.NewSchedulerLockDatabase(a.dbHelper),
		&a.Config,
	)
	a.Scheduler.Start()

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}
