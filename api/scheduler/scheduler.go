package scheduler

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/eris-ems/eris-api/config"
	"github.com/eris-ems/eris-api/databases"
	"github.com/eris-ems/eris-api/models"
	templates "github.com/eris-ems/eris-api/templates/html"
)

// Scheduler handles periodic background jobs for dispatch operations
type Scheduler struct {
	cron       *cron.Cron
	TDB        databases.TeamDatabase
	RDB        databases.ResponseDatabase
	LockDB     databases.SchedulerLockDatabase
	conf       *config.Config
	instanceID string
}

// NewScheduler creates a new scheduler instance
func NewScheduler(
	tDB databases.TeamDatabase,
	rDB databases.ResponseDatabase,
	lockDB databases.SchedulerLockDatabase,
	conf *config.Config,
) *Scheduler {
	// Generate a unique instance ID for this pod
	instanceID := os.Getenv("DYNO") // Heroku sets this to "web.1", "web.2", etc.
	if instanceID == "" {
		instanceID = fmt.Sprintf("instance-%d", time.Now().UnixNano())
	}

	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		TDB:        tDB,
		RDB:        rDB,
		LockDB:     lockDB,
		conf:       conf,
		instanceID: instanceID,
	}
}

// Start begins the scheduler with all registered jobs
func (s *Scheduler) Start() {
	// Reconcile team availability every 10 minutes. Teams can get stuck
	// on-call or on-scene when a response is deleted out from under them.
	_, err := s.cron.AddFunc("*/10 * * * *", s.reconcileTeamAvailability)
	if err != nil {
		zap.S().Errorw("failed to register availability reconciliation job", "error", err)
	}

	// Daily operations summary email at 6 AM UTC
	_, err = s.cron.AddFunc("0 6 * * *", s.sendOpsSummary)
	if err != nil {
		zap.S().Errorw("failed to register ops summary job", "error", err)
	}

	s.cron.Start()
	zap.S().Info("Dispatch scheduler started")
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("Dispatch scheduler stopped")
}

// reconcileTeamAvailability returns teams with no active response to
// the available pool
func (s *Scheduler) reconcileTeamAvailability() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	// Try to acquire distributed lock (10 minute TTL)
	acquired, err := s.LockDB.TryAcquireLock(ctx, "team_availability_job", s.instanceID, 10*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for availability job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Availability job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "team_availability_job", s.instanceID)

	zap.S().Infow("Running team availability reconciliation", "instance", s.instanceID)

	teams, err := s.TDB.Find(ctx, bson.M{"team.status": bson.M{"$in": []models.TeamStatus{
		models.TeamStatusOnCall,
		models.TeamStatusOnScene,
	}}})
	if err != nil {
		zap.S().Errorw("failed to find busy teams", "error", err)
		return
	}

	reconciled := 0
	for _, team := range teams {
		active, err := s.RDB.CountDocuments(ctx, bson.M{
			"response.teamId": team.ID,
			"response.status": bson.M{"$ne": models.ResponseStatusCompleted},
		})
		if err != nil {
			zap.S().Errorw("failed to count active responses", "teamId", team.ID, "error", err)
			continue
		}
		if active > 0 {
			continue
		}

		_, err = s.TDB.UpdateOne(ctx, bson.M{"_id": team.ID}, bson.M{"$set": bson.M{
			"team.status":    models.TeamStatusAvailable,
			"team.updatedAt": time.Now().UTC(),
		}})
		if err != nil {
			zap.S().Errorw("failed to reconcile team status", "teamId", team.ID, "error", err)
			continue
		}
		reconciled++
	}

	if reconciled > 0 {
		zap.S().Infow("Reconciled stuck teams back to available", "count", reconciled)
	}
}

// sendOpsSummary emails the daily operations summary
func (s *Scheduler) sendOpsSummary() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	acquired, err := s.LockDB.TryAcquireLock(ctx, "ops_summary_job", s.instanceID, 30*time.Minute)
	if err != nil {
		zap.S().Errorw("failed to acquire lock for ops summary job", "error", err)
		return
	}
	if !acquired {
		zap.S().Debug("Ops summary job already running on another instance, skipping")
		return
	}
	defer s.LockDB.ReleaseLock(ctx, "ops_summary_job", s.instanceID)

	if s.conf.OpsAlertEmail == "" {
		zap.S().Warn("OPS_ALERT_EMAIL not set, skipping ops summary")
		return
	}

	teams, err := s.TDB.Find(ctx, bson.M{})
	if err != nil {
		zap.S().Errorw("failed to find teams for ops summary", "error", err)
		return
	}
	available := 0
	for _, team := range teams {
		if team.Details.Status == models.TeamStatusAvailable {
			available++
		}
	}

	since := time.Now().Add(-24 * time.Hour)
	dispatched, err := s.RDB.CountDocuments(ctx, bson.M{"response.dispatchTime": bson.M{"$gte": since}})
	if err != nil {
		zap.S().Errorw("failed to count dispatched responses", "error", err)
		return
	}
	completed, err := s.RDB.CountDocuments(ctx, bson.M{
		"response.status":         models.ResponseStatusCompleted,
		"response.completionTime": bson.M{"$gte": since},
	})
	if err != nil {
		zap.S().Errorw("failed to count completed responses", "error", err)
		return
	}
	open, err := s.RDB.CountDocuments(ctx, bson.M{"response.status": bson.M{"$ne": models.ResponseStatusCompleted}})
	if err != nil {
		zap.S().Errorw("failed to count open responses", "error", err)
		return
	}

	subject := "Daily operations summary"
	body := fmt.Sprintf("Teams: %d total, %d available.\nLast 24h: %d dispatched, %d completed.\nCurrently open: %d responses.",
		len(teams), available, dispatched, completed, open)

	if err := s.sendEmail(s.conf.OpsAlertEmail, "Operations", subject, templates.RenderGenericEmail(subject, body), body); err != nil {
		zap.S().Errorw("failed to send ops summary email", "error", err)
		return
	}
	zap.S().Infow("Sent daily ops summary", "to", s.conf.OpsAlertEmail)
}

func (s *Scheduler) sendEmail(toEmail, toName, subject, htmlContent, plainText string) error {
	from := mail.NewEmail("ERIS Dispatch", "no-reply@eris-ems.org")
	to := mail.NewEmail(toName, toEmail)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	response, err := client.Send(message)
	if err != nil {
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body)
	}
	return nil
}
