package email

import (
	"context"
	"encoding/json"
	"fmt"
	"net/smtp"
	"time"

	"github.com/redis/go-redis/v9"

	"gymdesk/internal/logger"
	"gymdesk/internal/metrics"
)

const (
	queueKey       = "gymdesk:emails"
	failedQueueKey = "gymdesk:emails:failed"
	maxTries       = 3
)

type EmailJob struct {
	To      string    `json:"to"`
	Name    string    `json:"name"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	Tries   int       `json:"tries"`
	Created time.Time `json:"created"`
}

type Service struct {
	redis    *redis.Client
	from     string
	fromName string
	smtpHost string
	smtpPort string
	smtpUser string
	smtpPass string
}

func New(fromEmail, fromName, smtpHost, smtpPort, smtpUser, smtpPass, redisAddr string) *Service {
	return &Service{
		redis: redis.NewClient(&redis.Options{
			Addr: redisAddr,
		}),
		from:     fromEmail,
		fromName: fromName,
		smtpHost: smtpHost,
		smtpPort: smtpPort,
		smtpUser: smtpUser,
		smtpPass: smtpPass,
	}
}

func (s *Service) Send(ctx context.Context, to, name, subject, body string) error {
	job := EmailJob{
		To:      to,
		Name:    name,
		Subject: subject,
		Body:    body,
		Tries:   0,
		Created: time.Now(),
	}

	data, err := json.Marshal(job)
	if err != nil {
		logger.Errorf("Failed to marshal email job: %v", err)
		return err
	}

	if err := s.redis.LPush(ctx, queueKey, data).Err(); err != nil {
		logger.Errorf("Failed to queue email to %s: %v", to, err)
		return err
	}

	logger.Infof("Email queued: %s to %s", subject, to)
	return nil
}

func (s *Service) Start(ctx context.Context) {
	logger.Info("Email service started")

	for {
		select {
		case <-ctx.Done():
			logger.Info("Email service stopped")
			return
		default:
			s.processNext(ctx)
		}
	}
}

func (s *Service) processNext(ctx context.Context) {
	result, err := s.redis.BRPop(ctx, 2*time.Second, queueKey).Result()
	if err != nil {
		return
	}
	metrics.EmailQueueLength.Set(float64(s.QueueLength(ctx)))

	var job EmailJob
	if err := json.Unmarshal([]byte(result[1]), &job); err != nil {
		logger.Errorf("Bad email data: %v", err)
		return
	}

	job.Tries++
	logger.Infof("Sending email to %s (attempt %d)", job.To, job.Tries)
	if err := s.sendNow(job); err != nil {
		logger.Errorf("Failed to send email to %s: %v", job.To, err)

		if job.Tries < maxTries {
			time.Sleep(5 * time.Second)
			data, _ := json.Marshal(job)
			s.redis.LPush(context.Background(), queueKey, data)
			logger.Infof("Retrying email to %s (attempt %d)", job.To, job.Tries+1)
		} else {
			logger.Errorf("Email to %s failed after %d attempts", job.To, maxTries)
			s.saveFailed(job, err)
		}
		return
	}

	logger.Infof("Email sent successfully to %s", job.To)
}

func (s *Service) sendNow(job EmailJob) error {
	message := fmt.Sprintf("From: %s <%s>\r\n", s.fromName, s.from)
	message += fmt.Sprintf("To: %s\r\n", job.To)
	message += fmt.Sprintf("Subject: %s\r\n", job.Subject)
	message += "\r\n" + job.Body

	var auth smtp.Auth
	if s.smtpUser != "" && s.smtpPass != "" {
		auth = smtp.PlainAuth("", s.smtpUser, s.smtpPass, s.smtpHost)
	}

	addr := s.smtpHost + ":" + s.smtpPort
	return smtp.SendMail(addr, auth, s.from, []string{job.To}, []byte(message))
}

func (s *Service) saveFailed(job EmailJob, err error) {
	failed := map[string]interface{}{
		"job":   job,
		"error": err.Error(),
		"time":  time.Now(),
	}
	data, _ := json.Marshal(failed)
	s.redis.LPush(context.Background(), failedQueueKey, data)
	logger.Errorf("Email moved to failed queue: %s", job.To)
}

func (s *Service) QueueLength(ctx context.Context) int64 {
	length, _ := s.redis.LLen(ctx, queueKey).Result()
	return length
}

func (s *Service) Close() error {
	return s.redis.Close()
}

func (s *Service) SendTransactionReceived(ctx context.Context, email, name, planName string, amountCents int64) error {
	subject := "Payment Received - Awaiting Approval"
	body := fmt.Sprintf(`Hi %s,

We received your payment request for the %s plan ($%.2f).

An administrator will review it shortly. You will get another email once
your membership is activated.

- GymDesk Team`, name, planName, float64(amountCents)/100)

	return s.Send(ctx, email, name, subject, body)
}

func (s *Service) SendSubscriptionActivated(ctx context.Context, email, name, planName string, endDate time.Time) error {
	subject := "Membership Activated - " + planName
	body := fmt.Sprintf(`Hi %s,

Your %s membership is now active!

Valid until: %s

See you at the gym!

- GymDesk Team`, name, planName, endDate.Format("Jan 2, 2006"))

	return s.Send(ctx, email, name, subject, body)
}

func (s *Service) SendTransactionRejected(ctx context.Context, email, name, planName string) error {
	subject := "Payment Rejected - " + planName
	body := fmt.Sprintf(`Hi %s,

Unfortunately your payment for the %s plan could not be approved.
Please contact the front desk for details.

- GymDesk Team`, name, planName)

	return s.Send(ctx, email, name, subject, body)
}

func (s *Service) SendBookingConfirmation(ctx context.Context, email, name, className, instructor, schedule string) error {
	subject := "Class Booked - " + className
	body := fmt.Sprintf(`Hi %s,

Your spot is reserved!

Class: %s
Instructor: %s
Schedule: %s

See you there!

- GymDesk Team`, name, className, instructor, schedule)

	return s.Send(ctx, email, name, subject, body)
}

func (s *Service) SendBookingCancellation(ctx context.Context, email, name, className string) error {
	subject := "Booking Cancelled - " + className
	body := fmt.Sprintf(`Hi %s,

Your booking for %s has been cancelled.

- GymDesk Team`, name, className)

	return s.Send(ctx, email, name, subject, body)
}
