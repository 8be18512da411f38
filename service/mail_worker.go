package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// RunMailWorker consumes subscription mail tasks until the process exits.
// Retry policy is asynq's, capped per task at enqueue time.
func RunMailWorker() error {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: viper.GetString("redis.addr")},
		asynq.Config{
			Concurrency: viper.GetInt("mail.workers"),
			Queues:      map[string]int{"mail": 1},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeSubscriptionMail, HandleSubscriptionMail)

	zap.L().Info("Mail worker starting", zap.String("redis", viper.GetString("redis.addr")))

	return srv.Run(mux)
}

func HandleSubscriptionMail(_ context.Context, t *asynq.Task) error {
	var p SubscriptionMailPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal mail payload, %w", err)
	}

	if err := SendSubscriptionMail(&p); err != nil {
		zap.L().Error("Failed to send subscription mail",
			zap.String("meetup", p.MeetupTitle),
			zap.String("organizer", p.OrganizerEmail),
			zap.Error(err))
		return err
	}

	zap.L().Debug("Subscription mail sent",
		zap.String("meetup", p.MeetupTitle),
		zap.String("organizer", p.OrganizerEmail))

	return nil
}

// SendSubscriptionMail delivers the notification over SMTP
func SendSubscriptionMail(p *SubscriptionMailPayload) error {
	m := gomail.NewMessage()

	m.SetHeader("From", viper.GetString("mail.sender"))
	m.SetAddressHeader("To", p.OrganizerEmail, p.OrganizerName)
	m.SetHeader("Subject", SubscriptionMailSubject(p))
	m.SetBody("text/html", SubscriptionMailBody(p))

	d := gomail.NewDialer(
		viper.GetString("mail.host"),
		viper.GetInt("mail.port"),
		viper.GetString("mail.sender"),
		viper.GetString("mail.password"),
	)

	return d.DialAndSend(m)
}

func SubscriptionMailSubject(p *SubscriptionMailPayload) string {
	return fmt.Sprintf("[%s] New subscription", p.MeetupTitle)
}

func SubscriptionMailBody(p *SubscriptionMailPayload) string {
	return fmt.Sprintf(
		"Hi %s,<br><br>%s (%s) just subscribed to <strong>%s</strong>.",
		p.OrganizerName, p.SubscriberName, p.SubscriberEmail, p.MeetupTitle,
	)
}
