// Package service holds background work done outside the request path,
// currently the subscription notification mail pipeline.
package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/spf13/viper"
)

const TypeSubscriptionMail = "mail:subscription"

// SubscriptionMailPayload carries everything the worker needs to notify a
// meetup organizer about a new subscriber
type SubscriptionMailPayload struct {
	MeetupTitle     string `json:"meetup_title"`
	OrganizerName   string `json:"organizer_name"`
	OrganizerEmail  string `json:"organizer_email"`
	SubscriberName  string `json:"subscriber_name"`
	SubscriberEmail string `json:"subscriber_email"`
}

// MailEnqueuer hands notification tasks off to the queue. The HTTP
// response never waits on the actual delivery.
type MailEnqueuer interface {
	EnqueueSubscriptionMail(ctx context.Context, p *SubscriptionMailPayload) error
}

type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer() *AsynqEnqueuer {
	return &AsynqEnqueuer{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr: viper.GetString("redis.addr"),
		}),
	}
}

func (e *AsynqEnqueuer) EnqueueSubscriptionMail(ctx context.Context, p *SubscriptionMailPayload) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal mail payload, %w", err)
	}

	_, err = e.client.EnqueueContext(ctx,
		asynq.NewTask(TypeSubscriptionMail, payload),
		asynq.Queue("mail"),
		asynq.MaxRetry(3),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue mail task, %w", err)
	}

	return nil
}

func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}
