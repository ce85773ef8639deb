package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/asynkron/protoactor-go/actor"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// RetryPolicy bounds how hard the notification actor tries one message.
type RetryPolicy struct {
	MaxRetries      uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:      3,
		InitialInterval: 500 * time.Millisecond,
		MaxInterval:     5 * time.Second,
	}
}

func (p RetryPolicy) backOff(ctx context.Context) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialInterval
	b.MaxInterval = p.MaxInterval
	b.MaxElapsedTime = 0
	return backoff.WithContext(backoff.WithMaxRetries(b, p.MaxRetries), ctx)
}

// SendNotification asks the actor to deliver Message. Ctx bounds the whole
// delivery including retries.
type SendNotification struct {
	Ctx     context.Context
	Message *Message
}

type NotificationResult struct {
	Attempts int
	Err      error
}

// NotificationActor owns the mailer; its mailbox serialises SMTP traffic.
type NotificationActor struct {
	mailer Mailer
	policy RetryPolicy
	logger *zap.Logger
}

func (a *NotificationActor) Receive(ctx actor.Context) {
	switch msg := ctx.Message().(type) {
	case *SendNotification:
		attempts, err := a.deliver(msg.Ctx, msg.Message)
		ctx.Respond(&NotificationResult{Attempts: attempts, Err: err})

	case *actor.Started:
		a.logger.Info("Notification actor started")

	case *actor.Stopped:
		a.logger.Info("Notification actor stopped")
	}
}

func (a *NotificationActor) deliver(ctx context.Context, msg *Message) (int, error) {
	attempts := 0
	op := func() error {
		attempts++
		err := a.mailer.Send(ctx, msg)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil {
			return backoff.Permanent(err)
		}
		a.logger.Warn("Sending notification failed",
			zap.String("recipient", string(msg.Recipient)),
			zap.String("subject", msg.Subject),
			zap.Int("attempt", attempts),
			zap.Error(err))
		return err
	}

	err := backoff.Retry(op, a.policy.backOff(ctx))
	if err == nil {
		a.logger.Info("Notification sent",
			zap.String("recipient", string(msg.Recipient)),
			zap.String("subject", msg.Subject),
			zap.Int("attempts", attempts))
	}
	return attempts, err
}

// unboundedWait caps Dispatch when neither the dispatcher nor the caller sets
// a deadline. The mailer's own timeout normally ends a delivery long before.
const unboundedWait = 10 * time.Minute

// Dispatcher is the entry point other packages use to send notifications.
type Dispatcher struct {
	system  *actor.ActorSystem
	pid     *actor.PID
	timeout time.Duration
	logger  *zap.Logger
}

// NewDispatcher spawns the notification actor. timeout caps how long Dispatch
// waits for one message, retries included; zero leaves it to the caller's
// context.
func NewDispatcher(mailer Mailer, policy RetryPolicy, timeout time.Duration, logger *zap.Logger) (*Dispatcher, error) {
	system := actor.NewActorSystem()

	props := actor.PropsFromProducer(func() actor.Actor {
		return &NotificationActor{
			mailer: mailer,
			policy: policy,
			logger: logger.Named("notification-actor"),
		}
	})
	pid, err := system.Root.SpawnNamed(props, "notification-actor")
	if err != nil {
		return nil, fmt.Errorf("failed to spawn notification actor: %w", err)
	}

	return &Dispatcher{
		system:  system,
		pid:     pid,
		timeout: timeout,
		logger:  logger,
	}, nil
}

// Dispatch delivers msg and returns the last delivery error, if any.
func (d *Dispatcher) Dispatch(ctx context.Context, msg *Message) error {
	timeout := d.timeout
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return context.DeadlineExceeded
		}
		if timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	if timeout <= 0 {
		timeout = unboundedWait
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	future := d.system.Root.RequestFuture(d.pid, &SendNotification{Ctx: ctx, Message: msg}, timeout)
	result, err := future.Result()
	if err != nil {
		if errors.Is(err, actor.ErrTimeout) {
			return fmt.Errorf("notification to %s timed out after %s", msg.Recipient, timeout)
		}
		return fmt.Errorf("notification actor: %w", err)
	}

	res, ok := result.(*NotificationResult)
	if !ok {
		return fmt.Errorf("unexpected notification reply %T", result)
	}
	if res.Err != nil {
		return fmt.Errorf("after %d attempts: %w", res.Attempts, res.Err)
	}
	return nil
}

func (d *Dispatcher) Close() {
	d.system.Root.Stop(d.pid)
}
