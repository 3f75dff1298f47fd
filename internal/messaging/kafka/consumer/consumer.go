package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"leaveflow/internal/audit"
	"leaveflow/internal/directory"
	"leaveflow/internal/events"
	"leaveflow/internal/notification"
)

// ConsumeLeaveRequestLifecycle reads lifecycle events and fans them out: an
// audit row per event, plus a notification to the requester for user-visible
// resolutions. Both effects are best-effort downstream of the workflow; a
// failed audit write leaves the message uncommitted for redelivery.
func ConsumeLeaveRequestLifecycle(
	ctx context.Context,
	reader *kafkago.Reader,
	auditRepo audit.Repository,
	dir directory.Directory,
	notifier notification.Provider,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_request_lifecycle")
	log.Info("leave request lifecycle consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave request lifecycle consumer stopped")
				return
			}
			log.Error("fetch lifecycle message failed", zap.Error(err))
			continue
		}

		var event events.LeaveRequestEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode lifecycle event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if err := recordAudit(ctx, auditRepo, event); err != nil {
			log.Error("record audit entry failed",
				zap.String("event_type", event.EventType),
				zap.Uint("request_id", event.RequestID),
				zap.Error(err),
			)
			// Leave uncommitted so the broker redelivers.
			continue
		}

		notifyRequester(ctx, dir, notifier, event, log)

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit lifecycle message failed", zap.Error(err))
		}
	}
}

func recordAudit(ctx context.Context, repo audit.Repository, event events.LeaveRequestEvent) error {
	var actor *string
	if event.ActorID != "" {
		actor = &event.ActorID
	}

	detail := fmt.Sprintf("%s %s -> %s (%s to %s)",
		event.LeaveType, event.FromStatus, event.ToStatus, event.StartDate, event.EndDate)

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now().UTC()
	}

	return repo.Create(ctx, &audit.AuditLog{
		ID:         uuid.New(),
		Action:     event.EventType,
		EntityType: "leave_request",
		EntityID:   fmt.Sprintf("%d", event.RequestID),
		ActorID:    actor,
		Detail:     detail,
		OccurredAt: occurredAt,
	})
}

// notificationMessages maps user-visible event types to requester-facing
// text. Events absent here (e.g. created) are audited but not pushed.
var notificationMessages = map[string]string{
	events.LeaveRequestApproved:          "Your leave request #%d has been approved.",
	events.LeaveRequestRejected:          "Your leave request #%d has been rejected.",
	events.LeaveRequestRevocationStarted: "Approval of your leave request #%d is being reconsidered.",
	events.LeaveRequestRevoked:           "Your leave request #%d has returned to the approval queue.",
}

func notifyRequester(
	ctx context.Context,
	dir directory.Directory,
	notifier notification.Provider,
	event events.LeaveRequestEvent,
	log *zap.Logger,
) {
	tmpl, ok := notificationMessages[event.EventType]
	if !ok {
		return
	}

	userID, err := uuid.Parse(event.UserID)
	if err != nil {
		log.Warn("lifecycle event carries invalid user id", zap.String("user_id", event.UserID))
		return
	}

	recipient := event.UserID
	if profile, err := dir.Resolve(ctx, userID); err == nil {
		recipient = profile.Email
	} else {
		log.Warn("resolve requester for notification failed",
			zap.String("user_id", event.UserID),
			zap.Error(err),
		)
	}

	if err := notifier.Send(ctx, recipient, fmt.Sprintf(tmpl, event.RequestID)); err != nil {
		log.Warn("send requester notification failed",
			zap.Uint("request_id", event.RequestID),
			zap.Error(err),
		)
	}
}
