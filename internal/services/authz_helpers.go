package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/steamlab-platform/lab-service/internal/authz"
	"github.com/steamlab-platform/lab-service/internal/events"
	"github.com/steamlab-platform/lab-service/internal/models"
	"github.com/steamlab-platform/lab-service/internal/repositories"
)

// resolveActor loads the acting user and reduces it to the shape the
// authorization functions work with.
func resolveActor(ctx context.Context, repo repositories.Repository, actorID uint) (authz.Actor, error) {
	user, err := repo.User().GetByID(ctx, nil, actorID)
	if err != nil {
		return authz.Actor{}, fmt.Errorf("failed to resolve actor: %w", translateNotFound(err))
	}

	actor := authz.Actor{ID: user.ID, Role: user.Role}
	if user.TeacherProfile != nil {
		actor.LabID = user.TeacherProfile.LabID
	}
	return actor, nil
}

// resolveTarget loads a user as the target of a privileged operation. The
// lab set is the profile lab for staff and the labs of all enrollments for
// students.
func resolveTarget(ctx context.Context, repo repositories.Repository, targetID uint) (authz.Target, error) {
	user, err := repo.User().GetByID(ctx, nil, targetID)
	if err != nil {
		return authz.Target{}, translateNotFound(err)
	}

	target := authz.Target{ID: user.ID, Role: user.Role}

	switch {
	case user.Role.IsStaff():
		if user.TeacherProfile != nil && user.TeacherProfile.LabID != nil {
			target.LabIDs = []uint{*user.TeacherProfile.LabID}
		}
	case user.Role == models.RoleStudent:
		labIDs, err := repo.Enrollment().LabIDsForStudent(ctx, nil, user.ID)
		if err != nil {
			return authz.Target{}, err
		}
		target.LabIDs = labIDs
	}

	return target, nil
}

// studentLabs returns the lab set a student belongs to through enrollments.
func studentLabs(ctx context.Context, repo repositories.Repository, studentID uint) ([]uint, error) {
	return repo.Enrollment().LabIDsForStudent(ctx, nil, studentID)
}

// eventEmitter publishes domain events without ever failing the request.
type eventEmitter struct {
	publisher events.EventPublisher
	topic     string
	logger    *slog.Logger
}

func newEventEmitter(publisher events.EventPublisher, topic string, logger *slog.Logger) eventEmitter {
	return eventEmitter{publisher: publisher, topic: topic, logger: logger}
}

// Emit publishes the event and logs failures instead of returning them.
func (e eventEmitter) Emit(ctx context.Context, eventType string, data interface{}) {
	if e.publisher == nil {
		return
	}

	event := events.NewEvent(eventType, data)
	if err := e.publisher.Publish(ctx, e.topic, event); err != nil {
		e.logger.Error("failed to publish event",
			"event_type", eventType,
			"event_id", event.ID,
			"error", err)
	}
}
