package usersink

import (
	"context"
	"testing"
	"time"

	"github.com/goliatone/go-chatadmin/pkg/activity"
	"github.com/goliatone/go-users/pkg/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	records []types.ActivityRecord
	err     error
}

func (s *recordingSink) Log(_ context.Context, record types.ActivityRecord) error {
	s.records = append(s.records, record)
	return s.err
}

func TestHookNotifyMapsEvent(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	actorID := uuid.New()
	userID := uuid.New()
	tenantID := uuid.New()
	roleID := uuid.New().String()

	event := activity.Event{
		Verb:           "admin.role.delete",
		ActorID:        actorID.String(),
		UserID:         userID.String(),
		TenantID:       tenantID.String(),
		ObjectType:     "role",
		ObjectID:       roleID,
		Channel:        "admin",
		DefinitionCode: "role:delete",
		Recipients:     []string{"security@example.com"},
		Metadata: map[string]any{
			"cascaded_users": 2,
		},
		OccurredAt: now,
	}

	require.NoError(t, hook.Notify(context.Background(), event))
	require.Len(t, sink.records, 1)

	record := sink.records[0]
	assert.Equal(t, actorID, record.ActorID)
	assert.Equal(t, userID, record.UserID)
	assert.Equal(t, tenantID, record.TenantID)
	assert.Equal(t, "admin.role.delete", record.Verb)
	assert.Equal(t, "role", record.ObjectType)
	assert.Equal(t, roleID, record.ObjectID)
	assert.Equal(t, "admin", record.Channel)
	assert.Equal(t, now, record.OccurredAt)
	assert.Equal(t, "role:delete", record.Data["definition_code"])
	assert.Equal(t, 2, record.Data["cascaded_users"])
	assert.Equal(t, []string{"security@example.com"}, record.Data["recipients"])
}

func TestHookNotifyToleratesNonUUIDIdentifiers(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	err := hook.Notify(context.Background(), activity.Event{
		Verb:       "admin.widget.create",
		ActorID:    "cli",
		ObjectType: "widget",
		ObjectID:   "widget-3",
	})
	require.NoError(t, err)
	require.Len(t, sink.records, 1)
	assert.Equal(t, uuid.Nil, sink.records[0].ActorID)
	assert.Equal(t, "widget-3", sink.records[0].ObjectID)
}

func TestHookNotifySkipsMissingVerb(t *testing.T) {
	sink := &recordingSink{}
	hook := Hook{Sink: sink}

	_ = hook.Notify(context.Background(), activity.Event{})

	if len(sink.records) != 0 {
		t.Fatalf("expected no records for empty event, got %d", len(sink.records))
	}
}
