package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/settingsync/settingsync/internal/domain"
	"github.com/settingsync/settingsync/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func changeEvent(name string) domain.Event {
	return domain.Event{
		Kind:        domain.EventSettingValueChanged,
		ClientName:  "OrderService",
		SettingName: name,
	}
}

func TestChangedSettingNamesDeduplicatesAndSorts(t *testing.T) {
	t.Parallel()

	events := mocks.NewMockEventLog(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	events.EXPECT().SettingChanges(mockAnyContext(), start, end, "OrderService", "").
		Return([]domain.Event{
			changeEvent("Timeout"),
			changeEvent("ConnectionString"),
			changeEvent("Timeout"),
			changeEvent(""),
		}, nil)

	detector := NewChangeDetector(events)
	names, err := detector.ChangedSettingNames(context.Background(), start, end, "OrderService", "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ConnectionString", "Timeout"}, names)
}

func TestChangedSettingNamesEmptyWindow(t *testing.T) {
	t.Parallel()

	events := mocks.NewMockEventLog(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	events.EXPECT().SettingChanges(mockAnyContext(), start, end, "OrderService", "").
		Return(nil, nil)

	detector := NewChangeDetector(events)
	names, err := detector.ChangedSettingNames(context.Background(), start, end, "OrderService", "")
	require.NoError(t, err)
	assert.NotNil(t, names)
	assert.Empty(t, names)
}

func TestChangedSettingNamesQueryFailure(t *testing.T) {
	t.Parallel()

	events := mocks.NewMockEventLog(t)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	events.EXPECT().SettingChanges(mockAnyContext(), start, end, "OrderService", "").
		Return(nil, errors.New("log unreadable"))

	detector := NewChangeDetector(events)
	_, err := detector.ChangedSettingNames(context.Background(), start, end, "OrderService", "")
	require.ErrorContains(t, err, "query setting changes")
}
