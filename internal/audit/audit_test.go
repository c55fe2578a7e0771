package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger() (*SlogLogger, *bytes.Buffer) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	return NewSlogLogger(slog.New(handler)), &buf
}

func TestSlogLogger_Log(t *testing.T) {
	tests := []struct {
		name            string
		event           Event
		wantEventType   string
		wantProvider    string
		wantHasError    bool
		wantHasIdentity bool
	}{
		{
			name: "face registered event",
			event: Event{
				EventType: EventFaceRegistered,
				Identity:  "alice",
				Provider:  "deepface/Facenet512",
				Success:   true,
				Metadata: map[string]string{
					"embeddings": "2",
				},
			},
			wantEventType:   string(EventFaceRegistered),
			wantProvider:    "deepface/Facenet512",
			wantHasIdentity: true,
		},
		{
			name: "failed registration event",
			event: Event{
				EventType: EventFaceRegistered,
				Provider:  "deepface/Facenet512",
				Success:   false,
				Error:     "no face detected",
			},
			wantEventType: string(EventFaceRegistered),
			wantProvider:  "deepface/Facenet512",
			wantHasError:  true,
		},
		{
			name: "attendance event",
			event: Event{
				EventType: EventAttendanceRecognized,
				Provider:  "mock",
				Success:   true,
				Metadata: map[string]string{
					"faces_count": "3",
				},
			},
			wantEventType: string(EventAttendanceRecognized),
			wantProvider:  "mock",
		},
		{
			name: "event with IP and user agent",
			event: Event{
				EventType: EventResumeScored,
				Provider:  "keyword",
				Success:   true,
				IPAddress: "192.168.1.1",
				UserAgent: "Mozilla/5.0",
			},
			wantEventType: string(EventResumeScored),
			wantProvider:  "keyword",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auditLogger, buf := newTestLogger()

			err := auditLogger.Log(context.Background(), tt.event)
			require.NoError(t, err)

			output := buf.String()
			assert.Contains(t, output, tt.wantEventType)
			assert.Contains(t, output, tt.wantProvider)
			assert.Contains(t, output, "audit_event")
			assert.Contains(t, output, "audit")

			if tt.wantHasError {
				assert.Contains(t, output, tt.event.Error)
			}

			if tt.wantHasIdentity {
				assert.Contains(t, output, tt.event.Identity)
			}
		})
	}
}

func TestSlogLogger_Log_GeneratesIDAndTimestamp(t *testing.T) {
	auditLogger, buf := newTestLogger()

	err := auditLogger.Log(context.Background(), Event{
		EventType: EventFaceRegistered,
		Provider:  "mock",
		Success:   true,
	})
	require.NoError(t, err)

	var logEntry map[string]interface{}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.NotEmpty(t, lines)
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &logEntry))

	eventID, ok := logEntry["event_id"].(string)
	assert.True(t, ok)

	_, err = uuid.Parse(eventID)
	assert.NoError(t, err)
}

func TestSlogLogger_Log_UsesProvidedID(t *testing.T) {
	auditLogger, buf := newTestLogger()
	expectedID := uuid.New()

	err := auditLogger.Log(context.Background(), Event{
		ID:        expectedID,
		Timestamp: time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		EventType: EventFaceRegistered,
		Provider:  "mock",
		Success:   true,
	})
	require.NoError(t, err)

	assert.Contains(t, buf.String(), expectedID.String())
}

func TestSlogLogger_Log_ClientFromContext(t *testing.T) {
	auditLogger, buf := newTestLogger()
	ctx := WithClient(context.Background(), "10.0.0.7", "curl/8.0")

	err := auditLogger.Log(ctx, Event{
		EventType: EventAttendanceRecognized,
		Provider:  "mock",
		Success:   true,
	})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "10.0.0.7")
	assert.Contains(t, output, "curl/8.0")
}

func TestSlogLogger_Log_ExplicitClientWins(t *testing.T) {
	auditLogger, buf := newTestLogger()
	ctx := WithClient(context.Background(), "10.0.0.7", "curl/8.0")

	err := auditLogger.Log(ctx, Event{
		EventType: EventAttendanceRecognized,
		Provider:  "mock",
		Success:   true,
		IPAddress: "172.16.0.1",
	})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "172.16.0.1")
	assert.NotContains(t, output, "10.0.0.7")
	assert.Contains(t, output, "curl/8.0")
}

func TestNoOpLogger_Log(t *testing.T) {
	logger := &NoOpLogger{}

	for i := 0; i < 100; i++ {
		err := logger.Log(context.Background(), Event{
			EventType: EventAttendanceRecognized,
			Provider:  "mock",
			Success:   true,
		})
		assert.NoError(t, err)
	}
}

func TestLoggerInterface_Compliance(t *testing.T) {
	var _ Logger = (*SlogLogger)(nil)
	var _ Logger = (*NoOpLogger)(nil)
}

func TestEventType_Constants(t *testing.T) {
	assert.Equal(t, EventType("FACE_REGISTERED"), EventFaceRegistered)
	assert.Equal(t, EventType("ATTENDANCE_RECOGNIZED"), EventAttendanceRecognized)
	assert.Equal(t, EventType("RESUME_SCORED"), EventResumeScored)
}

func TestEvent_JSON_OmitsEmptyFields(t *testing.T) {
	event := Event{
		EventType: EventFaceRegistered,
		Provider:  "mock",
		Success:   true,
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	jsonStr := string(data)
	assert.NotContains(t, jsonStr, "identity")
	assert.NotContains(t, jsonStr, "error")
	assert.NotContains(t, jsonStr, "ip_address")
	assert.NotContains(t, jsonStr, "user_agent")
}
