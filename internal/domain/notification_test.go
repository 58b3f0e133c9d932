package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() NotificationRequest {
	return NotificationRequest{
		EventID:   "9be43e4a-5c6f-4a3a-9f6a-2f8f9a1f0b11",
		EventType: EventTypeRxOrder,
		Payload: NotificationPayload{
			TemplateID: "rx-ready",
			Contacts: []ContactRef{
				{ExternalIDType: "patient-id", ExternalIDValue: "p-100", Email: "a@example.com"},
			},
		},
	}
}

func TestNotificationRequestValidate(t *testing.T) {
	t.Run("valid request passes", func(t *testing.T) {
		require.NoError(t, validRequest().Validate())
	})

	t.Run("missing fields fail", func(t *testing.T) {
		tests := []struct {
			name   string
			mutate func(*NotificationRequest)
		}{
			{"event id", func(r *NotificationRequest) { r.EventID = " " }},
			{"event type", func(r *NotificationRequest) { r.EventType = "" }},
			{"template id", func(r *NotificationRequest) { r.Payload.TemplateID = "" }},
			{"contacts", func(r *NotificationRequest) { r.Payload.Contacts = nil }},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				req := validRequest()
				tt.mutate(&req)
				assert.Error(t, req.Validate())
			})
		}
	})

	t.Run("invalid contact ref is reported with its index", func(t *testing.T) {
		req := validRequest()
		req.Payload.Contacts = append(req.Payload.Contacts, ContactRef{ExternalIDType: "patient-id"})
		err := req.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contact 1")
	})
}

func TestContactRefValidate(t *testing.T) {
	assert.NoError(t, ContactRef{ExternalIDType: "patient-id", ExternalIDValue: "p-1"}.Validate())
	assert.Error(t, ContactRef{ExternalIDValue: "p-1"}.Validate())
	assert.Error(t, ContactRef{ExternalIDType: "patient-id"}.Validate())
}

func TestResolvedContactHasEmail(t *testing.T) {
	assert.True(t, ResolvedContact{Email: "a@example.com"}.HasEmail())
	assert.False(t, ResolvedContact{}.HasEmail())
	assert.False(t, ResolvedContact{Email: "   "}.HasEmail())
}
