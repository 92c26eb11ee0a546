package handler

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditQueryFrom(t *testing.T) {
	t.Run("full filter set", func(t *testing.T) {
		r := httptest.NewRequest("GET",
			"/api/audit-logs?action_type=permission_check&entity_type=organization&entity_id=org-1"+
				"&subject_type=user&subject_id=user-1&result=false"+
				"&start_time=2026-08-01T00:00:00Z&end_time=2026-08-30T00:00:00Z&limit=25&offset=50", nil)

		params := auditQueryFrom(r)

		assert.Equal(t, "permission_check", params.ActionType)
		assert.Equal(t, "organization", params.EntityType)
		assert.Equal(t, "org-1", params.EntityID)
		assert.Equal(t, "user", params.SubjectType)
		assert.Equal(t, "user-1", params.SubjectID)
		require.NotNil(t, params.Result)
		assert.False(t, *params.Result)
		assert.Equal(t, time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC), params.StartTime)
		assert.Equal(t, 25, params.Limit)
		assert.Equal(t, 50, params.Offset)
	})

	t.Run("malformed values are dropped", func(t *testing.T) {
		r := httptest.NewRequest("GET",
			"/api/audit-logs?result=maybe&start_time=yesterday&limit=-5&offset=x", nil)

		params := auditQueryFrom(r)

		assert.Nil(t, params.Result)
		assert.True(t, params.StartTime.IsZero())
		assert.Zero(t, params.Limit)
		assert.Zero(t, params.Offset)
	})
}
