package entity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/talent-api/internal/domain"
	"github.com/jhoicas/talent-api/internal/domain/entity"
)

func TestRequestStatus_TransitionTo(t *testing.T) {
	assert.NoError(t, entity.RequestPending.TransitionTo(entity.RequestApproved))
	assert.NoError(t, entity.RequestPending.TransitionTo(entity.RequestRejected))

	err := entity.RequestPending.TransitionTo(entity.RequestPending)
	assert.ErrorIs(t, err, domain.ErrValidation)

	for _, terminal := range []entity.RequestStatus{entity.RequestApproved, entity.RequestRejected} {
		for _, next := range []entity.RequestStatus{entity.RequestPending, entity.RequestApproved, entity.RequestRejected} {
			err := terminal.TransitionTo(next)
			assert.ErrorIs(t, err, domain.ErrConflict, "%s -> %s", terminal, next)
		}
	}
}

func TestParseRequestStatus(t *testing.T) {
	st, ok := entity.ParseRequestStatus("APPROVED")
	assert.True(t, ok)
	assert.Equal(t, entity.RequestApproved, st)

	_, ok = entity.ParseRequestStatus("reopened")
	assert.False(t, ok)
}
