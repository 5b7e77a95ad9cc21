package usecase_test

import (
	"context"
	"testing"

	"portfolio-backend/internal/usecase"
	"portfolio-backend/pkg/notify"

	"github.com/stretchr/testify/assert"
)

func TestHealthCheck(t *testing.T) {
	contactUC := newUsecase(notify.Unconfigured{}, usecase.ContactOptions{})

	got := usecase.NewHealthUsecase(contactUC, false).Check(context.Background())
	assert.Equal(t, map[string]string{
		"status":           "ok",
		"notifier":         "none",
		"rate_limit_store": "memory",
	}, got)

	// configured but never connected
	got = usecase.NewHealthUsecase(contactUC, true).Check(context.Background())
	assert.Equal(t, "memory (redis unavailable)", got["rate_limit_store"])
}
