package study

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	svc, err := NewService(defaultCatalog(t), DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1000, svc.TotalChapters())
	assert.Equal(t, 334, svc.Scheduler().CycleLength())
	assert.Equal(t, "2024-04-23", FormatDate(svc.Scheduler().Epoch()))

	cs := svc.DailyStudy(epoch.AddDate(0, 0, 3))
	assert.Equal(t, "Foundations of the Torah Ch. 10 · Human Dispositions Ch. 1–2", Label(cs))

	u, ok := svc.Locate("kings", 12)
	require.True(t, ok)
	assert.Equal(t, 999, u.Index)
}

func TestNewService_Invalid(t *testing.T) {
	_, err := NewService(nil, DefaultConfig())
	assert.Equal(t, ErrInvalidConfig, errors.Cause(err))

	cfg := DefaultConfig()
	cfg.ChaptersPerDay = 0
	_, err = NewService(defaultCatalog(t), cfg)
	assert.Equal(t, ErrInvalidConfig, errors.Cause(err))
}
