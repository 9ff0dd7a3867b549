package scheduler

import (
	"testing"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/stretchr/testify/assert"

	"github.com/fdesign/nexus-sales-api/internal/domain"
)

type stubInsighter struct {
	snapshot *domain.Snapshot
	err      error
	calls    int
}

func (s *stubInsighter) GetAdminSnapshot() (*domain.Snapshot, error) {
	s.calls++
	return s.snapshot, s.err
}

func (s *stubInsighter) GetDashboard(claims *domain.Claims) (*domain.Dashboard, error) {
	return nil, nil
}

func (s *stubInsighter) Search(query string) ([]*domain.SearchResult, error) {
	return nil, nil
}

func newTestSyncService(insighter *stubInsighter) *SnapshotSyncService {
	return &SnapshotSyncService{
		scheduler: gocron.NewScheduler(time.Local),
		config: SnapshotSyncConfig{
			CronSchedule: "0 */2 * * *",
			SyncEnabled:  true,
		},
		insighter: insighter,
	}
}

func TestSyncSnapshotAtualizaCache(t *testing.T) {
	insighter := &stubInsighter{
		snapshot: &domain.Snapshot{
			Success: true,
			Users:   []domain.UserWithMetrics{{ID: "USR-1", Nome: "Ana Souza"}},
		},
	}
	service := newTestSyncService(insighter)

	assert.Nil(t, service.GetCachedSnapshot())

	service.syncSnapshot()

	assert.Equal(t, 1, insighter.calls)
	cached := service.GetCachedSnapshot()
	if assert.NotNil(t, cached) {
		assert.Len(t, cached.Users, 1)
	}

	status := service.GetStatus()
	assert.Equal(t, true, status["has_cached_snapshot"])
	assert.Equal(t, false, status["sync_running"])
	assert.Equal(t, "", status["last_sync_error"])
}

func TestSyncSnapshotRegistraErro(t *testing.T) {
	insighter := &stubInsighter{err: assert.AnError}
	service := newTestSyncService(insighter)

	service.syncSnapshot()

	assert.Nil(t, service.GetCachedSnapshot())

	status := service.GetStatus()
	assert.Equal(t, false, status["has_cached_snapshot"])
	assert.Equal(t, assert.AnError.Error(), status["last_sync_error"])
}

func TestSyncSnapshotRegistraTimestamps(t *testing.T) {
	insighter := &stubInsighter{snapshot: &domain.Snapshot{Success: true}}
	service := newTestSyncService(insighter)

	antes := time.Now()
	service.syncSnapshot()

	status := service.GetStatus()
	iniciado, ok := status["last_sync_started_at"].(time.Time)
	assert.True(t, ok)
	assert.False(t, iniciado.Before(antes))

	concluido, ok := status["last_sync_completed_at"].(time.Time)
	assert.True(t, ok)
	assert.False(t, concluido.Before(iniciado))
}

func TestGetStatusInicial(t *testing.T) {
	service := newTestSyncService(&stubInsighter{})

	status := service.GetStatus()

	assert.Equal(t, true, status["sync_enabled"])
	assert.Equal(t, "0 */2 * * *", status["sync_cron"])
	assert.Equal(t, false, status["sync_running"])
	assert.Equal(t, false, status["has_cached_snapshot"])
}
