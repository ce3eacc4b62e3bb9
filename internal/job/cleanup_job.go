package job

import (
	"context"
	"time"

	"go.uber.org/zap"

	"community-board-api/internal/repository"
)

// CleanupJob purges stale unverified accounts. A member who never confirms
// the verification mail keeps an expired token forever; after the retention
// window those rows are deleted so the email and nickname become usable again.
type CleanupJob struct {
	memberRepo repository.MemberRepository
	retention  time.Duration
	logger     *zap.Logger
}

// NewCleanupJob creates a new CleanupJob instance
func NewCleanupJob(memberRepo repository.MemberRepository, retention time.Duration, logger *zap.Logger) *CleanupJob {
	return &CleanupJob{
		memberRepo: memberRepo,
		retention:  retention,
		logger:     logger,
	}
}

// Run executes the cleanup job
func (j *CleanupJob) Run() {
	ctx := context.Background()
	cutoff := time.Now().Add(-j.retention)

	j.logger.Info("Starting cleanup job for stale unverified accounts",
		zap.Time("cutoff", cutoff))

	stale, err := j.memberRepo.FindExpiredUnverified(ctx, cutoff)
	if err != nil {
		j.logger.Error("Failed to find stale unverified accounts", zap.Error(err))
		return
	}

	if len(stale) == 0 {
		j.logger.Info("No stale unverified accounts found")
		return
	}

	ids := make([]uint, 0, len(stale))
	for _, member := range stale {
		ids = append(ids, member.ID)
	}

	if err := j.memberRepo.DeleteBatch(ctx, ids); err != nil {
		j.logger.Error("Failed to delete stale unverified accounts",
			zap.Int("count", len(ids)),
			zap.Error(err))
		return
	}

	j.logger.Info("Cleanup job completed", zap.Int("deleted", len(ids)))
}
