package service

import (
	"context"
	"encoding/json"
	"fmt"
	"learnpath_backend/internal/model"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const progressCacheTTL = 5 * time.Minute

// ProgressCache 课程进度汇总的 Redis 缓存。client 为 nil 时所有操作降级为空操作，
// 单测与无 Redis 部署均走这条路径
type ProgressCache struct {
	client *redis.Client
	log    *zap.Logger
}

func NewProgressCache(client *redis.Client, log *zap.Logger) *ProgressCache {
	return &ProgressCache{client: client, log: log}
}

func progressCacheKey(userID, courseID uint) string {
	return fmt.Sprintf("learnpath:progress:%d:%d", userID, courseID)
}

func (c *ProgressCache) Get(ctx context.Context, userID, courseID uint) (*model.ProgressSummary, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, progressCacheKey(userID, courseID)).Bytes()
	if err != nil {
		return nil, false
	}
	var summary model.ProgressSummary
	if err := json.Unmarshal(data, &summary); err != nil {
		return nil, false
	}
	return &summary, true
}

func (c *ProgressCache) Set(ctx context.Context, summary *model.ProgressSummary) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(summary)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, progressCacheKey(summary.UserID, summary.CourseID), data, progressCacheTTL).Err(); err != nil {
		c.log.Warn("写入进度缓存失败", zap.Error(err))
	}
}

// Invalidate 在任何改写答题或题目数据的路径上调用，保证汇总不读到过期值
func (c *ProgressCache) Invalidate(ctx context.Context, userID, courseID uint) {
	if c == nil || c.client == nil {
		return
	}
	if err := c.client.Del(ctx, progressCacheKey(userID, courseID)).Err(); err != nil {
		c.log.Warn("清除进度缓存失败", zap.Error(err))
	}
}
