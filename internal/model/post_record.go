package model

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// 平台枚举
const (
	PlatformShortVideo = "short_video"
	PlatformPhoto      = "photo"
)

// Platforms 全部受支持平台，规划时按此顺序遍历
var Platforms = []string{PlatformShortVideo, PlatformPhoto}

// 发布状态机：planned → submitting → posted | failed
// submitting 失败且还有重试预算时回退 planned 重新排队
const (
	StatusPlanned    = "planned"
	StatusSubmitting = "submitting"
	StatusPosted     = "posted"
	StatusFailed     = "failed"
)

// allowedTransitions posted / failed 为终态，不再出边。
// planned → failed 用于重试等待期间被取消的记录。
var allowedTransitions = map[string][]string{
	StatusPlanned:    {StatusSubmitting, StatusFailed},
	StatusSubmitting: {StatusPosted, StatusPlanned, StatusFailed},
}

// CanTransition 校验状态迁移是否合法
func CanTransition(from, to string) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal posted / failed 不再参与发布
func IsTerminal(status string) bool {
	return status == StatusPosted || status == StatusFailed
}

// IsKnownPlatform 平台枚举校验
func IsKnownPlatform(platform string) bool {
	for _, p := range Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// PostRecord 一条已规划或已执行的帖子记录。
// (platform, scheduled_at) 上有唯一索引，保证同一时段同一平台只有一条记录；
// 记录只追加不删除，失败与成功的历史都留作反馈与审计。
type PostRecord struct {
	ID            string     `gorm:"type:varchar(64);primaryKey" json:"id"`
	Niche         string     `gorm:"type:varchar(64);not null;index:idx_niche" json:"niche"`
	Platform      string     `gorm:"type:varchar(32);not null;uniqueIndex:uk_platform_slot" json:"platform"`
	ContentType   string     `gorm:"type:varchar(64);not null" json:"content_type"`
	Theme         string     `gorm:"type:varchar(64);not null" json:"theme"`
	ScheduledAt   time.Time  `gorm:"not null;uniqueIndex:uk_platform_slot" json:"scheduled_at"`
	Status        string     `gorm:"type:varchar(16);not null;default:planned;index:idx_status" json:"status"`
	AttemptCount  int        `gorm:"not null;default:0" json:"attempt_count"`
	MediaRef      string     `gorm:"type:varchar(255)" json:"media_ref"`
	Caption       string     `gorm:"type:varchar(512)" json:"caption"`
	Hashtags      StringList `gorm:"type:json" json:"hashtags"`
	ExternalPostID string    `gorm:"type:varchar(128)" json:"external_post_id"`
	Degraded      bool       `gorm:"type:tinyint(1);not null;default:0" json:"degraded"`
	FailReason    string     `gorm:"type:varchar(255)" json:"fail_reason"`
	LastMetricsAt *time.Time `json:"last_metrics_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (PostRecord) TableName() string {
	return "post_records"
}

// ReadyToSubmit 进入 submitting 前素材与文案必须就绪
func (p *PostRecord) ReadyToSubmit() bool {
	return p.MediaRef != "" && p.Caption != "" && len(p.Hashtags) > 0
}

// StringList 话题标签列表，JSON 列存储
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return json.Marshal(l)
}

func (l *StringList) Scan(value interface{}) error {
	bytes, ok := value.([]byte)
	if !ok {
		if s, isStr := value.(string); isStr {
			bytes = []byte(s)
		} else {
			return errors.New(fmt.Sprint("Failed to unmarshal JSON value:", value))
		}
	}
	return json.Unmarshal(bytes, l)
}
