package db

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// NotificationSchedule 保存客户端提醒的规则表：单用户单类型一行
// Kind 取值 breathing/meditation/stretching/score_ready。
// 本服务只做规则存取，推送投递由外部协作方完成。
type NotificationSchedule struct {
	gorm.Model
	UserID   string `gorm:"size:36;index;index:idx_notification_user_kind,unique"`
	Kind     string `gorm:"size:32;index:idx_notification_user_kind,unique"`
	Hour     int
	Minute   int
	Weekdays datatypes.JSONSlice[string]
	Enabled  bool
}

// TableName 重写确保唯一索引作用到 user_id + kind
func (NotificationSchedule) TableName() string {
	return "notification_schedules"
}
