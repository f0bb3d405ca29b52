package db

import "gorm.io/gorm"

// Suggestion 是汇总作业派生的改善建议：单用户单日单 key 一行
// Completed 由客户端打勾时改写，汇总作业 upsert 时不会触碰该列。
type Suggestion struct {
	gorm.Model
	UserID        string `gorm:"size:36;index;index:idx_suggestion_unique,unique"`
	Date          string `gorm:"size:10;index:idx_suggestion_unique,unique"`
	SuggestionKey string `gorm:"size:64;index:idx_suggestion_unique,unique"`
	Priority      int
	Reason        string
	Completed     bool
}

// TableName 重写确保唯一索引作用到 user_id + date + suggestion_key
func (Suggestion) TableName() string {
	return "suggestions"
}
