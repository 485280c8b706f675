// Package model はドメインモデルを定義する。
package model

import "time"

// Activity は記録された1回の運動セッションを表す。
// 作成後はイミュータブル。UserIDはユーザーへの弱参照。
type Activity struct {
	ID             string
	UserID         string
	ActivityType   string
	Duration       int // 分単位
	CaloriesBurned int
	Date           time.Time
	Notes          string
}

// 種目はオープンな文字列列挙であり、バリデーションでは固定語彙を
// 強制しない。シードデータおよびUIの既定候補として使用する。
const (
	ActivityTypeRunning        = "Running"
	ActivityTypeSwimming       = "Swimming"
	ActivityTypeCycling        = "Cycling"
	ActivityTypeWeightTraining = "Weight Training"
	ActivityTypeYoga           = "Yoga"
	ActivityTypeBoxing         = "Boxing"
)

// DefaultActivityTypes はシードが循環的に割り当てる既定の種目一覧。
var DefaultActivityTypes = []string{
	ActivityTypeRunning,
	ActivityTypeSwimming,
	ActivityTypeCycling,
	ActivityTypeWeightTraining,
	ActivityTypeYoga,
	ActivityTypeBoxing,
}
