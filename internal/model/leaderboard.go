// Package model はドメインモデルを定義する。
package model

import "time"

// LeaderboardEntry はリーダーボードの1行を表す導出レコード。
// ユーザーごとの活動集計とランクを保持し、全件が計算エポック単位で
// 丸ごと置き換えられる（部分更新は行わない）。
// TeamIDは計算時点のユーザーの所属チームのスナップショットであり、
// 以後再解決されない。
type LeaderboardEntry struct {
	ID              string
	UserID          string
	TeamID          string
	TotalActivities int
	TotalCalories   int
	TotalDuration   int // 分単位
	Rank            int // 1が最上位
	UpdatedAt       time.Time
}

// UnknownUserName はユーザーへの弱参照が解決できない場合に
// 読み取り系APIが代入するセンチネル値。
// 参照切れ1件のために全体の処理を失敗させない方針（非致命）。
const UnknownUserName = "Unknown User"

// LeaderboardPeriod はリーダーボードの期間ラベル。
// 更新時刻から導出せず、固定リテラルを返す仕様を踏襲する。
const LeaderboardPeriod = "Monthly"
