// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: validation, resource, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUserNotFound        = "USER_NOT_FOUND"
	ErrCodeTeamNotFound        = "TEAM_NOT_FOUND"
	ErrCodeActivityNotFound    = "ACTIVITY_NOT_FOUND"
	ErrCodeWorkoutNotFound     = "WORKOUT_NOT_FOUND"
	ErrCodeDuplicateEmail      = "DUPLICATE_EMAIL"
	ErrCodeInvalidEmail        = "INVALID_EMAIL"
	ErrCodeInvalidName         = "INVALID_NAME"
	ErrCodeInvalidPassword     = "INVALID_PASSWORD"
	ErrCodeInvalidActivityType = "INVALID_ACTIVITY_TYPE"
	ErrCodeInvalidDuration     = "INVALID_DURATION"
	ErrCodeInvalidCalories     = "INVALID_CALORIES"
	ErrCodeInvalidWorkout      = "INVALID_WORKOUT"
)

// NewUserNotFoundError はユーザーが見つからない場合のエラーを生成する。
func NewUserNotFoundError(userID string) *APIError {
	return &APIError{
		Code:     ErrCodeUserNotFound,
		Message:  fmt.Sprintf("指定されたユーザーが見つかりません: %s", userID),
		Category: "resource",
		Action:   "ユーザーIDを確認してください。",
	}
}

// NewTeamNotFoundError はチームが見つからない場合のエラーを生成する。
func NewTeamNotFoundError(teamID string) *APIError {
	return &APIError{
		Code:     ErrCodeTeamNotFound,
		Message:  fmt.Sprintf("指定されたチームが見つかりません: %s", teamID),
		Category: "resource",
		Action:   "チームIDを確認してください。",
	}
}

// NewActivityNotFoundError は活動記録が見つからない場合のエラーを生成する。
func NewActivityNotFoundError(activityID string) *APIError {
	return &APIError{
		Code:     ErrCodeActivityNotFound,
		Message:  fmt.Sprintf("指定された活動記録が見つかりません: %s", activityID),
		Category: "resource",
		Action:   "活動記録IDを確認してください。",
	}
}

// NewWorkoutNotFoundError はワークアウトが見つからない場合のエラーを生成する。
func NewWorkoutNotFoundError(workoutID string) *APIError {
	return &APIError{
		Code:     ErrCodeWorkoutNotFound,
		Message:  fmt.Sprintf("指定されたワークアウトが見つかりません: %s", workoutID),
		Category: "resource",
		Action:   "ワークアウトIDを確認してください。",
	}
}

// NewDuplicateEmailError はメールアドレスが既に登録済みの場合のエラーを生成する。
func NewDuplicateEmailError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeDuplicateEmail,
		Message:  fmt.Sprintf("このメールアドレスは既に登録されています: %s", email),
		Category: "validation",
		Action:   "別のメールアドレスを指定してください。",
	}
}

// NewInvalidEmailError は無効なメールアドレスエラーを生成する。
func NewInvalidEmailError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidEmail,
		Message:  fmt.Sprintf("無効なメールアドレスです: %s", reason),
		Category: "validation",
		Action:   "正しい形式のメールアドレスを入力してください。",
	}
}

// NewInvalidNameError は無効な表示名エラーを生成する。
func NewInvalidNameError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidName,
		Message:  "表示名が空です。",
		Category: "validation",
		Action:   "1文字以上の表示名を入力してください。",
	}
}

// NewInvalidPasswordError は無効なパスワードエラーを生成する。
func NewInvalidPasswordError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidPassword,
		Message:  "パスワードが短すぎます。",
		Category: "validation",
		Action:   "8文字以上のパスワードを入力してください。",
	}
}

// NewInvalidActivityTypeError は種目未指定エラーを生成する。
func NewInvalidActivityTypeError() *APIError {
	return &APIError{
		Code:     ErrCodeInvalidActivityType,
		Message:  "種目が指定されていません。",
		Category: "validation",
		Action:   "Running、Swimmingなどの種目名を指定してください。",
	}
}

// NewInvalidDurationError は無効な活動時間エラーを生成する。
func NewInvalidDurationError(minutes int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidDuration,
		Message:  fmt.Sprintf("無効な活動時間です: %d分", minutes),
		Category: "validation",
		Action:   "活動時間は1分以上の整数で指定してください。",
	}
}

// NewInvalidCaloriesError は無効な消費カロリーエラーを生成する。
func NewInvalidCaloriesError(calories int) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidCalories,
		Message:  fmt.Sprintf("無効な消費カロリーです: %d", calories),
		Category: "validation",
		Action:   "消費カロリーは0以上の整数で指定してください。",
	}
}

// NewInvalidWorkoutError はワークアウト入力不備エラーを生成する。
func NewInvalidWorkoutError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidWorkout,
		Message:  fmt.Sprintf("ワークアウトの入力が不正です: %s", reason),
		Category: "validation",
		Action:   "名前・種目・時間を確認してください。",
	}
}
