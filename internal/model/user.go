// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// usernameの一意性はストア側の制約で保証される。
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
