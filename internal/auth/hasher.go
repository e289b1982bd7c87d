package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher はパスワードのハッシュ化と照合を抽象化する。
type PasswordHasher interface {
	// Hash はソルト付きハッシュを生成する。
	Hash(password string) (string, error)
	// Compare はパスワードとハッシュが一致するかを返す。
	// 不一致はfalse, nilで返し、ハッシュ自体が壊れている場合のみエラーを返す。
	Compare(hash, password string) (bool, error)
}

// maxPasswordBytes はbcryptが入力として扱う最大バイト数。
const maxPasswordBytes = 72

// bcryptInput はbcryptに渡すバイト列を返す。
// 72バイトを超える部分は切り捨てる。HashとCompareで同じ規則を使う。
func bcryptInput(password string) []byte {
	b := []byte(password)
	if len(b) > maxPasswordBytes {
		b = b[:maxPasswordBytes]
	}
	return b
}

// BcryptHasher はbcryptによるPasswordHasherの実装。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher はBcryptHasherを生成する。
// costが範囲外の場合はbcrypt.DefaultCostを使用する。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash はソルト付きハッシュを生成する。
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(bcryptInput(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// Compare はパスワードとハッシュが一致するかを返す。
func (h *BcryptHasher) Compare(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("failed to compare password hash: %w", err)
}

// compile-time interface check
var _ PasswordHasher = (*BcryptHasher)(nil)
