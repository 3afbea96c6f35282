package utils

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"

	"golang.org/x/crypto/pbkdf2"
)

// 口令派生参数。盐值按账户随机生成并与哈希一同存储，
// 校验时用存储的盐值重算哈希再比较。
const (
	saltBytes        = 32
	pbkdf2Iterations = 10000
	pbkdf2KeyLen     = 64
)

// GenerateSalt 生成账户级随机盐值，base64url 编码（无填充）。
func GenerateSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// HashPassword 以 PBKDF2-SHA512 派生口令哈希，返回 base64url 字符串。
func HashPassword(password, salt string) string {
	key := pbkdf2.Key([]byte(password), []byte(salt), pbkdf2Iterations, pbkdf2KeyLen, sha512.New)
	return base64.RawURLEncoding.EncodeToString(key)
}

// VerifyPassword 用存储的盐值重算哈希并做常数时间比较。
func VerifyPassword(password, salt, hash string) bool {
	derived := HashPassword(password, salt)
	return subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) == 1
}
