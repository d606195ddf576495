package core

import "github.com/golang-jwt/jwt/v4"

type Role string

const (
	RoleAdmin  Role = "admin"  // 可查詢歷史紀錄
	RoleViewer Role = "viewer" // 只能使用助理功能
)

type Claims struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
	jwt.RegisteredClaims
}
