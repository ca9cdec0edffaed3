package models

import "github.com/golang-jwt/jwt/v5"

// User represents an operator account for the HTTP control API,
// stored in the 'users' table.
type User struct {
	ID           int64  `db:"id"`
	Username     string `db:"username"`
	PasswordHash string `db:"password_hash"`
	Role         string `db:"role"`
}

// Claims represents the JWT claims issued to a logged-in operator.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}
