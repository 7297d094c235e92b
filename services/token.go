package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/anagroupsupplies/shop/model"
	"github.com/anagroupsupplies/shop/utils"

	"github.com/golang-jwt/jwt/v5"
)

const tokenIssuer = "ana-shop"

// GenerateToken issues an access token carrying the user id and role.
func GenerateToken(userID string, role model.Role) (string, error) {
	expirationTime := time.Now().Add(time.Duration(utils.JWTExpirationTime) * time.Second)

	claims := jwt.MapClaims{
		"user_id": userID,
		"role":    string(role),
		"iss":     tokenIssuer,
		"iat":     time.Now().Unix(),
		"exp":     expirationTime.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(utils.JWTSecretKey))
}

// ParseToken validates a token and returns the user id and role claims.
func ParseToken(tokenString string) (string, model.Role, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(utils.JWTSecretKey), nil
	})
	if err != nil {
		return "", "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["user_id"] == nil || claims["exp"] == nil {
		return "", "", errors.New("invalid token claims")
	}

	if iss, ok := claims["iss"].(string); !ok || iss != tokenIssuer {
		return "", "", errors.New("invalid token issuer")
	}

	if exp, ok := claims["exp"].(float64); ok {
		if time.Now().Unix() > int64(exp) {
			return "", "", errors.New("token has expired")
		}
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return "", "", errors.New("invalid user ID in token")
	}

	role := model.RoleCustomer
	if r, ok := claims["role"].(string); ok && r != "" {
		role = model.Role(r)
	}

	return userID, role, nil
}
