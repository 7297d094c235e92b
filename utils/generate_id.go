package utils

import "github.com/google/uuid"

func GenerateUserID() string {
	return uuid.New().String()
}

func GenerateLineItemID() string {
	return uuid.New().String()
}

func GenerateOrderID() string {
	return uuid.New().String()
}
