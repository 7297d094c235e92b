package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/anagroupsupplies/shop/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// Hosted document stores signal read-quota exhaustion with a driver-level
// command error. Cosmos-flavored deployments use code 16500; Atlas returns
// a TooManyRequests code name.
const cosmosRateLimitCode = 16500

// wrapQuota translates a driver rate-limit error into the domain sentinel so
// upper layers can schedule backoff without importing the driver.
func wrapQuota(err error) error {
	if err == nil {
		return nil
	}
	if isDriverRateLimit(err) {
		return fmt.Errorf("%w: %v", model.ErrQuotaExhausted, err)
	}
	return err
}

func isDriverRateLimit(err error) bool {
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if cmdErr.Code == cosmosRateLimitCode || cmdErr.Name == "TooManyRequests" {
			return true
		}
	}
	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) {
		for _, we := range writeErr.WriteErrors {
			if we.Code == cosmosRateLimitCode {
				return true
			}
		}
	}
	return strings.Contains(err.Error(), "RetryAfterMs")
}
