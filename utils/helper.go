package utils

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/bsm/redislock"
	"github.com/camstore/store_backend/config"
	"github.com/go-playground/validator/v10"
)

func NewTrue() *bool {
	b := true
	return &b
}

func NewFalse() *bool {
	b := false
	return &b
}

// ProcessValidationErrors flattens binding validation failures into a
// field -> failed-rule map for API error responses. Non-validation
// errors come back as nil so the caller can fall through to a generic
// message.
func ProcessValidationErrors(err error) map[string]string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return nil
	}

	errorResponse := make(map[string]string)
	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}
	return errorResponse
}

// Round2 rounds to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

var monthNames = [...]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthName returns the English month name for month 1..12, "" otherwise.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// DaysUntil returns whole days from today (UTC midnight) until d.
func DaysUntil(d time.Time) int {
	today := time.Now().UTC().Truncate(24 * time.Hour)
	target := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24)
}

// ObtainProductLock serializes ledger mutations per product. The caller
// must Release the returned lock. When the redis lock client is not
// initialized (single-process deployments, tests), it returns a nil
// lock and the DB transaction is the only serialization point.
func ObtainProductLock(ctx context.Context, productId int) (*redislock.Lock, error) {
	locker := config.GetRedisLock()
	if locker == nil {
		return nil, nil
	}
	lockKey := fmt.Sprintf("ProductLedgerLock:%d", productId)
	lock, err := locker.Obtain(ctx, lockKey, 30*time.Second, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 50),
	})
	if err == redislock.ErrNotObtained {
		return nil, fmt.Errorf("could not obtain ledger lock for product %d", productId)
	} else if err != nil {
		return nil, err
	}
	return lock, nil
}

// ReleaseLock releases l, tolerating a nil lock.
func ReleaseLock(ctx context.Context, l *redislock.Lock) {
	if l == nil {
		return
	}
	_ = l.Release(ctx)
}
