package reply

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Row values come back as whatever the driver produced: pgx yields time.Time
// and numeric strings, sqlite yields text and int64.

func toDecimal(v any) decimal.Decimal {
	switch val := v.(type) {
	case decimal.Decimal:
		return val
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(val))
		if err == nil {
			return d
		}
	case float64:
		return decimal.NewFromFloat(val)
	case float32:
		return decimal.NewFromFloat32(val)
	case int64:
		return decimal.NewFromInt(val)
	case int:
		return decimal.NewFromInt(int64(val))
	}

	return decimal.Zero
}

func toDate(v any) string {
	switch val := v.(type) {
	case time.Time:
		return val.Format(time.DateOnly)
	case string:
		if len(val) >= len(time.DateOnly) {
			return val[:len(time.DateOnly)]
		}

		return val
	case nil:
		return ""
	}

	return fmt.Sprint(v)
}

func toBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case int64:
		return val != 0
	case int:
		return val != 0
	case string:
		b, _ := strconv.ParseBool(val)
		return b
	}

	return false
}

func toString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case time.Time:
		return val.Format(time.DateOnly)
	}

	return fmt.Sprint(v)
}
