package storefrontserver

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	ordersmapper "github.com/Apurer/storefront-orders/internal/domains/orders/adapters/http/mapper"
)

func pathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, raw)
	}
	return id, nil
}

func queryDate(c *gin.Context, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	date, err := time.Parse(ordersmapper.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a date in %s format, got %q", name, ordersmapper.DateLayout, raw)
	}
	return &date, nil
}

// requiredDateRange reads the mandatory start and end query parameters.
func requiredDateRange(c *gin.Context) (time.Time, time.Time, error) {
	start, err := queryDate(c, "start")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := queryDate(c, "end")
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if start == nil || end == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start and end are required")
	}
	return *start, *end, nil
}

func queryInt64(c *gin.Context, name string) (*int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer, got %q", name, raw)
	}
	return &v, nil
}

func queryDecimal(c *gin.Context, name string) (*decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be a decimal amount, got %q", name, raw)
	}
	return &v, nil
}
