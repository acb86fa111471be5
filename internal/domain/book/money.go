package book

import (
	"strconv"
	"strings"
)

// Price 图书价格，单位：分（1元=100分）
// 对应 DECIMAL(7,2)，取值范围 0 ~ 99999.99
type Price int64

// MaxPrice DECIMAL(7,2) 能表示的最大值
const MaxPrice Price = 9999999

// ParsePrice 解析两位小数的十进制字符串（"10"、"10.5"、"10.50"）
// 不经过float64，避免精度问题
func ParsePrice(s string) (Price, error) {
	cents, err := parseFixed2(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if cents < 0 || Price(cents) > MaxPrice {
		return 0, ErrInvalidPrice
	}
	return Price(cents), nil
}

// String 格式化为两位小数，如 1000 → "10.00"
func (p Price) String() string {
	return formatFixed2(int64(p))
}

// Rating 平均评分，单位：百分之一（4.67 → 467）
// 对应 DECIMAL(3,2)
type Rating int64

// String 格式化为两位小数
func (r Rating) String() string {
	return formatFixed2(int64(r))
}

// parseFixed2 把最多两位小数的十进制字符串解析为"百分之一"单位的整数
func parseFixed2(s string) (int64, error) {
	if s == "" {
		return 0, ErrInvalidPrice
	}

	neg := false
	if s[0] == '-' || s[0] == '+' {
		neg = s[0] == '-'
		s = s[1:]
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" || !isDigits(intPart) {
		return 0, ErrInvalidPrice
	}
	if hasDot && (fracPart == "" || !isDigits(fracPart)) {
		return 0, ErrInvalidPrice
	}
	if len(fracPart) > 2 {
		return 0, ErrPriceScale
	}
	// 7位总长 → 整数部分最多5位（去掉前导0）
	if len(strings.TrimLeft(intPart, "0")) > 5 {
		return 0, ErrInvalidPrice
	}

	whole, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidPrice
	}
	for len(fracPart) < 2 {
		fracPart += "0"
	}
	frac, _ := strconv.ParseInt(fracPart, 10, 64)

	v := whole*100 + frac
	if neg {
		v = -v
	}
	return v, nil
}

func formatFixed2(v int64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return sign + strconv.FormatInt(v/100, 10) + "." + leftPad2(v%100)
}

func leftPad2(v int64) string {
	if v < 10 {
		return "0" + strconv.FormatInt(v, 10)
	}
	return strconv.FormatInt(v, 10)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
