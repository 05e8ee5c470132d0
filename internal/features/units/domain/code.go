package domain

import (
	"strconv"
	"time"
	"unicode/utf8"
)

// CodeLength is the exact number of characters in a scanned unit code.
const CodeLength = 48

// ProductSize is the container classification derived from the product code.
type ProductSize string

const (
	Size25ml    ProductSize = "25ml"
	Size40ml    ProductSize = "40ml"
	SizeUnknown ProductSize = "unknown"
)

// productSizes maps known 16-character product codes to their container size.
var productSizes = map[string]ProductSize{
	"0104517715966683": Size25ml,
	"0104517715967246": Size40ml,
}

// SizeFor returns the size for a product code, SizeUnknown when unmatched.
func SizeFor(productCode string) ProductSize {
	if s, ok := productSizes[productCode]; ok {
		return s
	}
	return SizeUnknown
}

// ParsedCode is the structured content of a scanned code.
type ParsedCode struct {
	ProductCode    string      `json:"product_code"`
	Size           ProductSize `json:"size"`
	LotNumber      string      `json:"lot_number"`
	ExpirationDate Date        `json:"expiration_date"`
	SerialNumber   string      `json:"serial_number"`
}

// Field offsets within a code, end exclusive.
const (
	productStart, productEnd       = 0, 16
	expirationStart, expirationEnd = 18, 24
	lotStart, lotEnd               = 26, 32
	serialStart, serialEnd         = 34, 48
)

// ParseCode decodes a fixed-width scanned code. It performs no I/O and returns
// either a complete ParsedCode or a *ParseError.
func ParseCode(code string) (ParsedCode, error) {
	n := utf8.RuneCountInString(code)
	if n != CodeLength {
		return ParsedCode{}, &ParseError{Kind: ErrInvalidLength, Length: n}
	}
	r := []rune(code)

	field := string(r[expirationStart:expirationEnd])
	exp, err := parseExpiration(field)
	if err != nil {
		return ParsedCode{}, &ParseError{Kind: ErrInvalidDate, Length: n, Field: field}
	}

	product := string(r[productStart:productEnd])
	return ParsedCode{
		ProductCode:    product,
		Size:           SizeFor(product),
		LotNumber:      string(r[lotStart:lotEnd]),
		ExpirationDate: exp,
		SerialNumber:   string(r[serialStart:serialEnd]),
	}, nil
}

// parseExpiration decodes YYMMDD into a date in the 2000s.
func parseExpiration(field string) (Date, error) {
	for _, c := range field {
		if c < '0' || c > '9' {
			return Date{}, ErrInvalidDate
		}
	}
	yy, _ := strconv.Atoi(field[0:2])
	mm, _ := strconv.Atoi(field[2:4])
	dd, _ := strconv.Atoi(field[4:6])
	return NewDate(2000+yy, time.Month(mm), dd)
}
