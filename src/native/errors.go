// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package native

import (
	"fmt"
	"maps"
	"slices"
)

// Engine error codes.
const (
	ErrOK         int32 = 0
	ErrBadParam   int32 = 1
	ErrBadState   int32 = 2
	ErrUnexpected int32 = 10
	ErrIO         int32 = 31
)

// X.509 validation codes. ErrX509OK is success.
const (
	ErrX509OK            int32 = 32
	ErrX509InvalidValue  int32 = 33
	ErrX509EmptyChain    int32 = 35
	ErrX509BadSignature  int32 = 52
	ErrX509Expired       int32 = 54
	ErrX509BadServerName int32 = 56
	ErrX509NotCA         int32 = 58
	ErrX509NotTrusted    int32 = 62
)

var errorNames = map[int32]string{
	ErrOK:                "BR_ERR_OK",
	ErrBadParam:          "BR_ERR_BAD_PARAM",
	ErrBadState:          "BR_ERR_BAD_STATE",
	ErrUnexpected:        "BR_ERR_UNEXPECTED",
	ErrIO:                "BR_ERR_IO",
	ErrX509OK:            "BR_ERR_X509_OK",
	ErrX509InvalidValue:  "BR_ERR_X509_INVALID_VALUE",
	ErrX509EmptyChain:    "BR_ERR_X509_EMPTY_CHAIN",
	ErrX509BadSignature:  "BR_ERR_X509_BAD_SIGNATURE",
	ErrX509Expired:       "BR_ERR_X509_EXPIRED",
	ErrX509BadServerName: "BR_ERR_X509_BAD_SERVER_NAME",
	ErrX509NotCA:         "BR_ERR_X509_NOT_CA",
	ErrX509NotTrusted:    "BR_ERR_X509_NOT_TRUSTED",
}

// ErrorName returns the symbolic name of an engine or X.509 code.
func ErrorName(code int32) string {
	if name, ok := errorNames[code]; ok {
		return name
	}
	return fmt.Sprintf("BR_ERR_%d", code)
}

// ErrorCodes returns every code [ErrorName] knows, in ascending order.
func ErrorCodes() []int32 { return slices.Sorted(maps.Keys(errorNames)) }
