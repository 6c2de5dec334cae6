// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logistics

import (
	"net/http"

	"github.com/taibuivan/fruitlog/internal/platform/apperr"
)

var (
	// ErrTruckNotFound is returned for unknown trucks and for trucks outside the caller's hangar.
	ErrTruckNotFound = apperr.NotFound("Truck")

	// ErrInvalidStatus is returned when a status is not one of [Statuses].
	ErrInvalidStatus = apperr.New(http.StatusBadRequest, "INVALID_STATUS", "Status must be one of registered, arrived, unloading, unloaded")
)
