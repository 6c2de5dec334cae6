// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import "github.com/taibuivan/fruitlog/internal/platform/apperr"

// ErrNotificationNotFound is returned when marking an unknown notification.
var ErrNotificationNotFound = apperr.NotFound("Notification")
