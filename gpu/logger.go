// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package gpu

import (
	"log/slog"

	"github.com/gogpu/valora"
)

// slogger returns the logger installed with valora.SetLogger.
func slogger() *slog.Logger { return valora.Logger() }
