// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package wgpu

import (
	"log/slog"

	"github.com/gogpu/valora"
)

func slogger() *slog.Logger { return valora.Logger() }
