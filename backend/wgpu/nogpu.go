// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package wgpu

import (
	"github.com/gogpu/easel"
	"github.com/gogpu/easel/backend"
)

// init registers a factory that reports the backend as unavailable, so code
// importing this package still compiles and the registry falls through to
// other backends.
func init() {
	backend.Register(backend.BackendWGPU, func() (easel.Device, error) {
		return nil, backend.ErrBackendNotAvailable
	})
}

// Open always fails under the nogpu tag.
func Open() (*Device, error) {
	return nil, backend.ErrBackendNotAvailable
}

// Device is unavailable under the nogpu tag.
type Device struct{}
