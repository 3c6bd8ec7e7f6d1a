// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Kestrelworks

package main

import (
	"os"

	"github.com/kestrelworks/spitap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
