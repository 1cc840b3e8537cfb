// Copyright 2024 Gustavo C. Viegas. All rights reserved.

// Command molview builds instanced molecular geometry from
// instance data files and exports it as glTF.
package main

import (
	"os"

	"github.com/gviegas/molview/cmd/molview/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
