// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/appshelf/appshelf/cmd/appshelf"

func main() {
	cmd.Execute()
}
