//trjstat computes statistical properties (distributions, correlation
//functions, elastic constants) from molecular dynamics trajectories.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
