// Command ceobserve runs the surface observer against a local HTML document
// in a terminal inspector, or against a live editor page in Chrome.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
