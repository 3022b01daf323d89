/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"github.com/spaghettifunk/tinta/engine"
	"github.com/spaghettifunk/tinta/engine/core"
	"github.com/spaghettifunk/tinta/testbed"
)

func main() {
	cfg, err := engine.LoadApplicationConfig("config.toml")
	if err != nil {
		core.LogFatal("%s", err)
	}
	engine.Run(cfg, testbed.New)
}
