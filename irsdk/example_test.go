package irsdk_test

import (
	"context"
	"fmt"
	"log"

	"github.com/voyagen/irsdk/internal/sdkconfig"
	"github.com/voyagen/irsdk/irsdk"
)

// Example demonstrates a typical attach/read/detach cycle against a
// recorded test file — the same path a live simulator session would take,
// minus the platform-specific shared-memory attach.
func Example() {
	ctx := context.Background()
	c := irsdk.New(sdkconfig.DefaultConfig())

	ok, err := c.Startup(ctx, "testdata/session.bin", "")
	if err != nil {
		log.Fatal(err)
	}
	if !ok {
		fmt.Println("no session available")
		return
	}
	defer c.Shutdown()

	speed, err := c.Get(ctx, "Speed")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(speed)
}
