package main

import (
	"os"

	"k8s.io/klog/v2"

	"github.com/cspalloc/vmallocator/cmd/vmallocator/app"
)

func main() {
	cmd := app.NewAllocatorCommand(os.Stdout)
	code := 0
	if err := cmd.Execute(); err != nil {
		klog.ErrorS(err, "vmallocator failed")
		code = 1
	}
	klog.Flush()
	os.Exit(code)
}
