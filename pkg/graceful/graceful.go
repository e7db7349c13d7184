package graceful

import (
	"os"
	"os/signal"
	"syscall"
)

// Stop 阻塞等待中断信号，收到后执行清理函数
func Stop(fn func()) {
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done
	fn()
}
