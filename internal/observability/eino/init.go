// Package eino 注册 Eino 全局回调，为模型调用采集指标与追踪
package eino

import (
	"sync"

	einocallbacks "github.com/cloudwego/eino/callbacks"
	cbtemplate "github.com/cloudwego/eino/utils/callbacks"
)

var initOnce sync.Once

// NewHandler 仅处理 ChatModel 组件的回调处理器
func NewHandler() einocallbacks.Handler {
	return cbtemplate.NewHandlerHelper().
		ChatModel(newChatModelCallbackHandler()).
		Handler()
}

// Init 进程内注册一次全局处理器；直接调用 ChatModel 时需先 callbacks.InitCallbacks
func Init() {
	initOnce.Do(func() {
		einocallbacks.AppendGlobalHandlers(NewHandler())
	})
}
