/*
 * @Description:
 * @Author: 安知鱼
 * @Date: 2025-09-02 22:18:46
 * @LastEditTime: 2025-09-24 23:02:31
 * @LastEditors: 安知鱼
 */
package main

import (
	"log"

	"github.com/anzhiyu-c/sleeve-detector/cmd/server"
)

func main() {
	// 调用位于 cmd/server 包中的 NewApp 函数来构建整个应用
	app, err := server.NewApp()
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}

	// 确保后台任务在程序退出时被停止
	defer app.Stop()

	app.PrintBanner()

	// 启动应用
	if err := app.Run(); err != nil {
		log.Fatalf("应用运行失败: %v", err)
	}
}
