//go:build hfsmdebug

package hfsm

// 使用 hfsmdebug 标签编译时，首次初始化总是执行 Validate
const debugChecks = true
