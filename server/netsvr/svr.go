package netsvr

import (
	"net/http"

	"github.com/zintix-labs/edgesim/server/app"
)

// NetSvr 模擬服務的 HTTP 外殼：路由 + 啟停 + 監聽資訊。
//   - 只交給 server 組裝層使用，handler 只面向 NetRouter。
//   - 本身實作 app.Component，可直接交給 app.App 管理生命週期。
//   - 目前實作為 ChiAdapter（net/http + chi）；換框架時實作此介面即可。
type NetSvr interface {
	NetRouter
	app.Component

	// Address 回傳監聽位址
	Address() string
	// Routes 列出已註冊的 "METHOD /path"，啟動時寫進 log
	Routes() []string
}

// NetRouter 定義純路由行為，讓 /v1 等子群組只能掛路由、無法控制 server 生命週期。
//
// 模擬 API 只有查詢 (GET) 與送出模擬 (POST)，因此不提供其他 method。
type NetRouter interface {
	Use(middleware func(http.Handler) http.Handler)

	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)

	Group(path string, fn func(NetRouter))
}
