package main

import "github.com/zhenglaizhang/batter-store-api/internal/app"

func main() {
	app.Run()
}
