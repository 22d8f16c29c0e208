package main

import (
	"github.com/carestel-arch/telegram-earnings-bot-sub000/cmd/db"
	"github.com/carestel-arch/telegram-earnings-bot-sub000/internal/app"
)

func main() {
	db.Connect()

	app.Start()
}
